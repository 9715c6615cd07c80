package process_blob

import (
	"fmt"
	"sync"

	"cosmicsplit/process"
)

// Opener hands out Images by name. A killed image is never returned again,
// mimicking a process that has exited.
type Opener struct {
	mu       sync.Mutex
	images   []*Image
	attempts int
}

var _ process.Opener = (*Opener)(nil)

func NewOpener(images ...*Image) *Opener {
	return &Opener{images: images}
}

// Add makes another image available, e.g. a restarted game
func (o *Opener) Add(img *Image) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.images = append(o.images, img)
}

// Attempts returns how many times OpenProcessByName was called
func (o *Opener) Attempts() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.attempts
}

func (o *Opener) OpenProcessByName(name string) (process.Process, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.attempts++

	for _, img := range o.images {
		if img.Name() == name && img.Alive() {
			img.reopen()
			return img, nil
		}
	}
	return nil, fmt.Errorf("no process found with name '%s': %w", name, process.ErrProcessNotFound)
}
