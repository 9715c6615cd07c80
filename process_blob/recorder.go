package process_blob

import (
	"cosmicsplit/process"
)

// Recorder wraps a live process and copies every successful read into an Image,
// so a probe session can be saved and replayed without the game running.
type Recorder struct {
	process.Process
	image *Image
}

func NewRecorder(proc process.Process, name string) *Recorder {
	return &Recorder{
		Process: proc,
		image:   NewImage(proc.GetPID(), name),
	}
}

func (r *Recorder) Image() *Image {
	return r.image
}

func (r *Recorder) GetModule(name string) (process.ModuleInfo, error) {
	m, err := r.Process.GetModule(name)
	if err == nil {
		r.image.AddModule(m)
	}
	return m, err
}

func (r *Recorder) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	data, err := r.Process.ReadMemory(addr, size)
	if err == nil {
		r.image.Write(addr, data)
	}
	return data, err
}
