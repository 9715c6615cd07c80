//go:build linux

package process_linux

import (
	"errors"
	"fmt"
	"os"

	"cosmicsplit/process"
)

// LinuxProcessOpener implements process.Opener on top of /proc
type LinuxProcessOpener struct{}

// NewOpener creates a new LinuxProcessOpener
func NewOpener() process.Opener {
	return &LinuxProcessOpener{}
}

// OpenProcessByName opens a process by its name (returns the lowest matching PID)
func (h *LinuxProcessOpener) OpenProcessByName(name string) (process.Process, error) {
	info, err := OneByName(name)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no process found with name '%s': %w", name, process.ErrProcessNotFound)
	}
	if err != nil {
		return nil, err
	}

	proc, err := NewWithPID(info.PID)
	if err != nil {
		return nil, err
	}
	return proc, nil
}
