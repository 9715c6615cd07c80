//go:build windows

package process_windows

import (
	"fmt"
	"unsafe"

	"cosmicsplit/process"

	"golang.org/x/sys/windows"
)

// FindProcess returns the first process whose executable file name equals name
func FindProcess(name string) (process.ProcessInfo, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return process.ProcessInfo{}, fmt.Errorf("CreateToolhelp32Snapshot failed: %w", err)
	}
	defer windows.CloseHandle(snap)

	var pe windows.ProcessEntry32
	pe.Size = uint32(unsafe.Sizeof(pe))
	if err := windows.Process32First(snap, &pe); err != nil {
		return process.ProcessInfo{}, fmt.Errorf("Process32First failed: %w", err)
	}

	for {
		exe := windows.UTF16ToString(pe.ExeFile[:])
		if exe == name {
			return process.ProcessInfo{PID: process.ProcessID(pe.ProcessID), Name: exe}, nil
		}
		if windows.Process32Next(snap, &pe) != nil {
			break
		}
	}

	return process.ProcessInfo{}, fmt.Errorf("no process found with name '%s': %w", name, process.ErrProcessNotFound)
}

// WindowsProcessOpener implements process.Opener with Toolhelp32 snapshots
type WindowsProcessOpener struct{}

// NewOpener creates a new WindowsProcessOpener
func NewOpener() process.Opener {
	return &WindowsProcessOpener{}
}

func (h *WindowsProcessOpener) OpenProcessByName(name string) (process.Process, error) {
	info, err := FindProcess(name)
	if err != nil {
		return nil, err
	}

	proc, err := NewWithPID(info.PID)
	if err != nil {
		return nil, err
	}
	return proc, nil
}
