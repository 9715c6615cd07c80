//go:build windows

package process_windows

import (
	"fmt"
	"sync"
	"unsafe"

	"cosmicsplit/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/windows"
)

const desiredAccess = windows.PROCESS_VM_READ | windows.PROCESS_QUERY_LIMITED_INFORMATION | windows.SYNCHRONIZE

// WindowsProcess implements the process.Process interface for Windows systems
type WindowsProcess struct {
	pid    process.ProcessID
	handle windows.Handle
	log    *logger.Logger
	mu     sync.Mutex
}

var _ process.Process = (*WindowsProcess)(nil)

// New creates a new WindowsProcess instance
func New() *WindowsProcess {
	return &WindowsProcess{
		log: logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open")),
	}
}

// NewWithPID creates a new WindowsProcess instance and opens it with the given PID
func NewWithPID(pid process.ProcessID) (*WindowsProcess, error) {
	p := New()
	err := p.Open(pid)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (p *WindowsProcess) Open(pid process.ProcessID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	handle, err := windows.OpenProcess(desiredAccess, false, uint32(pid))
	if err != nil {
		return fmt.Errorf("OpenProcess failed: %w", err)
	}

	p.pid = pid
	p.handle = handle
	p.log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid)))

	p.log.Infoln("Process opened")
	return nil
}

func (p *WindowsProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle != 0 {
		if err := windows.CloseHandle(p.handle); err != nil {
			return fmt.Errorf("CloseHandle failed: %w", err)
		}
		p.handle = 0
		p.log.Infoln("Process closed")
	}

	p.pid = 0
	p.log = logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open"))

	return nil
}

func (p *WindowsProcess) GetPID() process.ProcessID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pid
}

// IsOpen reports whether the process object is still signaled as running.
// A zero-timeout wait on the handle times out for as long as the process lives.
func (p *WindowsProcess) IsOpen() bool {
	p.mu.Lock()
	handle := p.handle
	p.mu.Unlock()

	if handle == 0 {
		return false
	}

	event, err := windows.WaitForSingleObject(handle, 0)
	if err != nil {
		return false
	}
	return event == uint32(windows.WAIT_TIMEOUT)
}

// GetModule looks the module up in a Toolhelp32 module snapshot
func (p *WindowsProcess) GetModule(name string) (process.ModuleInfo, error) {
	pid := p.GetPID()
	if pid == 0 {
		return process.ModuleInfo{}, process.ErrProcessNotOpen
	}

	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPMODULE|windows.TH32CS_SNAPMODULE32, uint32(pid))
	if err != nil {
		return process.ModuleInfo{}, fmt.Errorf("CreateToolhelp32Snapshot failed: %w", err)
	}
	defer windows.CloseHandle(snap)

	var me windows.ModuleEntry32
	me.Size = uint32(unsafe.Sizeof(me))
	if err := windows.Module32First(snap, &me); err != nil {
		return process.ModuleInfo{}, fmt.Errorf("Module32First failed: %w", err)
	}

	for {
		if windows.UTF16ToString(me.Module[:]) == name {
			return process.ModuleInfo{
				Name: name,
				Base: process.ProcessMemoryAddress(me.ModBaseAddr),
				Size: process.ProcessMemorySize(me.ModBaseSize),
			}, nil
		}
		if windows.Module32Next(snap, &me) != nil {
			break
		}
	}

	return process.ModuleInfo{}, fmt.Errorf("%s: %w", name, process.ErrModuleNotFound)
}

func (p *WindowsProcess) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}

	p.mu.Lock()
	handle := p.handle
	p.mu.Unlock()

	if handle == 0 {
		return nil, process.ErrProcessNotOpen
	}

	buf := make([]byte, size)
	var bytesRead uintptr
	err := windows.ReadProcessMemory(handle, uintptr(addr), &buf[0], uintptr(size), &bytesRead)
	if err != nil {
		return nil, fmt.Errorf("ReadProcessMemory at %s failed: %w", addr.ToString(), err)
	}

	if bytesRead != uintptr(size) {
		return nil, fmt.Errorf("read incomplete: expected %d, got %d", size, bytesRead)
	}

	return buf, nil
}
