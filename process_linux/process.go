//go:build linux

package process_linux

import (
	"fmt"
	"os"
	"sync"

	"cosmicsplit/process"
	"cosmicsplit/process/memory_map"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// LinuxProcess implements the process.Process interface for Linux systems
type LinuxProcess struct {
	pid       process.ProcessID
	startTime uint64
	log       *logger.Logger
	mm        []memory_map.MemoryMapItem
	mu        sync.Mutex
}

var _ process.Process = (*LinuxProcess)(nil)

// New creates a new LinuxProcess instance
func New() *LinuxProcess {
	return &LinuxProcess{
		log: logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open")),
	}
}

// NewWithPID creates a new LinuxProcess instance and opens it with the given PID
func NewWithPID(pid process.ProcessID) (*LinuxProcess, error) {
	p := New()
	err := p.Open(pid)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (p *LinuxProcess) Open(pid process.ProcessID) error {
	procPath := fmt.Sprintf("/proc/%d", pid)
	if _, err := os.Stat(procPath); os.IsNotExist(err) {
		return fmt.Errorf("process with PID %d: %w", pid, process.ErrProcessNotFound)
	}

	startTime, err := readStartTime(int(pid))
	if err != nil {
		return fmt.Errorf("failed to read start time of PID %d: %w", pid, err)
	}

	p.mu.Lock()
	p.pid = pid
	p.startTime = startTime
	p.log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid)))
	p.mu.Unlock()

	if err := p.UpdateMemoryMap(); err != nil {
		return fmt.Errorf("failed to initialize memory map: %w", err)
	}

	p.log.Infoln("Process opened")

	return nil
}

func (p *LinuxProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pid == 0 {
		return nil
	}

	p.pid = 0
	p.startTime = 0
	p.mm = nil

	p.log.Infoln("Process closed")
	p.log = logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open"))

	return nil
}

// GetPID returns the process ID
func (p *LinuxProcess) GetPID() process.ProcessID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pid
}

// IsOpen reports whether the opened PID still refers to the same process.
// A recycled PID is detected by its start time.
func (p *LinuxProcess) IsOpen() bool {
	p.mu.Lock()
	pid, startTime := p.pid, p.startTime
	p.mu.Unlock()

	if pid == 0 || !procExists(int(pid)) {
		return false
	}

	current, err := readStartTime(int(pid))
	if err != nil {
		return false
	}
	return current == startTime
}

func (p *LinuxProcess) UpdateMemoryMap() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pid == 0 {
		return process.ErrProcessNotOpen
	}

	mm, err := memory_map.ReadMemoryMap(int(p.pid))
	if err != nil {
		return fmt.Errorf("failed to read memory map: %w", err)
	}

	p.mm = mm
	return nil
}

// GetModule finds the mapped image of a module by file name.
// The memory map is refreshed first so a module loaded after Open is still found.
func (p *LinuxProcess) GetModule(name string) (process.ModuleInfo, error) {
	if err := p.UpdateMemoryMap(); err != nil {
		return process.ModuleInfo{}, err
	}

	p.mu.Lock()
	base, size, ok := memory_map.ModuleRange(name, p.mm)
	p.mu.Unlock()

	if !ok {
		return process.ModuleInfo{}, fmt.Errorf("%s: %w", name, process.ErrModuleNotFound)
	}

	return process.ModuleInfo{
		Name: name,
		Base: process.ProcessMemoryAddress(base),
		Size: process.ProcessMemorySize(size),
	}, nil
}

func (p *LinuxProcess) GetMemoryMap() ([]memory_map.MemoryMapItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pid == 0 {
		return nil, process.ErrProcessNotOpen
	}

	// Make a copy of the memory map to prevent external modification
	result := make([]memory_map.MemoryMapItem, len(p.mm))
	copy(result, p.mm)

	return result, nil
}

// isPlausibleAddress rejects addresses no user-space mapping can hold
func isPlausibleAddress(addr process.ProcessMemoryAddress) bool {
	if addr <= 0x10000 {
		return false
	}

	if addr > 0x7FFFFFFFFFFF {
		return false
	}

	return true
}
