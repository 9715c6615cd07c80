package process

import "fmt"

// ProcessID represents a unique identifier for a process
type ProcessID int

// ProcessInfo contains basic information about a process
type ProcessInfo struct {
	PID  ProcessID // Process ID
	Name string    // Process name (comm on Linux, ExeFile on Windows)
	Exe  string    // Path to the executable, when known
}

// ModuleInfo describes a loaded image inside a process
type ModuleInfo struct {
	Name string               // Module file name, e.g. "Game-Win64-Shipping.exe"
	Base ProcessMemoryAddress // Load address of the first mapped byte
	Size ProcessMemorySize    // Size of the mapped image in bytes
}

func (m ModuleInfo) String() string {
	return fmt.Sprintf("%s @ %s (size 0x%X)", m.Name, m.Base.ToString(), uint64(m.Size))
}

// Contains reports whether addr lies inside the module image
func (m ModuleInfo) Contains(addr ProcessMemoryAddress) bool {
	return addr >= m.Base && uint64(addr-m.Base) < uint64(m.Size)
}
