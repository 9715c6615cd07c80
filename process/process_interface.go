package process

// MemoryReader is the only capability a pointer path needs
type MemoryReader interface {
	// ReadMemory reads exactly size bytes from the process at the specified address.
	// A short read is an error; no partial data is returned.
	ReadMemory(addr ProcessMemoryAddress, size ProcessMemorySize) ([]byte, error)
}

// Process is the interface that defines operations for interacting with a system process
type Process interface {
	// Close closes the process and releases resources
	Close() error

	// GetPID returns the process ID
	GetPID() ProcessID

	// IsOpen reports whether the process is still alive and the handle usable
	IsOpen() bool

	// GetModule looks up a loaded module by its file name
	GetModule(name string) (ModuleInfo, error)

	MemoryReader
}
