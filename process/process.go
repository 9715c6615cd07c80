// Package process provides interfaces and types for reading the memory of a foreign process
package process

import "errors"

// The platform backends live in process_linux and process_windows; process_blob provides
// an in-memory implementation for tests and offline replay.

var (
	// ErrAddressNotMapped is returned when a memory address is not found within any mapped region of a process.
	ErrAddressNotMapped = errors.New("address not mapped")

	// ErrProcessNotOpen is returned when an operation requiring an open process is attempted
	// before the process has been successfully opened or after it has been closed.
	ErrProcessNotOpen = errors.New("process not open")

	// ErrProcessNotFound is returned by an Opener when no process matches the requested name.
	ErrProcessNotFound = errors.New("process not found")

	// ErrModuleNotFound is returned when the requested module is not loaded in the process.
	ErrModuleNotFound = errors.New("module not found")

	ErrInvalidPointer = errors.New("invalid pointer read")

	// ErrNullPointer is returned when a pointer path dereferences a null pointer.
	ErrNullPointer = errors.New("null pointer")

	// ErrEmptyPath is returned when a pointer path is built without offsets.
	ErrEmptyPath = errors.New("pointer path has no offsets")
)
