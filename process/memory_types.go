package process

import (
	"fmt"
)

// ProcessMemoryAddress represents a memory address within a process
type ProcessMemoryAddress uint64

func (pma ProcessMemoryAddress) ToString() string {
	return fmt.Sprintf("0x%X", uint64(pma))
}

// IsNull reports whether the address is the zero pointer
func (pma ProcessMemoryAddress) IsNull() bool {
	return pma == 0
}

// ProcessMemorySize represents a size of memory region, or a byte offset inside one
type ProcessMemorySize uint64

func (pms ProcessMemorySize) ToString() string {
	return fmt.Sprintf("%d bytes", uint64(pms))
}

// PointerSize is the width of a pointer in the target process. Only 64-bit targets are supported.
const PointerSize ProcessMemorySize = 8
