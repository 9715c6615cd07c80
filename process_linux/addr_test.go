//go:build linux

package process_linux

import (
	"unsafe"

	"cosmicsplit/process"
)

func addrOf[T any](v *T) process.ProcessMemoryAddress {
	return process.ProcessMemoryAddress(uintptr(unsafe.Pointer(v)))
}
