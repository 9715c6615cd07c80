package process

import (
	"errors"
	"fmt"
)

// ErrNotPEImage is returned by ImageSize when no PE header is found at the module base.
var ErrNotPEImage = errors.New("not a PE image")

const (
	dosMagic       = 0x5A4D // MZ
	peSignature    = 0x00004550
	pe32Magic      = 0x10B
	pe32PlusMagic  = 0x20B
	lfanewOffset   = 0x3C
	optionalHeader = 0x18
	sizeOfImage    = 0x38
)

// ImageSize reads SizeOfImage from the PE headers of the module mapped at base.
// Module sizes taken from a memory map only cover the file backed mappings, which
// is not always the whole image under Wine.
func ImageSize(r MemoryReader, base ProcessMemoryAddress) (ProcessMemorySize, error) {
	magic, err := Read[uint16](r, base)
	if err != nil {
		return 0, err
	}
	if magic != dosMagic {
		return 0, fmt.Errorf("dos magic 0x%X: %w", magic, ErrNotPEImage)
	}

	lfanew, err := Read[uint32](r, base+lfanewOffset)
	if err != nil {
		return 0, err
	}
	nt := base + ProcessMemoryAddress(lfanew)

	sig, err := Read[uint32](r, nt)
	if err != nil {
		return 0, err
	}
	if sig != peSignature {
		return 0, fmt.Errorf("nt signature 0x%X: %w", sig, ErrNotPEImage)
	}

	opt := nt + optionalHeader
	kind, err := Read[uint16](r, opt)
	if err != nil {
		return 0, err
	}
	if kind != pe32Magic && kind != pe32PlusMagic {
		return 0, fmt.Errorf("optional header magic 0x%X: %w", kind, ErrNotPEImage)
	}

	size, err := Read[uint32](r, opt+sizeOfImage)
	if err != nil {
		return 0, err
	}
	return ProcessMemorySize(size), nil
}
