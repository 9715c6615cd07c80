package process

import (
	"encoding/binary"
	"fmt"
	"strings"

	"cosmicsplit/pod"
)

// ResolvePath walks a pointer path and returns the address of the final field.
// It starts at base, adds the first offset, reads a pointer, adds the next offset, reads a pointer, etc.
// The last offset is added to the final pointer without a dereference.
func ResolvePath(r MemoryReader, base ProcessMemoryAddress, offsets ...ProcessMemorySize) (ProcessMemoryAddress, error) {
	if len(offsets) == 0 {
		return 0, ErrEmptyPath
	}

	currentAddr := base

	// Iterate over all offsets except the last one
	for i := 0; i < len(offsets)-1; i++ {
		ptrAddr := currentAddr + ProcessMemoryAddress(offsets[i])

		ptrVal, err := ReadPointer(r, ptrAddr)
		if err != nil {
			return 0, fmt.Errorf("failed to read pointer at offset %d (addr 0x%x): %w", i, uint64(ptrAddr), err)
		}

		if ptrVal.IsNull() {
			return 0, fmt.Errorf("pointer at offset %d (addr 0x%x): %w", i, uint64(ptrAddr), ErrNullPointer)
		}

		currentAddr = ptrVal
	}

	return currentAddr + ProcessMemoryAddress(offsets[len(offsets)-1]), nil
}

// ReadPath reads a value of type T at the end of a pointer path.
// Any failed or null intermediate dereference fails the whole read; no partial value is returned.
func ReadPath[T any](r MemoryReader, base ProcessMemoryAddress, offsets ...ProcessMemorySize) (T, error) {
	var zero T

	finalAddr, err := ResolvePath(r, base, offsets...)
	if err != nil {
		return zero, err
	}

	val, err := Read[T](r, finalAddr)
	if err != nil {
		return zero, fmt.Errorf("failed to read final value at 0x%x: %w", uint64(finalAddr), err)
	}

	return val, nil
}

// Read is a helper to read a single value of type T from memory
func Read[T any](r MemoryReader, addr ProcessMemoryAddress) (T, error) {
	var zero T
	size := pod.SizeOf[T]()
	if size == 0 {
		return zero, nil
	}

	data, err := r.ReadMemory(addr, ProcessMemorySize(size))
	if err != nil {
		return zero, err
	}

	return pod.Decode[T](data)
}

// ReadPointer reads a pointer-sized value from the specified address
func ReadPointer(r MemoryReader, addr ProcessMemoryAddress) (ProcessMemoryAddress, error) {
	data, err := r.ReadMemory(addr, PointerSize)
	if err != nil {
		return 0, err
	}
	if len(data) < int(PointerSize) {
		return 0, ErrInvalidPointer
	}
	return ProcessMemoryAddress(binary.LittleEndian.Uint64(data)), nil
}

// Path is an immutable pointer path ending in a field of type T
type Path[T any] struct {
	offsets []ProcessMemorySize
}

// NewPath builds a pointer path from a non-empty offset chain
func NewPath[T any](offsets ...ProcessMemorySize) (Path[T], error) {
	if len(offsets) == 0 {
		return Path[T]{}, ErrEmptyPath
	}
	return Path[T]{offsets: append([]ProcessMemorySize(nil), offsets...)}, nil
}

// MustPath is like NewPath but panics on an empty chain. Use it for static offset tables.
func MustPath[T any](offsets ...ProcessMemorySize) Path[T] {
	p, err := NewPath[T](offsets...)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path[T]) Read(r MemoryReader, base ProcessMemoryAddress) (T, error) {
	return ReadPath[T](r, base, p.offsets...)
}

// Resolve returns the address of the final field without reading it
func (p Path[T]) Resolve(r MemoryReader, base ProcessMemoryAddress) (ProcessMemoryAddress, error) {
	return ResolvePath(r, base, p.offsets...)
}

// Offsets returns a copy of the offset chain
func (p Path[T]) Offsets() []ProcessMemorySize {
	return append([]ProcessMemorySize(nil), p.offsets...)
}

// Size is the number of bytes read at the end of the path
func (p Path[T]) Size() ProcessMemorySize {
	return ProcessMemorySize(pod.SizeOf[T]())
}

func (p Path[T]) String() string {
	parts := make([]string, len(p.offsets))
	for i, off := range p.offsets {
		parts[i] = fmt.Sprintf("0x%X", uint64(off))
	}
	return strings.Join(parts, " -> ")
}

// BitPath is a byte-sized pointer path from which a single flag bit is extracted
type BitPath struct {
	path Path[uint8]
	bit  uint8
}

// NewBitPath rejects a bit index outside 0..7
func NewBitPath(path Path[uint8], bit uint8) (BitPath, error) {
	if bit >= 8 {
		return BitPath{}, fmt.Errorf("bit index %d out of range 0..7", bit)
	}
	return BitPath{path: path, bit: bit}, nil
}

// MustBitPath is like NewBitPath but panics on an invalid bit index
func MustBitPath(path Path[uint8], bit uint8) BitPath {
	bp, err := NewBitPath(path, bit)
	if err != nil {
		panic(err)
	}
	return bp
}

func (b BitPath) Read(r MemoryReader, base ProcessMemoryAddress) (bool, error) {
	field, err := b.path.Read(r, base)
	if err != nil {
		return false, err
	}
	return (field>>b.bit)&1 != 0, nil
}

func (b BitPath) Path() Path[uint8] {
	return b.path
}

func (b BitPath) Bit() uint8 {
	return b.bit
}

func (b BitPath) String() string {
	return fmt.Sprintf("%s [bit %d]", b.path.String(), b.bit)
}
