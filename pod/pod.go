// Package pod decodes raw foreign-process bytes into fixed-size Go values.
//
// T must be "POD": it and all of its fields/element types contain no pointers, so
// the bytes can be copied straight into the value. Types whose byte patterns are not
// all valid (enums backed by an integer) implement Checked and are rejected on decode
// instead of being coerced.
package pod

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"
)

var (
	// ErrNotPOD is returned when T contains pointer-like fields.
	ErrNotPOD = errors.New("type is not POD-safe")

	// ErrShortBuffer is returned when fewer than SizeOf[T]() bytes are supplied.
	ErrShortBuffer = errors.New("buffer too small")

	// ErrBitPattern is returned when the decoded value fails its Checked validation.
	ErrBitPattern = errors.New("invalid bit pattern")
)

// Checked is implemented by types that only accept some of their possible bit patterns.
type Checked interface {
	ValidBitPattern() bool
}

func SizeOf[T any]() uint64 {
	var t T
	return uint64(unsafe.Sizeof(t))
}

// Decode copies the first sizeof(T) bytes from data into a new T.
func Decode[T any](data []byte) (T, error) {
	var zero T

	if hasPointers[T]() {
		return zero, fmt.Errorf("decode %T: %w", zero, ErrNotPOD)
	}

	var tmp T
	size := int(unsafe.Sizeof(tmp))
	if len(data) < size {
		return zero, fmt.Errorf("decode %T: %w: have %d, need %d", zero, ErrShortBuffer, len(data), size)
	}

	if size > 0 {
		dst := unsafe.Slice((*byte)(unsafe.Pointer(&tmp)), size)
		copy(dst, data[:size])
	}

	if c, ok := any(tmp).(Checked); ok && !c.ValidBitPattern() {
		return zero, fmt.Errorf("decode %T: %w: % x", zero, ErrBitPattern, data[:size])
	}

	return tmp, nil
}

// Encode serializes a POD value into a raw byte slice using the in-memory layout.
func Encode[T any](v T) []byte {
	size := int(unsafe.Sizeof(v))
	if size == 0 {
		return []byte{}
	}
	src := unsafe.Slice((*byte)(unsafe.Pointer(&v)), size)
	out := make([]byte, size)
	copy(out, src)
	return out
}

// hasPointers reports whether T (recursively) contains any pointer-like fields.
func hasPointers[T any]() bool {
	return typeHasPointers(reflect.TypeOf((*T)(nil)).Elem())
}

func typeHasPointers(rt reflect.Type) bool {
	switch rt.Kind() {
	case reflect.Ptr, reflect.UnsafePointer, reflect.Interface, reflect.Func, reflect.Map, reflect.Slice, reflect.String, reflect.Chan:
		return true
	case reflect.Array:
		return typeHasPointers(rt.Elem())
	case reflect.Struct:
		for i := 0; i < rt.NumField(); i++ {
			if typeHasPointers(rt.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		// bool, ints, uints, floats, complex, etc.
		return false
	}
}
