package pod

import (
	"errors"
	"testing"
)

type level uint8

func (l level) ValidBitPattern() bool { return l <= 2 }

type header struct {
	Magic uint32
	Count uint16
	Flags uint8
	_     uint8
}

func TestDecodeStruct(t *testing.T) {
	got, err := Decode[header]([]byte{0x78, 0x56, 0x34, 0x12, 0x02, 0x00, 0x80, 0x00, 0xFF})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Magic != 0x12345678 || got.Count != 2 || got.Flags != 0x80 {
		t.Fatalf("unexpected decode %+v", got)
	}
}

func TestDecodeShortBuffer(t *testing.T) {
	if _, err := Decode[uint32]([]byte{1, 2}); !errors.Is(err, ErrShortBuffer) {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
}

func TestDecodeRejectsPointers(t *testing.T) {
	if _, err := Decode[*uint32](make([]byte, 8)); !errors.Is(err, ErrNotPOD) {
		t.Fatalf("expected ErrNotPOD, got %v", err)
	}
	type withSlice struct{ B []byte }
	if _, err := Decode[withSlice](make([]byte, 64)); !errors.Is(err, ErrNotPOD) {
		t.Fatalf("expected ErrNotPOD for slice field, got %v", err)
	}
}

func TestDecodeChecked(t *testing.T) {
	if got, err := Decode[level]([]byte{2}); err != nil || got != 2 {
		t.Fatalf("expected 2, got %d (%v)", got, err)
	}
	if _, err := Decode[level]([]byte{3}); !errors.Is(err, ErrBitPattern) {
		t.Fatalf("expected ErrBitPattern, got %v", err)
	}
}

func TestEncodeDecode(t *testing.T) {
	in := header{Magic: 0xCAFEBABE, Count: 9, Flags: 1}
	out, err := Decode[header](Encode(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != in {
		t.Fatalf("expected %+v, got %+v", in, out)
	}
}

func TestCString16(t *testing.T) {
	tests := []struct {
		name  string
		units []uint16
		want  string
	}{
		{"terminated", append(EncodeString16("/Game/A"), 0, 'x', 'y'), "/Game/A"},
		{"last unit forced to terminator", EncodeString16("abcd"), "abc"},
		{"empty buffer", nil, ""},
		{"leading terminator", []uint16{0, 'a', 'b'}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CString16(tt.units)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCString16DoesNotMutateInput(t *testing.T) {
	units := EncodeString16("xyz")
	if _, err := CString16(units); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if units[2] != 'z' {
		t.Fatalf("input buffer was modified: %v", units)
	}
}

func TestCString16Surrogates(t *testing.T) {
	pair := append(EncodeString16("a\U0001F600"), 0)
	got, err := CString16(pair)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "a\U0001F600" {
		t.Fatalf("expected surrogate pair to decode, got %q", got)
	}

	for _, units := range [][]uint16{{0xD800, 'a', 0}, {'a', 0xDC00, 0}, {0xD800, 0}} {
		if _, err := CString16(units); !errors.Is(err, ErrBitPattern) {
			t.Fatalf("%v: expected ErrBitPattern, got %v", units, err)
		}
	}
}
