package pod

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// CString16 decodes a fixed-width UTF-16 buffer as a C string.
// The engine does not always terminate these buffers, so the last unit is always
// treated as the terminator and at most len(units)-1 units are decoded.
func CString16(units []uint16) (string, error) {
	if len(units) == 0 {
		return "", nil
	}

	n := len(units) - 1
	for i := 0; i < n; i++ {
		if units[i] == 0 {
			n = i
			break
		}
	}

	if err := checkSurrogates(units[:n]); err != nil {
		return "", err
	}

	raw := make([]byte, n*2)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint16(raw[i*2:], units[i])
	}

	out, err := utf16le.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode utf-16: %w", err)
	}
	return string(out), nil
}

// checkSurrogates rejects unpaired surrogates, which the decoder would otherwise
// replace with U+FFFD
func checkSurrogates(units []uint16) error {
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u >= 0xD800 && u <= 0xDBFF:
			if i+1 >= len(units) || units[i+1] < 0xDC00 || units[i+1] > 0xDFFF {
				return fmt.Errorf("unpaired high surrogate 0x%04x at %d: %w", u, i, ErrBitPattern)
			}
			i++
		case u >= 0xDC00 && u <= 0xDFFF:
			return fmt.Errorf("unpaired low surrogate 0x%04x at %d: %w", u, i, ErrBitPattern)
		}
	}
	return nil
}

// EncodeString16 encodes s as UTF-16LE code units, without a terminator.
func EncodeString16(s string) []uint16 {
	raw, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil
	}
	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	return units
}
