// Package hexdump renders raw process memory for the probe tool.
package hexdump

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/Moonlight-Companies/gologger/coloransi"
)

// Options customizes the dump
type Options struct {
	// BytesPerLine defaults to 16
	BytesPerLine int

	// GroupSize is the number of bytes printed without a space between them
	GroupSize int

	// StartAddress labels the first byte; the dump is of memory at this address
	StartAddress uint64

	// Wide renders the text column as UTF-16LE units instead of bytes
	Wide bool

	// IsPointer, when set, marks 8-byte aligned values that point into readable memory
	IsPointer func(v uint64) bool

	// Plain disables ANSI colors
	Plain bool

	OffsetColor  coloransi.ColorCode
	HexColor     coloransi.ColorCode
	TextColor    coloransi.ColorCode
	ZeroColor    coloransi.ColorCode
	PointerColor coloransi.ColorCode
}

func DefaultOptions() Options {
	return Options{
		BytesPerLine: 16,
		GroupSize:    1,
		OffsetColor:  coloransi.Cyan,
		HexColor:     coloransi.Green,
		TextColor:    coloransi.White,
		ZeroColor:    coloransi.BrightBlack,
		PointerColor: coloransi.Yellow,
	}
}

// Dump creates a hex dump of data
func Dump(data []byte, options Options) string {
	var buffer bytes.Buffer
	DumpToWriter(&buffer, data, options)
	return buffer.String()
}

// DumpAt dumps data read from addr with default options
func DumpAt(data []byte, addr uint64) string {
	options := DefaultOptions()
	options.StartAddress = addr
	return Dump(data, options)
}

func DumpToWriter(w io.Writer, data []byte, options Options) {
	if options.BytesPerLine <= 0 {
		options.BytesPerLine = 16
	}
	if options.GroupSize <= 0 {
		options.GroupSize = 1
	}

	width := len(fmt.Sprintf("%x", options.StartAddress+uint64(len(data))))
	if width < 8 {
		width = 8
	}

	for offset := 0; offset < len(data); offset += options.BytesPerLine {
		end := offset + options.BytesPerLine
		if end > len(data) {
			end = len(data)
		}
		line(w, data[offset:end], options.StartAddress+uint64(offset), width, options)
	}
}

func (o Options) paint(c coloransi.ColorCode, s string) string {
	if o.Plain {
		return s
	}
	return coloransi.Foreground(c, s)
}

func line(w io.Writer, data []byte, addr uint64, width int, options Options) {
	fmt.Fprint(w, options.paint(options.OffsetColor, fmt.Sprintf("%0*x", width, addr)), "  ")

	var groups []string
	var group strings.Builder
	for i, b := range data {
		c := options.HexColor
		if b == 0 {
			c = options.ZeroColor
		}
		group.WriteString(options.paint(c, fmt.Sprintf("%02x", b)))
		if (i+1)%options.GroupSize == 0 || i == len(data)-1 {
			groups = append(groups, group.String())
			group.Reset()
		}
	}
	fmt.Fprint(w, strings.Join(groups, " "))

	// keep the text column aligned on a short last line
	if missing := options.BytesPerLine - len(data); missing > 0 {
		full := (options.BytesPerLine + options.GroupSize - 1) / options.GroupSize
		cur := (len(data) + options.GroupSize - 1) / options.GroupSize
		fmt.Fprint(w, strings.Repeat(" ", missing*2+full-cur))
	}

	fmt.Fprint(w, " | ", text(data, options))

	if options.IsPointer != nil {
		var ptrs []string
		for i := 0; i+8 <= len(data); i += 8 {
			if v := binary.LittleEndian.Uint64(data[i:]); v != 0 && options.IsPointer(v) {
				ptrs = append(ptrs, options.paint(options.PointerColor, fmt.Sprintf("0x%x", v)))
			}
		}
		if len(ptrs) > 0 {
			fmt.Fprint(w, " | ", strings.Join(ptrs, " "))
		}
	}

	fmt.Fprintln(w)
}

func text(data []byte, options Options) string {
	var sb strings.Builder
	if options.Wide {
		for i := 0; i+2 <= len(data); i += 2 {
			sb.WriteString(printable(rune(binary.LittleEndian.Uint16(data[i:])), options))
		}
		return sb.String()
	}
	for _, b := range data {
		sb.WriteString(printable(rune(b), options))
	}
	return sb.String()
}

func printable(r rune, options Options) string {
	switch {
	case r == 0:
		return options.paint(options.ZeroColor, ".")
	case r > unicode.MaxASCII || !unicode.IsPrint(r):
		return options.paint(options.ZeroColor, ".")
	}
	return options.paint(options.TextColor, string(r))
}
