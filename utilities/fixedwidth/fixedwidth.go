// Package fixedwidth converts between Go strings and the fixed-width text
// fields found in disk image headers and CP/M directory entries.
//
// The in-memory form of a field never carries padding. Padding is added by
// [Pad] when a field is written and removed by [Trim] when it's read. Text that
// doesn't fit is truncated.
package fixedwidth

import (
	"bytes"
)

// HighBit is the flag bit CP/M stores in the top of 7-bit character bytes.
const HighBit = 0x80

// Pad returns `text` as exactly `width` bytes, right-padded with `padByte`.
// Text longer than `width` is truncated.
func Pad(text string, width int, padByte byte) []byte {
	field := bytes.Repeat([]byte{padByte}, width)
	copy(field, text)
	return field
}

// Trim strips trailing NUL and space bytes from a raw field.
func Trim(field []byte) string {
	return string(bytes.TrimRight(field, "\x00 "))
}

// SplitHighBits separates 7-bit characters from their flag bits. The returned
// text has the high bit of every byte cleared, and flags[i] is true if byte i
// had it set.
func SplitHighBits(field []byte) (text []byte, flags []bool) {
	text = make([]byte, len(field))
	flags = make([]bool, len(field))
	for i, b := range field {
		text[i] = b &^ HighBit
		flags[i] = b&HighBit != 0
	}
	return text, flags
}

// MergeHighBits ORs HighBit into field[i] for every true flags[i]. Flags past
// the end of the field are ignored. The field is modified in place and also
// returned for convenience.
func MergeHighBits(field []byte, flags ...bool) []byte {
	for i, set := range flags {
		if i >= len(field) {
			break
		}
		if set {
			field[i] |= HighBit
		}
	}
	return field
}
