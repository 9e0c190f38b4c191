// Package cp1252 decodes the binary dialect's quoted/unquoted string bytes.
//
// The base encoding is Windows-1252, delegated to
// golang.org/x/text/encoding/charmap the way icza/screp delegates Korean
// replay text to golang.org/x/text/encoding/korean plus
// golang.org/x/text/transform rather than hand-rolling a codepage table.
// Layered on top is an escaped wide-character scheme the game uses for a
// handful of non-Latin-1 codepoints (Cyrillic/CJK transliteration in player
// and tag names): a prefix byte in [0x10, 0x13] at the start of a string
// marks the next two bytes as a little-endian codepoint needing a
// per-prefix adjustment. That scheme has no library equivalent and is
// implemented by hand.
package cp1252

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ellipsisRune replaces any escaped codepoint that decodes outside the BMP
// or below zero, per the documented behavior of the original game client.
const ellipsisRune = rune(0x2026)

// Decode converts raw binary-dialect string bytes into a UTF-8 Go string.
func Decode(b []byte) string {
	if len(b) >= 3 && b[0] >= 0x10 && b[0] <= 0x13 {
		return decodeEscaped(b)
	}

	return decodeCP1252(b)
}

func decodeEscaped(b []byte) string {
	prefix := b[0]
	code := int32(uint16(b[1]) | uint16(b[2])<<8)

	var r rune
	switch prefix {
	case 0x10:
		r = rune(code)
	case 0x11:
		r = rune(code - 14)
	case 0x12:
		r = rune(code + 2304)
	case 0x13:
		r = rune(code + 2290)
	}

	if r > 0xFFFF || r < 0 {
		r = ellipsisRune
	}

	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)

	return string(buf[:n]) + decodeCP1252(b[3:])
}

func decodeCP1252(b []byte) string {
	if len(b) == 0 {
		return ""
	}

	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		// charmap.Windows1252 has no undefined code points, so this path is
		// unreachable in practice; fall back to the raw bytes rather than
		// fail a string decode.
		return string(b)
	}

	return string(out)
}
