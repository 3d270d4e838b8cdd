package utf16x

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// DecodeLFN decodes a sequence of UTF-16 code units gathered from one or
// more VFAT long-filename directory entries into a Unicode string.
//
// Decoding stops at the first 0x0000 (NUL terminator) or 0xFFFF (padding)
// code unit, whichever comes first. Code units that do not form a valid
// rune (an unpaired or misordered surrogate) are replaced with U+FFFD.
// Surrounding whitespace is trimmed, matching the padding VFAT entries use
// to fill their final 13-unit block.
func DecodeLFN(units []uint16) string {
	var b strings.Builder
	b.Grow(len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		if u == 0x0000 || u == 0xFFFF {
			break
		}
		switch {
		case u < surr1, surr3 <= u:
			b.WriteRune(rune(u))
		case surr1 <= u && u < surr2:
			if i+1 < len(units) {
				u2 := units[i+1]
				if surr2 <= u2 && u2 < surr3 {
					r := utf16.DecodeRune(rune(u), rune(u2))
					if r != utf8.RuneError {
						b.WriteRune(r)
						i++
						continue
					}
				}
			}
			b.WriteRune(replacementChar)
		default:
			// Unpaired low surrogate.
			b.WriteRune(replacementChar)
		}
	}
	return strings.TrimSpace(b.String())
}
