package runeio

import (
	"io"
	"unicode/utf8"
)

// WriteANSIRune writes r to w in the form a terminal expects: ASCII as a
// single byte, NEL as "\r\n", other C1 controls as their 7-bit escape (CSI,
// 0x9b, becomes ESC '['), and anything else as UTF-8. Values that are not
// valid runes, like the surrogate halves that a 16-bit cell may hold, are
// written as utf8.RuneError. The whole encoding goes out in one Write.
func WriteANSIRune(w io.Writer, r rune) (int, error) {
	var buf [utf8.UTFMax]byte
	var p []byte
	switch {
	case 0 <= r && r < utf8.RuneSelf:
		buf[0] = byte(r)
		p = buf[:1]
	case r == 0x85:
		p = append(buf[:0], '\r', '\n')
	case 0x80 <= r && r <= 0x9f:
		p = append(buf[:0], 0x1b, byte(r^0xc0))
	default:
		if !utf8.ValidRune(r) {
			r = utf8.RuneError
		}
		p = buf[:utf8.EncodeRune(buf[:], r)]
	}
	return w.Write(p)
}
