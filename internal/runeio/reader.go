package runeio

import (
	"io"
	"unicode/utf8"
)

// Reader is an io.Reader that also supports reading runes.
type Reader interface {
	io.Reader
	io.RuneReader
}

// NewReader returns a Reader from r; if r already implements, it is simply
// returned. Otherwise runes are decoded from r one byte at a time, so that no
// input is read ahead of what has been consumed: the caller may stop reading
// at any rune boundary and hand r to someone else without losing data.
// The one exception is an invalid encoding, which is decoded as a single
// utf8.RuneError byte; any bytes read past it are held for later reads.
// If the r implements Name() string, so will the returned Reader.
func NewReader(r io.Reader) Reader {
	if impl, ok := r.(Reader); ok {
		return impl
	}
	rr := &byteRuneReader{r: r}
	if impl, ok := r.(interface{ Name() string }); ok {
		return namedRuneReader{rr, impl.Name()}
	}
	return rr
}

type byteRuneReader struct {
	r   io.Reader
	buf [utf8.UTFMax]byte
	n   int // pending bytes in buf
}

func (br *byteRuneReader) Read(p []byte) (int, error) {
	if br.n == 0 {
		return br.r.Read(p)
	}
	n := copy(p, br.buf[:br.n])
	br.consume(n)
	return n, nil
}

func (br *byteRuneReader) ReadRune() (r rune, size int, err error) {
	for br.n < len(br.buf) && !utf8.FullRune(br.buf[:br.n]) {
		if _, err = io.ReadFull(br.r, br.buf[br.n:br.n+1]); err != nil {
			break
		}
		br.n++
	}
	if br.n == 0 {
		return 0, 0, err
	}
	r, size = utf8.DecodeRune(br.buf[:br.n])
	br.consume(size)
	return r, size, nil
}

func (br *byteRuneReader) consume(n int) {
	copy(br.buf[:], br.buf[n:br.n])
	br.n -= n
}

type namedRuneReader struct {
	Reader
	name string
}

func (nr namedRuneReader) Name() string { return nr.name }
