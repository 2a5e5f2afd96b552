package forth

import (
	"bytes"
	"io"
)

//// Prelude: words built out of primitives

var prelude = preludeSource{}

type preludeSource struct{}

func (preludeSource) Name() string { return "prelude.fs" }

// The prelude is ordinary source, interpreted by every new engine right after
// its primitives are defined; everything it defines lies below the fence, so
// it cannot be forgotten.
func (preludeSource) WriteTo(w io.Writer) (n int64, err error) {
	var buf bytes.Buffer
	line := func(parts ...string) {
		if err != nil {
			return
		}
		for _, s := range parts {
			buf.WriteString(s)
		}
		buf.WriteByte('\n')
		var m int64
		m, err = buf.WriteTo(w)
		n += m
	}

	// Stack shuffles that are just compositions of primitive ones.
	line(`: nip ( a b -- b ) swap drop ;`)
	line(`: tuck ( a b -- b a b ) swap over ;`)
	line(`: 2dup ( a b -- a b a b ) over over ;`)
	line(`: 2drop ( a b -- ) drop drop ;`)
	line(`: ?dup ( a -- a a | 0 ) dup if dup then ;`)

	// Comparisons, completing the set that the primitives start.
	line(`: 0> ( n -- flag ) 0 > ;`)
	line(`: <> ( a b -- flag ) = invert ;`)

	// Signed arithmetic.
	line(`: abs ( n -- u ) dup 0< if negate then ;`)
	line(`: min ( a b -- n ) 2dup > if swap then drop ;`)
	line(`: max ( a b -- n ) 2dup < if swap then drop ;`)

	// Memory is addressed in cells, so this is a no-op; programs still say it
	// to be explicit.
	line(`: cells ( n -- n ) ;`)
	line(`: +! ( n addr -- ) dup @ rot + swap ! ;`)

	// Output.
	line(`: cr ( -- ) 10 emit ;`)
	line(`: space ( -- ) 32 emit ;`)

	return n, err
}
