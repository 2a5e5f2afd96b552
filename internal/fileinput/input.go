package fileinput

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jcorbin/libforth/internal/runeio"
)

// Location names an a line in an Input file.
type Location struct {
	Name string
	Line int
}

// Line combines a Location along with a bytes.Buffer for handling it.
type Line struct {
	Location
	bytes.Buffer
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }
func (il *Line) String() string     { return fmt.Sprintf("%v %q", il.Location, il.Buffer.String()) }

// Input implements sequential rune reading through a Queue of one or more
// input streams. Both the current and last scanned lines are tracked to
// facilitate user feedback.
//
// Streams are never closed by Input: they remain owned by whoever provided
// them. Nor are they read ahead of the last rune returned, so that a stream
// may be abandoned mid-way and resumed by another Input.
type Input struct {
	rr    runeio.Reader
	Queue []io.Reader
	Last  Line
	Scan  Line
}

// New returns an Input that will read each of the given streams in turn.
func New(rs ...io.Reader) *Input {
	return &Input{Queue: rs}
}

// Named wraps r so that Input locations refer to it by name.
func Named(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }

// ReadRune reads one rune from the current input stream, appending it into the
// current Scan line, and rolling Scan over to Last after line feed.
// Once a stream is exhausted, reading continues with the next one queued,
// after a zero-size line feed that separates the two; io.EOF is only
// returned after the last.
func (in *Input) ReadRune() (rune, int, error) {
	for {
		if in.rr == nil && !in.nextIn() {
			return 0, 0, io.EOF
		}
		r, n, err := in.rr.ReadRune()
		if n > 0 {
			if r == '\n' {
				in.nextLine()
			} else {
				in.Scan.WriteRune(r)
			}
			return r, n, nil
		}
		if err == nil {
			continue
		}
		if err != io.EOF {
			return 0, 0, err
		}
		in.rr = nil
		if len(in.Queue) > 0 {
			return '\n', 0, nil
		}
	}
}

// Location returns the location of the line currently being scanned.
func (in *Input) Location() Location {
	return in.Scan.Location
}

func (in *Input) nextLine() {
	in.Last.Reset()
	in.Last.Location = in.Scan.Location
	in.Last.Write(in.Scan.Bytes())
	in.Scan.Reset()
	in.Scan.Line++
}

func (in *Input) nextIn() bool {
	if in.Scan.Len() > 0 {
		in.nextLine()
	}
	in.rr = nil
	if len(in.Queue) > 0 {
		r := in.Queue[0]
		in.Queue = in.Queue[1:]
		in.rr = runeio.NewReader(r)
		in.Scan.Name = nameOf(r)
		in.Scan.Line = 1
	}
	return in.rr != nil
}

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
