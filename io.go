package forth

import (
	"bytes"
	"io"
	"strings"
	"unicode"

	"github.com/jcorbin/libforth/internal/fileinput"
	"github.com/jcorbin/libforth/internal/flushio"
	"github.com/jcorbin/libforth/internal/runeio"
)

type ioCore struct {
	in  *fileinput.Input
	out flushio.WriteFlusher

	tokenLoc fileinput.Location

	logfn func(mess string, args ...interface{})
}

func (ioc *ioCore) withLogPrefix(prefix string) func() {
	logfn := ioc.logfn
	ioc.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		ioc.logfn = logfn
	}
}

func (ioc ioCore) logf(mess string, args ...interface{}) {
	if ioc.logfn != nil {
		ioc.logfn(mess, args...)
	}
}

func (ioc *ioCore) setInput(rs ...io.Reader) {
	ioc.in = fileinput.New(rs...)
}

func (ioc *ioCore) queueInput(rs ...io.Reader) {
	if ioc.in == nil {
		ioc.in = fileinput.New(rs...)
	} else {
		ioc.in.Queue = append(ioc.in.Queue, rs...)
	}
}

func (ioc *ioCore) setOutput(w io.Writer) error {
	var err error
	if ioc.out != nil {
		err = ioc.out.Flush()
	}
	ioc.out = flushio.NewWriteFlusher(w)
	return err
}

func (ioc *ioCore) readRune() (rune, error) {
	r, _, err := ioc.in.ReadRune()
	return r, err
}

func (ioc *ioCore) writeRune(r rune) error {
	if _, err := runeio.WriteANSIRune(ioc.out, r); err != nil {
		return kindError(ErrInputError, err)
	}
	return nil
}

func (ioc *ioCore) writeString(s string) error {
	if _, err := io.WriteString(ioc.out, s); err != nil {
		return kindError(ErrInputError, err)
	}
	return nil
}

func isSpace(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }

// scan reads the next whitespace delimited token, returning io.EOF only if
// input runs out before any token character. The delimiter following the
// token is consumed.
func (ioc *ioCore) scan() (string, error) {
	var sb strings.Builder
	for {
		r, err := ioc.readRune()
		if err != nil {
			return "", err
		}
		if !isSpace(r) {
			ioc.tokenLoc = ioc.in.Location()
			sb.WriteRune(r)
			break
		}
	}
	for {
		r, err := ioc.readRune()
		if err == io.EOF {
			break
		} else if err != nil {
			return "", err
		} else if isSpace(r) {
			break
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}

// scanUntil reads runes up to, and consuming, the given delimiter; running
// out of input also ends the scan.
func (ioc *ioCore) scanUntil(delim rune) (string, error) {
	var sb strings.Builder
	for {
		r, err := ioc.readRune()
		if err == io.EOF || (err == nil && r == delim) {
			return sb.String(), nil
		} else if err != nil {
			return "", err
		}
		sb.WriteRune(r)
	}
}

// word scans a token that some primitive requires, like the name after ":".
func (ioc *ioCore) word() (string, error) {
	token, err := ioc.scan()
	if err == io.EOF {
		return "", kindError(ErrInputError, io.ErrUnexpectedEOF)
	} else if err != nil {
		return "", kindError(ErrInputError, err)
	}
	return token, nil
}

// writerInput buffers everything written by w as an input stream named
// after w, if it has a Name() method.
func writerInput(w io.WriterTo) (io.Reader, error) {
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, err
	}
	if nom, ok := w.(interface{ Name() string }); ok {
		return fileinput.Named(nom.Name(), &buf), nil
	}
	return &buf, nil
}
