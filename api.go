package forth

import (
	"io"
	"strings"

	"github.com/jcorbin/libforth/internal/fileinput"
	"github.com/jcorbin/libforth/internal/flushio"
	"github.com/jcorbin/libforth/internal/panicerr"
)

// New creates an engine: core memory is allocated, registers are set, every
// primitive is defined, and then the prelude is interpreted. Any input given
// by options is left unread until Run.
func New(opts ...Option) (*Forth, error) {
	var f Forth
	if err := Options(defaultOptions, Options(opts...)).apply(&f); err != nil {
		return nil, err
	}
	if f.in == nil {
		f.setInput()
	}
	if f.out == nil {
		f.out = flushio.Discard
	}
	if err := f.init(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Init creates an engine that reads from in and writes to out; either may be
// nil. Neither is ever closed by the engine.
func Init(in io.Reader, out io.Writer, opts ...Option) (*Forth, error) {
	ioOpts := []Option{WithOutput(out)}
	if in != nil {
		ioOpts = append(ioOpts, WithInput(in))
	}
	return New(append(ioOpts, opts...)...)
}

func (f *Forth) init() error {
	return f.guard("init", func() error {
		f.mem.Alloc(f.coreSize)
		f.stack.reset()
		f.rstack.reset()
		if err := f.stor(regNull, 0, dictBase, regNull, 0, f.initBase); err != nil {
			return err
		}
		if err := f.definePrimitives(); err != nil {
			return err
		}
		if f.prelude {
			r, err := writerInput(prelude)
			if err != nil {
				return kindError(ErrInputError, err)
			}
			if err := f.interpretFrom(r); err != nil {
				return err
			}
		}
		h, err := f.here()
		f.fence = h
		f.logf("init here:%v size:%v", h, f.mem.Size())
		return err
	})
}

// Run interprets input until it is exhausted or an error occurs.
//
// Any error invalidates the engine: every later Run, Eval or DumpCore then
// fails with ErrInvalidEngine.
func (f *Forth) Run() error {
	return f.guard("run", f.interpret)
}

// Eval interprets the string s, as Run does, after which the prior input
// resumes being the current input. State persists across calls, so that a
// definition may span several Evals.
func (f *Forth) Eval(s string) error {
	return f.guard("eval", func() error {
		return f.interpretFrom(fileinput.Named("<eval>", strings.NewReader(s)))
	})
}

func (f *Forth) interpretFrom(r io.Reader) error {
	in := f.in
	f.setInput(r)
	defer func() { f.in = in }()
	return f.interpret()
}

// SetFileInput switches input to r, abandoning any unread prior input;
// dictionary and stacks are unaffected. The reader is never closed, nor read
// past the last rune interpreted, so it may be resumed by its owner.
func (f *Forth) SetFileInput(r io.Reader) {
	f.setInput(r)
}

// SetStringInput switches input to the string s.
func (f *Forth) SetStringInput(s string) {
	f.setInput(fileinput.Named("<string>", strings.NewReader(s)))
}

// SetOutput switches output to w, after flushing any output buffered for the
// prior sink. A nil writer discards output.
func (f *Forth) SetOutput(w io.Writer) error {
	if err := f.setOutput(w); err != nil {
		return kindError(ErrInputError, err)
	}
	return nil
}

// Stack returns a copy of the data stack, bottom first.
func (f *Forth) Stack() []Word {
	return f.stack.values()
}

// Err returns the error that invalidated the engine, if any.
func (f *Forth) Err() error {
	return f.err
}

// Close flushes output and releases core memory; the engine is unusable after.
// Caller provided input and output are not closed.
func (f *Forth) Close() error {
	if f.err == errClosed {
		return nil
	}
	var err error
	if f.out != nil {
		if ferr := f.out.Flush(); ferr != nil {
			err = kindError(ErrInputError, ferr)
		}
	}
	f.mem.Release()
	f.err = errClosed
	return err
}

func (f *Forth) valid() error {
	if f.err == nil {
		return nil
	}
	return errorf(ErrInvalidEngine, "%v", f.err)
}

// guard runs fn against a valid engine, flushing output after; any error
// returned, or panic raised, by fn invalidates the engine.
func (f *Forth) guard(name string, fn func() error) error {
	if err := f.valid(); err != nil {
		return err
	}
	err := panicerr.Recover(name, fn)
	if ferr := f.out.Flush(); err == nil && ferr != nil {
		err = kindError(ErrInputError, ferr)
	}
	if err == nil {
		return nil
	}
	fe := asError(err)
	f.logf("%v error: %v", name, fe)
	if stack := panicerr.PanicStack(err); stack != "" {
		f.logf("%v panic stack: %s", name, stack)
	}
	f.err = fe
	f.running = false
	return fe
}
