package forth

import (
	"io"
	"strings"

	"github.com/jcorbin/libforth/internal/flushio"
)

// Option configures an engine when passed to New.
type Option interface{ apply(f *Forth) error }

// Options combines any number of options into one; nil options are ignored.
func Options(opts ...Option) Option {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, impl)
		}
	}
	return res
}

type options []Option

func (opts options) apply(f *Forth) error {
	for _, opt := range opts {
		if err := opt.apply(f); err != nil {
			return err
		}
	}
	return nil
}

var defaultOptions = Options(
	withCoreSize(DefaultCoreSize),
	withStackSize{DefaultStackSize, DefaultReturnStackSize},
	withBase(DefaultBase),
	withPrelude(true),
)

// WithInput queues r as input; any number of inputs may be given, each read
// in turn. The reader is never closed by the engine.
func WithInput(r io.Reader) Option { return withInput{r} }

// WithStringInput queues a string as input.
func WithStringInput(s string) Option { return withInput{strings.NewReader(s)} }

// WithInputWriter queues input generated by w, e.g. a source listing.
func WithInputWriter(w io.WriterTo) Option { return withInputWriter{w} }

// WithOutput sets the output sink, discarding output if w is nil.
// The writer is never closed by the engine.
func WithOutput(w io.Writer) Option { return withOutput{w} }

// WithTee adds another sink that receives a copy of all output.
func WithTee(w io.Writer) Option { return withTee{w} }

// WithCoreSize sets the capacity of core memory in words.
func WithCoreSize(size uint) Option { return withCoreSize(size) }

// WithStackSize sets the capacities of the data and return stacks.
func WithStackSize(data, ret int) Option { return withStackSize{data, ret} }

// WithBase sets the initial numeric base.
func WithBase(base int) Option { return withBase(base) }

// WithLogf sets a printf-style function to receive trace logging.
func WithLogf(logfn func(mess string, args ...interface{})) Option { return withLogfn(logfn) }

// WithoutPrelude skips defining the words written in Forth itself, leaving
// only primitives.
func WithoutPrelude() Option { return withPrelude(false) }

type withInput struct{ io.Reader }
type withInputWriter struct{ io.WriterTo }
type withOutput struct{ io.Writer }
type withTee struct{ io.Writer }
type withCoreSize uint
type withStackSize struct{ data, ret int }
type withBase int
type withLogfn func(mess string, args ...interface{})
type withPrelude bool

func (i withInput) apply(f *Forth) error {
	f.queueInput(i.Reader)
	return nil
}

func (i withInputWriter) apply(f *Forth) error {
	r, err := writerInput(i.WriterTo)
	if err != nil {
		return kindError(ErrInputError, err)
	}
	f.queueInput(r)
	return nil
}

func (o withOutput) apply(f *Forth) error {
	if err := f.setOutput(o.Writer); err != nil {
		return kindError(ErrInputError, err)
	}
	return nil
}

func (o withTee) apply(f *Forth) error {
	f.out = flushio.Tee(f.out, flushio.NewWriteFlusher(o.Writer))
	return nil
}

func (size withCoreSize) apply(f *Forth) error {
	if size <= withCoreSize(dictBase) || size > MaxCoreSize {
		return errorf(ErrOutOfMemory, "invalid core size %v, must be in (%v, %v]", uint(size), dictBase, MaxCoreSize)
	}
	f.coreSize = uint(size)
	return nil
}

func (sz withStackSize) apply(f *Forth) error {
	if sz.data <= 0 || sz.ret <= 0 {
		return errorf(ErrStackOverflow, "invalid stack sizes %v and %v", sz.data, sz.ret)
	}
	f.stack.init("data", sz.data)
	f.rstack.init("return", sz.ret)
	return nil
}

func (base withBase) apply(f *Forth) error {
	if base < 2 || base > 36 {
		return errorf(ErrBadBase, "base %v not in 2..36", int(base))
	}
	f.initBase = Word(base)
	return nil
}

func (logfn withLogfn) apply(f *Forth) error {
	f.logfn = logfn
	return nil
}

func (prelude withPrelude) apply(f *Forth) error {
	f.prelude = bool(prelude)
	return nil
}
