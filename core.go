package forth

import (
	"errors"

	"github.com/jcorbin/libforth/internal/mem"
)

// Word is the machine word: the unit of core memory, of both stacks, and of
// all arithmetic, which wraps modulo 2^16.
type Word = uint16

const (
	// DefaultCoreSize is the default capacity of core memory, in words.
	DefaultCoreSize = 32 * 1024

	// MaxCoreSize is the largest core whose every address, and whose end
	// (here), is representable in a Word.
	MaxCoreSize = 1<<16 - 1

	// DefaultStackSize is the default capacity of the data stack.
	DefaultStackSize = 64

	// DefaultReturnStackSize is the default capacity of the return stack.
	DefaultReturnStackSize = 64

	// DefaultBase is the numeric base that a new engine starts in.
	DefaultBase = 10
)

// Low core memory holds the engine's registers, so that programs can get at
// them with @ and ! without needing any further primitives. Address 0 stays
// zero: it terminates the dictionary chain.
const (
	regNull   Word = iota // dictionary sentinel
	regHere               // first free cell, where compilation happens
	regLatest             // most recently defined dictionary entry
	regState              // 0 while interpreting, non-zero while compiling
	regBase               // numeric base used to parse and format numbers

	// The dictionary starts above the register area; every compiled body
	// address is thus distinguishable from every primitive opcode.
	dictBase Word = 128
)

// Forth is an engine instance. All of its state is exclusively owned: an
// engine must not be used from more than one goroutine at a time, but any
// number of independent engines may run concurrently.
type Forth struct {
	ioCore

	// Core memory is a flat array of words; dictionary headers, compiled
	// code, literals, and variables all share this one address space.
	mem mem.Words

	// The data stack holds operands; the return stack holds return
	// addresses and loop control values. Neither lives in core memory, so
	// no computed address can reach them.
	stack  stack
	rstack stack

	prog    Word // instruction pointer, only meaningful while running
	running bool // inside the inner interpreter loop
	fence   Word // here after initialization; builtin words live below
	csp     int  // data stack depth when the current definition began

	// err holds the first fatal error; once set every operation that would
	// touch core memory is refused.
	err error

	coreSize uint
	initBase Word
	prelude  bool
}

var errClosed = errors.New("engine closed")

func addrError(err error) error {
	var lim mem.LimitError
	if errors.As(err, &lim) {
		return kindError(ErrBadAddress, err)
	}
	return err
}

func (f *Forth) load(addr Word) (Word, error) {
	val, err := f.mem.Load(uint(addr))
	if err != nil {
		return 0, addrError(err)
	}
	return val, nil
}

func (f *Forth) stor(addr Word, values ...Word) error {
	return addrError(f.mem.Stor(uint(addr), values...))
}

func (f *Forth) loadProg() (Word, error) {
	val, err := f.load(f.prog)
	if err != nil {
		return 0, err
	}
	f.prog++
	return val, nil
}

// here returns the dictionary pointer, validating it since programs may
// store anything into its register.
func (f *Forth) here() (Word, error) {
	h, err := f.load(regHere)
	if err != nil {
		return 0, err
	}
	if h < dictBase || uint(h) > f.mem.Size() {
		return 0, errorf(ErrBadAddress, "corrupt dictionary pointer %v", h)
	}
	return h, nil
}

// compile appends values at here, advancing it; this is the only way that
// core memory is allocated.
func (f *Forth) compile(values ...Word) error {
	h, err := f.here()
	if err != nil {
		return err
	}
	end := uint(h) + uint(len(values))
	if end > f.mem.Size() {
		return errorf(ErrOutOfMemory, "need %v words at %v, have %v", len(values), h, f.mem.Size())
	}
	if err := f.stor(h, values...); err != nil {
		return err
	}
	return f.stor(regHere, Word(end))
}

func (f *Forth) compiling() (bool, error) {
	state, err := f.load(regState)
	return state != 0, err
}

func (f *Forth) setCompiling(compiling bool) error {
	var state Word
	if compiling {
		state = 1
	}
	return f.stor(regState, state)
}

func (f *Forth) base() (int, error) {
	base, err := f.load(regBase)
	if err != nil {
		return 0, err
	}
	if base < 2 || base > 36 {
		return 0, errorf(ErrBadBase, "base %v not in 2..36", base)
	}
	return int(base), nil
}

func boolWord(b bool) Word {
	if b {
		return ^Word(0)
	}
	return 0
}
