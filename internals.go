package forth

import (
	"io"
)

//// Inner interpreter

// exec runs the execution token xt to completion: a primitive opcode is
// dispatched directly, while a body address is run by the threaded code loop
// until it exits back out.
func (f *Forth) exec(xt Word) error {
	if xt == opExit {
		return nil
	}
	if xt < opMax {
		return f.dispatch(xt)
	}
	if f.running {
		return f.call(xt)
	}

	if f.logfn != nil {
		defer f.withLogPrefix("	")()
	}
	f.running = true
	defer func() { f.running = false }()

	// returning to address 0 returns to the outer interpreter
	f.prog = 0
	if err := f.call(xt); err != nil {
		return err
	}
	for f.prog != 0 {
		if err := f.step(); err != nil {
			return err
		}
	}
	return nil
}

// step executes the single cell of threaded code at prog.
func (f *Forth) step() error {
	at := f.prog
	code, err := f.loadProg()
	if err != nil {
		return err
	}
	switch {
	case code == opExit:
		f.logf("exec @%v exit -- r:%v s:%v", at, f.rstack.cells, f.stack.cells)
		prog, err := f.rstack.pop()
		if err != nil {
			return err
		}
		f.prog = prog
		return nil
	case code < opMax:
		if f.logfn != nil {
			f.logf("exec @%v %v -- r:%v s:%v", at, prims[code], f.rstack.cells, f.stack.cells)
		}
		return f.dispatch(code)
	default:
		f.logf("exec @%v call %v", at, code)
		return f.call(code)
	}
}

// call pushes a return address and jumps to addr, a compiled body.
func (f *Forth) call(addr Word) error {
	if addr < dictBase || uint(addr) >= f.mem.Size() {
		return errorf(ErrBadAddress, "invalid call to @%v", addr)
	}
	if err := f.rstack.push(f.prog); err != nil {
		return err
	}
	f.prog = addr
	return nil
}

func (f *Forth) dispatch(code Word) error {
	prim := prims[code]
	if prim.fn == nil {
		return errorf(ErrInternal, "invalid opcode %v", code)
	}
	return prim.fn(f)
}

// execute ( xt -- ) runs an execution token, as given by '.
func (f *Forth) execute() error {
	xt, err := f.stack.pop()
	if err != nil {
		return err
	}
	if xt < opMax && prims[xt].name == "" {
		return errorf(ErrBadAddress, "cannot execute internal %v", prims[xt])
	}
	return f.exec(xt)
}

//// Outer interpreter

// interpret reads and processes tokens until input runs out.
func (f *Forth) interpret() error {
	for {
		token, err := f.scan()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return kindError(ErrInputError, err)
		}
		f.logf("%v: %q", f.tokenLoc, token)
		if err := f.interpretToken(token); err != nil {
			return f.locate(err, token)
		}
	}
}

// interpretToken handles a single token: a word is executed, or compiled
// when in compile state and not immediate; failing that, a literal is pushed,
// or compiled.
func (f *Forth) interpretToken(token string) error {
	compiling, err := f.compiling()
	if err != nil {
		return err
	}

	e, ok, err := f.lookup(token)
	if err != nil {
		return err
	}
	if ok {
		switch {
		case compiling && !e.immediate():
			return f.compile(e.code)
		case !compiling && e.compileOnly():
			return tokenError(ErrCompileOnly, token)
		default:
			return f.exec(e.code)
		}
	}

	n, ok, err := f.literal(token)
	if err != nil {
		return err
	} else if !ok {
		return tokenError(ErrUndefinedWord, token)
	}
	if compiling {
		return f.compile(opLit, n)
	}
	return f.stack.push(n)
}

// locate annotates err with the token being interpreted, and where it was
// read from.
func (f *Forth) locate(err error, token string) error {
	fe := asError(err)
	if fe.Token == "" {
		fe.Token = token
	}
	if fe.Loc.Name == "" {
		fe.Loc = f.tokenLoc
	}
	return fe
}
