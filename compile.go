package forth

//// Compilation Operations

// colon begins a new definition, named by the next token; the entry stays
// hidden until ; finishes it, so that a definition may refer to an older
// word of the same name. A hidden latest entry means that a definition is
// still open, even if [ left compile state.
func (f *Forth) colon() error {
	if compiling, err := f.compiling(); err != nil {
		return err
	} else if compiling {
		return kindError(ErrNestedDefinition, nil)
	}
	if e, err := f.latest(); err != nil {
		return err
	} else if e.hidden() {
		return errorf(ErrNestedDefinition, "%q is unfinished", e.name)
	}
	name, err := f.word()
	if err != nil {
		return err
	}
	if _, err := f.defineBody(name, flagHidden); err != nil {
		return err
	}
	f.csp = f.stack.depth()
	return f.setCompiling(true)
}

func (f *Forth) semicolon() error {
	e, err := f.latest()
	if err != nil {
		return err
	}
	if f.stack.depth() != f.csp {
		return errorf(ErrUnbalanced, "definition %q", e.name)
	}
	if err := f.compile(opExit); err != nil {
		return err
	}
	if err := f.setFlags(e, 0, flagHidden); err != nil {
		return err
	}
	return f.setCompiling(false)
}

// immediate marks the latest definition as immediate.
func (f *Forth) immediate() error {
	e, err := f.latest()
	if err != nil {
		return err
	}
	return f.setFlags(e, flagImmediate, 0)
}

func (f *Forth) leftBracket() error  { return f.setCompiling(false) }
func (f *Forth) rightBracket() error { return f.setCompiling(true) }

// literalWord compiles the value popped from the stack.
func (f *Forth) literalWord() error {
	val, err := f.stack.pop()
	if err != nil {
		return err
	}
	return f.compile(opLit, val)
}

// tick pushes the execution token of the word named by the next token.
func (f *Forth) tick() error {
	name, err := f.word()
	if err != nil {
		return err
	}
	e, ok, err := f.lookup(name)
	if err != nil {
		return err
	} else if !ok {
		return tokenError(ErrUndefinedWord, name)
	}
	return f.stack.push(e.code)
}

// recurse compiles a call to the definition under construction, which is
// otherwise hidden from lookup.
func (f *Forth) recurse() error {
	e, err := f.latest()
	if err != nil {
		return err
	}
	return f.compile(e.code)
}

func (f *Forth) forgetWord() error {
	name, err := f.word()
	if err != nil {
		return err
	}
	return f.forget(name)
}

// variable defines a word that pushes the address of a fresh cell.
func (f *Forth) variable() error {
	name, err := f.word()
	if err != nil {
		return err
	}
	e, err := f.defineBody(name, 0)
	if err != nil {
		return err
	}
	// lit addr exit value
	return f.compile(opLit, e.code+3, opExit, 0)
}

// constant defines a word that pushes the value popped now.
func (f *Forth) constant() error {
	val, err := f.stack.pop()
	if err != nil {
		return err
	}
	name, err := f.word()
	if err != nil {
		return err
	}
	if _, err := f.defineBody(name, 0); err != nil {
		return err
	}
	return f.compile(opLit, val, opExit)
}

//// Control Flow Compilation
//
// Control words leave branch addresses on the data stack while compiling:
// an orig is a forward branch operand awaiting resolution, while a dest is
// a backward branch target.

// compileForward compiles op with a placeholder operand, pushing its
// address as an orig.
func (f *Forth) compileForward(op Word) error {
	if err := f.compile(op, 0); err != nil {
		return err
	}
	h, err := f.here()
	if err != nil {
		return err
	}
	return f.stack.push(h - 1)
}

// resolveForward pops an orig, pointing it at here.
func (f *Forth) resolveForward() error {
	orig, err := f.stack.pop()
	if err != nil {
		return err
	}
	h, err := f.here()
	if err != nil {
		return err
	}
	if orig < dictBase || orig >= h {
		return errorf(ErrBadAddress, "unbalanced control structure: orig @%v", orig)
	}
	return f.stor(orig, h)
}

func (f *Forth) popDest() (Word, error) {
	dest, err := f.stack.pop()
	if err != nil {
		return 0, err
	}
	h, err := f.here()
	if err != nil {
		return 0, err
	}
	if dest < dictBase || dest > h {
		return 0, errorf(ErrBadAddress, "unbalanced control structure: dest @%v", dest)
	}
	return dest, nil
}

// ifWord ( -- orig )
func (f *Forth) ifWord() error { return f.compileForward(opZBranch) }

// elseWord ( orig1 -- orig2 )
func (f *Forth) elseWord() error {
	orig, err := f.stack.pop()
	if err != nil {
		return err
	}
	if err := f.compileForward(opBranch); err != nil {
		return err
	}
	orig2, _ := f.stack.pop()
	if err := f.stack.push(orig); err != nil {
		return err
	}
	if err := f.resolveForward(); err != nil {
		return err
	}
	return f.stack.push(orig2)
}

// thenWord ( orig -- )
func (f *Forth) thenWord() error { return f.resolveForward() }

// begin ( -- dest )
func (f *Forth) begin() error { return f.pushHere() }

// until ( dest -- )
func (f *Forth) until() error {
	dest, err := f.popDest()
	if err != nil {
		return err
	}
	return f.compile(opZBranch, dest)
}

// again ( dest -- )
func (f *Forth) again() error {
	dest, err := f.popDest()
	if err != nil {
		return err
	}
	return f.compile(opBranch, dest)
}

// while ( dest -- orig dest )
func (f *Forth) while() error {
	dest, err := f.popDest()
	if err != nil {
		return err
	}
	if err := f.compileForward(opZBranch); err != nil {
		return err
	}
	return f.stack.push(dest)
}

// repeat ( orig dest -- )
func (f *Forth) repeat() error {
	if err := f.again(); err != nil {
		return err
	}
	return f.resolveForward()
}

// doWord ( -- dest )
func (f *Forth) doWord() error {
	if err := f.compile(opDo); err != nil {
		return err
	}
	return f.pushHere()
}

// loopWord returns the compiling word for loop or +loop ( dest -- ).
func loopWord(op Word) func(f *Forth) error {
	return func(f *Forth) error {
		dest, err := f.popDest()
		if err != nil {
			return err
		}
		return f.compile(op, dest)
	}
}
