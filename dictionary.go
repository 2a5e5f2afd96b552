package forth

import "strings"

// The dictionary is a chain of entries threaded backward through core
// memory, from the most recently defined entry (held in the latest register)
// down to the null sentinel at address 0. Each entry is laid out as:
//
//     link   address of the previous entry
//     info   flags << 8 | name length in bytes
//     name   name bytes, packed two per word, low byte first
//     code   a primitive opcode, or the address of a compiled body
//
// A compiled body directly follows its code field; so for a colon
// definition, code = address of code + 1.
//
// Since entries are only ever appended, a redefinition shadows any earlier
// entry of the same name without erasing it.

const (
	flagImmediate   = 0x80 // executed even while compiling
	flagHidden      = 0x40 // excluded from lookup, while being defined
	flagCompileOnly = 0x20 // may not be executed while interpreting

	maxNameLen = 0x1f

	// bodyCode asks define to point the code field at the body that follows.
	bodyCode = ^Word(0)
)

type entry struct {
	addr  Word
	link  Word
	flags byte
	name  string
	cfa   Word // code field address
	code  Word
}

func (e entry) immediate() bool   { return e.flags&flagImmediate != 0 }
func (e entry) hidden() bool      { return e.flags&flagHidden != 0 }
func (e entry) compileOnly() bool { return e.flags&flagCompileOnly != 0 }

// body returns the address of the entry's compiled body, or 0 for primitive
// entries.
func (e entry) body() Word {
	if e.code == e.cfa+1 {
		return e.code
	}
	return 0
}

func nameWords(n int) Word { return Word((n + 1) / 2) }

func (f *Forth) entry(addr Word) (e entry, err error) {
	e.addr = addr
	if e.link, err = f.load(addr); err != nil {
		return e, err
	}
	info, err := f.load(addr + 1)
	if err != nil {
		return e, err
	}
	e.flags = byte(info >> 8)
	n := int(info & maxNameLen)
	buf := make([]Word, nameWords(n))
	if err := addrError(f.mem.LoadInto(uint(addr)+2, buf)); err != nil {
		return e, err
	}
	name := make([]byte, 0, 2*len(buf))
	for _, w := range buf {
		name = append(name, byte(w), byte(w>>8))
	}
	e.name = string(name[:n])
	e.cfa = addr + 2 + Word(len(buf))
	e.code, err = f.load(e.cfa)
	return e, err
}

// define appends a new dictionary entry, making it the dictionary head.
func (f *Forth) define(name string, flags byte, code Word) (entry, error) {
	if len(name) > maxNameLen {
		return entry{}, tokenError(ErrNameTooLong, name)
	}
	addr, err := f.here()
	if err != nil {
		return entry{}, err
	}
	latest, err := f.load(regLatest)
	if err != nil {
		return entry{}, err
	}

	header := make([]Word, 0, 3+nameWords(len(name)))
	header = append(header, latest, Word(flags)<<8|Word(len(name)))
	for i := 0; i < len(name); i += 2 {
		w := Word(name[i])
		if i+1 < len(name) {
			w |= Word(name[i+1]) << 8
		}
		header = append(header, w)
	}
	cfa := addr + Word(len(header))
	if code == bodyCode {
		code = cfa + 1
	}
	header = append(header, code)

	if err := f.compile(header...); err != nil {
		return entry{}, err
	}
	if err := f.stor(regLatest, addr); err != nil {
		return entry{}, err
	}
	f.logf("define %q @%v code:%v", name, addr, code)
	return entry{
		addr:  addr,
		link:  latest,
		flags: flags,
		name:  name,
		cfa:   cfa,
		code:  code,
	}, nil
}

// defineBody defines an entry whose compiled body starts right after it.
func (f *Forth) defineBody(name string, flags byte) (entry, error) {
	return f.define(name, flags, bodyCode)
}

func (f *Forth) latest() (entry, error) {
	addr, err := f.load(regLatest)
	if err != nil {
		return entry{}, err
	}
	if addr < dictBase {
		return entry{}, errorf(ErrBadAddress, "no latest dictionary entry")
	}
	return f.entry(addr)
}

func (f *Forth) setFlags(e entry, set, clear byte) error {
	e.flags = e.flags&^clear | set
	return f.stor(e.addr+1, Word(e.flags)<<8|Word(len(e.name)))
}

// walk visits every dictionary entry, most recent first, until each returns
// false. Links must strictly descend, keeping the chain acyclic even if a
// program scribbles on it.
func (f *Forth) walk(each func(e entry) bool) error {
	h, err := f.here()
	if err != nil {
		return err
	}
	addr, err := f.load(regLatest)
	if err != nil {
		return err
	}
	for addr != regNull {
		if addr < dictBase || addr >= h {
			return errorf(ErrBadAddress, "dictionary link %v outside [%v, %v)", addr, dictBase, h)
		}
		e, err := f.entry(addr)
		if err != nil {
			return err
		}
		if !each(e) {
			return nil
		}
		if e.link >= addr {
			return errorf(ErrBadAddress, "dictionary link %v does not precede entry %v", e.link, addr)
		}
		addr = e.link
	}
	return nil
}

// lookup finds the most recently defined visible entry with the given name,
// comparing names case insensitively.
func (f *Forth) lookup(name string) (found entry, ok bool, err error) {
	if len(name) > maxNameLen {
		return entry{}, false, nil
	}
	err = f.walk(func(e entry) bool {
		if !e.hidden() && strings.EqualFold(e.name, name) {
			found, ok = e, true
			return false
		}
		return true
	})
	return found, ok, err
}

// forget truncates the dictionary back to before the named entry, erasing
// it and everything defined after it.
func (f *Forth) forget(name string) error {
	if compiling, err := f.compiling(); err != nil {
		return err
	} else if compiling {
		return errorf(ErrBadAddress, "cannot forget %q while compiling", name)
	}
	e, ok, err := f.lookup(name)
	if err != nil {
		return err
	} else if !ok {
		return tokenError(ErrUndefinedWord, name)
	}
	if e.addr < f.fence {
		return errorf(ErrBadAddress, "cannot forget builtin word %q", name)
	}
	for _, r := range f.rstack.cells {
		if r >= e.addr {
			return errorf(ErrBadAddress, "cannot forget %q: return stack references @%v", name, r)
		}
	}
	h, err := f.here()
	if err != nil {
		return err
	}
	f.logf("forget %q @%v here:%v", name, e.addr, h)
	f.mem.Zero(uint(e.addr), uint(h))
	if err := f.stor(regLatest, e.link); err != nil {
		return err
	}
	return f.stor(regHere, e.addr)
}
