package forth

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Listing writes a human readable listing of the engine: its registers and
// stacks, followed by every dictionary entry, oldest first, with compiled
// bodies decompiled. An invalidated engine may still be listed, to help
// diagnose what went wrong.
func (f *Forth) Listing(w io.Writer) error {
	if f.mem.Size() == 0 {
		return errorf(ErrInvalidEngine, "%v", errClosed)
	}
	dump := coreDumper{f: f, out: w}
	if err := dump.scanEntries(); err != nil {
		return err
	}
	return dump.dump()
}

type coreDumper struct {
	f   *Forth
	out io.Writer

	addrWidth int
	here      Word
	entries   []entry // oldest first
	bodies    map[Word]string

	buf strings.Builder
}

func (dump *coreDumper) scanEntries() (err error) {
	if dump.here, err = dump.f.here(); err != nil {
		return err
	}
	dump.bodies = make(map[Word]string)
	if err := dump.f.walk(func(e entry) bool {
		dump.entries = append(dump.entries, e)
		if body := e.body(); body != 0 {
			if _, seen := dump.bodies[body]; !seen {
				dump.bodies[body] = e.name
			}
		}
		return true
	}); err != nil {
		return err
	}
	for i, j := 0, len(dump.entries)-1; i < j; i, j = i+1, j-1 {
		dump.entries[i], dump.entries[j] = dump.entries[j], dump.entries[i]
	}
	dump.addrWidth = len(strconv.Itoa(int(dump.here)))
	return nil
}

func (dump *coreDumper) dump() error {
	f := dump.f
	var regs [regBase + 1]Word
	if err := addrError(f.mem.LoadInto(0, regs[:])); err != nil {
		return err
	}
	dump.printf("# Forth Listing\n")
	dump.printf("  here: %v latest: %v state: %v base: %v fence: %v\n",
		regs[regHere], regs[regLatest], regs[regState], regs[regBase], f.fence)
	if f.err != nil {
		dump.printf("  error: %v\n", f.err)
	}
	dump.printf("  stack: %v\n", f.stack.cells)
	dump.printf("  rstack: %v\n", f.rstack.cells)
	dump.printf("# Dictionary\n")
	for i, e := range dump.entries {
		end := dump.here
		if i+1 < len(dump.entries) {
			end = dump.entries[i+1].addr
		}
		dump.formatEntry(e, end)
	}
	_, err := io.WriteString(dump.out, dump.buf.String())
	return err
}

func (dump *coreDumper) printf(format string, args ...interface{}) {
	fmt.Fprintf(&dump.buf, format, args...)
}

func (dump *coreDumper) formatEntry(e entry, end Word) {
	dump.printf("  @%*v : %v", dump.addrWidth, e.addr, e.name)
	if e.immediate() {
		dump.buf.WriteString(" immediate")
	}
	if e.compileOnly() {
		dump.buf.WriteString(" compile-only")
	}
	if e.hidden() {
		dump.buf.WriteString(" hidden")
	}

	if body := e.body(); body == 0 {
		dump.buf.WriteString(" ( ")
		dump.formatCode(e.code)
		dump.buf.WriteString(" )")
	} else {
		for addr := body; addr < end; {
			dump.buf.WriteByte(' ')
			addr = dump.formatCell(addr)
		}
	}
	dump.buf.WriteByte('\n')
}

// formatCell decompiles the code cell at addr, along with any operand,
// returning the address of the next cell.
func (dump *coreDumper) formatCell(addr Word) Word {
	code, err := dump.f.load(addr)
	if err != nil {
		dump.printf("<%v>", err)
		return dump.here
	}
	addr++
	dump.formatCode(code)
	if code >= opMax || !prims[code].operand {
		if code == opDotQuote {
			return dump.formatString(addr)
		}
		return addr
	}

	operand, err := dump.f.load(addr)
	if err != nil {
		dump.printf("<%v>", err)
		return dump.here
	}
	if code == opLit {
		dump.printf("(%v)", int16(operand))
	} else {
		dump.printf("(@%v)", operand)
	}
	return addr + 1
}

func (dump *coreDumper) formatString(addr Word) Word {
	n, err := dump.f.load(addr)
	if err == nil {
		var s string
		if s, err = dump.f.loadString(addr+1, int(n)); err == nil {
			dump.printf("(%q)", s)
			return addr + 1 + nameWords(int(n))
		}
	}
	dump.printf("<%v>", err)
	return dump.here
}

func (dump *coreDumper) formatCode(code Word) {
	if code < opMax {
		if prim := prims[code]; prim.String() != "" {
			dump.buf.WriteString(prim.String())
			return
		}
		dump.printf("op%v", code)
		return
	}
	if name, ok := dump.bodies[code]; ok {
		dump.buf.WriteString(name)
		return
	}
	dump.printf("call(@%v)", code)
}
