package forth

import (
	"io"
	"strings"
)

//// Primitives

// Every cell of compiled code is either a primitive opcode, below opMax, or
// the address of a compiled body to call. The first few opcodes are internal:
// they have no names or dictionary entries, and are only ever compiled by
// other words; several of them take an inline operand from the cell after.
const (
	opExit     = iota // return from the current body
	opLit             // push the next cell
	opBranch          // jump to the address in the next cell
	opZBranch         // pop; jump to the address in the next cell if zero
	opDo              // move loop limit and index onto the return stack
	opLoop            // step the loop index by one; jump back to the next cell unless done
	opPlusLoop        // step the loop index by popped n; jump back unless done
	opDotQuote        // write the counted string that follows

	// Stack Operations
	opDup
	opDrop
	opSwap
	opOver
	opRot
	opPick
	opDepth
	opToR
	opRFrom
	opRFetch
	opI
	opJ
	opUnloop

	// Integer Operations
	opAdd
	opSub
	opMul
	opDiv
	opMod
	opDivMod
	opNegate
	opIncr
	opDecr

	// Logic Operations
	opAnd
	opOr
	opXor
	opInvert
	opLshift
	opRshift
	opEq
	opLess
	opGreater
	opULess
	opZeroEq
	opZeroLess

	// Memory Operations
	opFetch
	opStore
	opHere
	opComma
	opAllot
	opDP
	opLatest
	opState
	opBase

	// Compilation Operations
	opColon
	opSemicolon
	opImmediate
	opLeftBracket
	opRightBracket
	opLiteral
	opTick
	opExecute
	opRecurse
	opForget
	opVariable
	opConstant

	// Control Flow Compilation
	opIf
	opElse
	opThen
	opBegin
	opUntil
	opAgain
	opWhile
	opRepeat
	opDoWord
	opLoopWord
	opPlusLoopWord

	// Input/Output Operations
	opEmit
	opKey
	opDot
	opUDot
	opDotS
	opDotQuoteWord
	opParen
	opBackslash
	opWords
	opHex
	opDecimal

	opMax
)

type primitive struct {
	name    string // dictionary name; empty for internal opcodes
	label   string // listing name, if it differs from name
	flags   byte
	operand bool // takes an inline operand
	fn      func(f *Forth) error
}

func (prim primitive) String() string {
	if prim.label != "" {
		return prim.label
	}
	return prim.name
}

const (
	immediate   = flagImmediate
	compileOnly = flagCompileOnly
)

var prims [opMax]primitive

func init() {
	prims = [opMax]primitive{
		opExit:     {name: "exit", flags: compileOnly},
		opLit:      {label: "lit", operand: true, fn: (*Forth).lit},
		opBranch:   {label: "branch", operand: true, fn: (*Forth).branch},
		opZBranch:  {label: "?branch", operand: true, fn: (*Forth).zbranch},
		opDo:       {label: "(do)", fn: (*Forth).do},
		opLoop:     {label: "(loop)", operand: true, fn: (*Forth).loop},
		opPlusLoop: {label: "(+loop)", operand: true, fn: (*Forth).plusLoop},
		opDotQuote: {label: `(.")`, fn: (*Forth).dotQuote},

		opDup:    {name: "dup", fn: (*Forth).dup},
		opDrop:   {name: "drop", fn: (*Forth).drop},
		opSwap:   {name: "swap", fn: (*Forth).swap},
		opOver:   {name: "over", fn: (*Forth).over},
		opRot:    {name: "rot", fn: (*Forth).rot},
		opPick:   {name: "pick", fn: (*Forth).pick},
		opDepth:  {name: "depth", fn: (*Forth).depth},
		opToR:    {name: ">r", flags: compileOnly, fn: (*Forth).toR},
		opRFrom:  {name: "r>", flags: compileOnly, fn: (*Forth).rFrom},
		opRFetch: {name: "r@", flags: compileOnly, fn: (*Forth).rFetch},
		opI:      {name: "i", flags: compileOnly, fn: loopIndex(0)},
		opJ:      {name: "j", flags: compileOnly, fn: loopIndex(2)},
		opUnloop: {name: "unloop", flags: compileOnly, fn: (*Forth).unloop},

		opAdd:    {name: "+", fn: binop(func(a, b Word) Word { return a + b })},
		opSub:    {name: "-", fn: binop(func(a, b Word) Word { return a - b })},
		opMul:    {name: "*", fn: binop(func(a, b Word) Word { return a * b })},
		opDiv:    {name: "/", fn: (*Forth).div},
		opMod:    {name: "mod", fn: (*Forth).mod},
		opDivMod: {name: "/mod", fn: (*Forth).divMod},
		opNegate: {name: "negate", fn: unop(func(a Word) Word { return -a })},
		opIncr:   {name: "1+", fn: unop(func(a Word) Word { return a + 1 })},
		opDecr:   {name: "1-", fn: unop(func(a Word) Word { return a - 1 })},

		opAnd:      {name: "and", fn: binop(func(a, b Word) Word { return a & b })},
		opOr:       {name: "or", fn: binop(func(a, b Word) Word { return a | b })},
		opXor:      {name: "xor", fn: binop(func(a, b Word) Word { return a ^ b })},
		opInvert:   {name: "invert", fn: unop(func(a Word) Word { return ^a })},
		opLshift:   {name: "lshift", fn: binop(func(a, b Word) Word { return a << b })},
		opRshift:   {name: "rshift", fn: binop(func(a, b Word) Word { return a >> b })},
		opEq:       {name: "=", fn: binop(func(a, b Word) Word { return boolWord(a == b) })},
		opLess:     {name: "<", fn: binop(func(a, b Word) Word { return boolWord(int16(a) < int16(b)) })},
		opGreater:  {name: ">", fn: binop(func(a, b Word) Word { return boolWord(int16(a) > int16(b)) })},
		opULess:    {name: "u<", fn: binop(func(a, b Word) Word { return boolWord(a < b) })},
		opZeroEq:   {name: "0=", fn: unop(func(a Word) Word { return boolWord(a == 0) })},
		opZeroLess: {name: "0<", fn: unop(func(a Word) Word { return boolWord(int16(a) < 0) })},

		opFetch:  {name: "@", fn: (*Forth).fetch},
		opStore:  {name: "!", fn: (*Forth).store},
		opHere:   {name: "here", fn: (*Forth).pushHere},
		opComma:  {name: ",", fn: (*Forth).comma},
		opAllot:  {name: "allot", fn: (*Forth).allot},
		opDP:     {name: "dp", fn: pushConst(regHere)},
		opLatest: {name: "latest", fn: pushConst(regLatest)},
		opState:  {name: "state", fn: pushConst(regState)},
		opBase:   {name: "base", fn: pushConst(regBase)},

		opColon:        {name: ":", flags: immediate, fn: (*Forth).colon},
		opSemicolon:    {name: ";", flags: immediate | compileOnly, fn: (*Forth).semicolon},
		opImmediate:    {name: "immediate", fn: (*Forth).immediate},
		opLeftBracket:  {name: "[", flags: immediate, fn: (*Forth).leftBracket},
		opRightBracket: {name: "]", fn: (*Forth).rightBracket},
		opLiteral:      {name: "literal", flags: immediate | compileOnly, fn: (*Forth).literalWord},
		opTick:         {name: "'", fn: (*Forth).tick},
		opExecute:      {name: "execute", fn: (*Forth).execute},
		opRecurse:      {name: "recurse", flags: immediate | compileOnly, fn: (*Forth).recurse},
		opForget:       {name: "forget", fn: (*Forth).forgetWord},
		opVariable:     {name: "variable", fn: (*Forth).variable},
		opConstant:     {name: "constant", fn: (*Forth).constant},

		opIf:           {name: "if", flags: immediate | compileOnly, fn: (*Forth).ifWord},
		opElse:         {name: "else", flags: immediate | compileOnly, fn: (*Forth).elseWord},
		opThen:         {name: "then", flags: immediate | compileOnly, fn: (*Forth).thenWord},
		opBegin:        {name: "begin", flags: immediate | compileOnly, fn: (*Forth).begin},
		opUntil:        {name: "until", flags: immediate | compileOnly, fn: (*Forth).until},
		opAgain:        {name: "again", flags: immediate | compileOnly, fn: (*Forth).again},
		opWhile:        {name: "while", flags: immediate | compileOnly, fn: (*Forth).while},
		opRepeat:       {name: "repeat", flags: immediate | compileOnly, fn: (*Forth).repeat},
		opDoWord:       {name: "do", flags: immediate | compileOnly, fn: (*Forth).doWord},
		opLoopWord:     {name: "loop", flags: immediate | compileOnly, fn: loopWord(opLoop)},
		opPlusLoopWord: {name: "+loop", flags: immediate | compileOnly, fn: loopWord(opPlusLoop)},

		opEmit:         {name: "emit", fn: (*Forth).emit},
		opKey:          {name: "key", fn: (*Forth).key},
		opDot:          {name: ".", fn: (*Forth).dot},
		opUDot:         {name: "u.", fn: (*Forth).udot},
		opDotS:         {name: ".s", fn: (*Forth).dotS},
		opDotQuoteWord: {name: `."`, flags: immediate, fn: (*Forth).dotQuoteWord},
		opParen:        {name: "(", flags: immediate, fn: (*Forth).paren},
		opBackslash:    {name: `\`, flags: immediate, fn: (*Forth).backslash},
		opWords:        {name: "words", fn: (*Forth).words},
		opHex:          {name: "hex", fn: setBase(16)},
		opDecimal:      {name: "decimal", fn: setBase(10)},
	}
}

// definePrimitives writes a dictionary entry for every named primitive.
func (f *Forth) definePrimitives() error {
	for code, prim := range prims {
		if prim.name == "" {
			continue
		}
		if _, err := f.define(prim.name, prim.flags, Word(code)); err != nil {
			return err
		}
	}
	return nil
}

//// Internal primitives

// lit takes the next cell out of the instruction stream and pushes it.
func (f *Forth) lit() error {
	val, err := f.loadProg()
	if err != nil {
		return err
	}
	return f.stack.push(val)
}

func (f *Forth) branch() error {
	target, err := f.loadProg()
	if err != nil {
		return err
	}
	f.prog = target
	return nil
}

func (f *Forth) zbranch() error {
	target, err := f.loadProg()
	if err != nil {
		return err
	}
	flag, err := f.stack.pop()
	if err != nil {
		return err
	}
	if flag == 0 {
		f.prog = target
	}
	return nil
}

// do ( limit index -- ) ( R: -- limit index )
func (f *Forth) do() error {
	limit, index, err := f.stack.pop2()
	if err != nil {
		return err
	}
	return f.rstack.push(limit, index)
}

func (f *Forth) loop() error {
	return f.stepLoop(1)
}

func (f *Forth) plusLoop() error {
	n, err := f.stack.pop()
	if err != nil {
		return err
	}
	return f.stepLoop(n)
}

// stepLoop advances the innermost loop index by n, looping back until the
// index crosses the boundary between limit-1 and limit.
func (f *Forth) stepLoop(n Word) error {
	target, err := f.loadProg()
	if err != nil {
		return err
	}
	index, err := f.rstack.peek(0)
	if err != nil {
		return err
	}
	limit, err := f.rstack.peek(1)
	if err != nil {
		return err
	}
	prior := int16(index - limit)
	next := int16(index + n - limit)
	if (prior^next)&(prior^int16(n)) < 0 {
		return f.rstack.drop(2)
	}
	f.prog = target
	return f.rstack.set(0, index+n)
}

// dotQuote writes the counted string compiled after it by .", skipping over
// it.
func (f *Forth) dotQuote() error {
	n, err := f.loadProg()
	if err != nil {
		return err
	}
	s, err := f.loadString(f.prog, int(n))
	if err != nil {
		return err
	}
	f.prog += nameWords(int(n))
	return f.writeString(s)
}

func (f *Forth) loadString(addr Word, n int) (string, error) {
	buf := make([]Word, nameWords(n))
	if err := addrError(f.mem.LoadInto(uint(addr), buf)); err != nil {
		return "", err
	}
	b := make([]byte, 0, 2*len(buf))
	for _, w := range buf {
		b = append(b, byte(w), byte(w>>8))
	}
	return string(b[:n]), nil
}

func (f *Forth) compileString(s string) error {
	if len(s) > int(^Word(0)) {
		return errorf(ErrOutOfMemory, "string of %v bytes is too long", len(s))
	}
	cells := make([]Word, 0, 1+nameWords(len(s)))
	cells = append(cells, Word(len(s)))
	for i := 0; i < len(s); i += 2 {
		w := Word(s[i])
		if i+1 < len(s) {
			w |= Word(s[i+1]) << 8
		}
		cells = append(cells, w)
	}
	return f.compile(cells...)
}

//// Stack Operations

func (f *Forth) dup() error {
	a, err := f.stack.peek(0)
	if err != nil {
		return err
	}
	return f.stack.push(a)
}

func (f *Forth) drop() error { _, err := f.stack.pop(); return err }

func (f *Forth) swap() error {
	a, b, err := f.stack.pop2()
	if err != nil {
		return err
	}
	return f.stack.push(b, a)
}

func (f *Forth) over() error {
	a, err := f.stack.peek(1)
	if err != nil {
		return err
	}
	return f.stack.push(a)
}

// rot ( a b c -- b c a )
func (f *Forth) rot() error {
	a, err := f.stack.peek(2)
	if err != nil {
		return err
	}
	b, _ := f.stack.peek(1)
	c, _ := f.stack.peek(0)
	f.stack.set(2, b)
	f.stack.set(1, c)
	return f.stack.set(0, a)
}

// pick pops top of stack, uses it as index into stack and copies up that element
func (f *Forth) pick() error {
	i, err := f.stack.pop()
	if err != nil {
		return err
	}
	val, err := f.stack.peek(int(i))
	if err != nil {
		return err
	}
	return f.stack.push(val)
}

func (f *Forth) depth() error { return f.stack.push(Word(f.stack.depth())) }

func (f *Forth) toR() error {
	val, err := f.stack.pop()
	if err != nil {
		return err
	}
	return f.rstack.push(val)
}

func (f *Forth) rFrom() error {
	val, err := f.rstack.pop()
	if err != nil {
		return err
	}
	return f.stack.push(val)
}

func (f *Forth) rFetch() error {
	val, err := f.rstack.peek(0)
	if err != nil {
		return err
	}
	return f.stack.push(val)
}

func loopIndex(depth int) func(f *Forth) error {
	return func(f *Forth) error {
		val, err := f.rstack.peek(depth)
		if err != nil {
			return err
		}
		return f.stack.push(val)
	}
}

func (f *Forth) unloop() error { return f.rstack.drop(2) }

//// Integer Operations

func binop(op func(a, b Word) Word) func(f *Forth) error {
	return func(f *Forth) error {
		a, b, err := f.stack.pop2()
		if err != nil {
			return err
		}
		return f.stack.push(op(a, b))
	}
}

func unop(op func(a Word) Word) func(f *Forth) error {
	return func(f *Forth) error {
		a, err := f.stack.peek(0)
		if err != nil {
			return err
		}
		return f.stack.set(0, op(a))
	}
}

func pushConst(val Word) func(f *Forth) error {
	return func(f *Forth) error { return f.stack.push(val) }
}

// divide pops a divisor and dividend, truncating toward zero.
func (f *Forth) divide() (quot, rem Word, err error) {
	a, b, err := f.stack.pop2()
	if err != nil {
		return 0, 0, err
	}
	if b == 0 {
		return 0, 0, kindError(ErrDivideByZero, nil)
	}
	n, d := int16(a), int16(b)
	return Word(n / d), Word(n % d), nil
}

func (f *Forth) div() error {
	quot, _, err := f.divide()
	if err != nil {
		return err
	}
	return f.stack.push(quot)
}

func (f *Forth) mod() error {
	_, rem, err := f.divide()
	if err != nil {
		return err
	}
	return f.stack.push(rem)
}

// divMod ( a b -- rem quot )
func (f *Forth) divMod() error {
	quot, rem, err := f.divide()
	if err != nil {
		return err
	}
	return f.stack.push(rem, quot)
}

//// Memory Operations

// fetch pops an address, pushing the contents of core memory there.
func (f *Forth) fetch() error {
	addr, err := f.stack.peek(0)
	if err != nil {
		return err
	}
	val, err := f.load(addr)
	if err != nil {
		return err
	}
	return f.stack.set(0, val)
}

// store pops an address, and a value to store there.
func (f *Forth) store() error {
	val, addr, err := f.stack.pop2()
	if err != nil {
		return err
	}
	return f.stor(addr, val)
}

func (f *Forth) pushHere() error {
	h, err := f.here()
	if err != nil {
		return err
	}
	return f.stack.push(h)
}

func (f *Forth) comma() error {
	val, err := f.stack.pop()
	if err != nil {
		return err
	}
	return f.compile(val)
}

// allot reserves n zeroed cells at here.
func (f *Forth) allot() error {
	n, err := f.stack.pop()
	if err != nil {
		return err
	}
	return f.compile(make([]Word, n)...)
}

//// Input/Output Operations

func (f *Forth) emit() error {
	val, err := f.stack.pop()
	if err != nil {
		return err
	}
	return f.writeRune(rune(val))
}

// key reads a rune from input onto top of stack, pushing -1 at end of input.
func (f *Forth) key() error {
	if err := f.out.Flush(); err != nil {
		return kindError(ErrInputError, err)
	}
	r, err := f.readRune()
	if err == io.EOF {
		return f.stack.push(^Word(0))
	} else if err != nil {
		return kindError(ErrInputError, err)
	}
	return f.stack.push(Word(r))
}

func (f *Forth) dot() error {
	val, err := f.stack.pop()
	if err != nil {
		return err
	}
	return f.writeNumber(int64(int16(val)))
}

func (f *Forth) udot() error {
	val, err := f.stack.pop()
	if err != nil {
		return err
	}
	return f.writeNumber(int64(val))
}

func (f *Forth) writeNumber(n int64) error {
	base, err := f.base()
	if err != nil {
		return err
	}
	return f.writeString(formatNumber(n, base) + " ")
}

// dotS writes the stack depth, then every stack value, without popping any.
func (f *Forth) dotS() error {
	base, err := f.base()
	if err != nil {
		return err
	}
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(formatNumber(int64(f.stack.depth()), base))
	sb.WriteString("> ")
	for _, val := range f.stack.cells {
		sb.WriteString(formatNumber(int64(int16(val)), base))
		sb.WriteByte(' ')
	}
	return f.writeString(sb.String())
}

func (f *Forth) dotQuoteWord() error {
	s, err := f.scanUntil('"')
	if err != nil {
		return kindError(ErrInputError, err)
	}
	if compiling, err := f.compiling(); err != nil {
		return err
	} else if !compiling {
		return f.writeString(s)
	}
	if err := f.compile(opDotQuote); err != nil {
		return err
	}
	return f.compileString(s)
}

func (f *Forth) paren() error {
	if _, err := f.scanUntil(')'); err != nil {
		return kindError(ErrInputError, err)
	}
	return nil
}

func (f *Forth) backslash() error {
	if _, err := f.scanUntil('\n'); err != nil {
		return kindError(ErrInputError, err)
	}
	return nil
}

// words writes the name of every visible dictionary entry, newest first.
func (f *Forth) words() error {
	var sb strings.Builder
	if err := f.walk(func(e entry) bool {
		if !e.hidden() && e.name != "" {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(e.name)
		}
		return true
	}); err != nil {
		return err
	}
	sb.WriteByte('\n')
	return f.writeString(sb.String())
}

func setBase(base Word) func(f *Forth) error {
	return func(f *Forth) error { return f.stor(regBase, base) }
}
