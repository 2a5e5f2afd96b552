package forth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jcorbin/libforth/internal/fileinput"
	"github.com/jcorbin/libforth/internal/logio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type forthTestCases []forthTestCase

func (fts forthTestCases) run(t *testing.T) {
	{
		var exclusive []forthTestCase
		for _, ft := range fts {
			if ft.exclusive {
				exclusive = append(exclusive, ft)
			}
		}
		if len(exclusive) > 0 {
			fts = exclusive
		}
	}
	for _, ft := range fts {
		t.Run(ft.name, ft.run)
	}
}

func forthTest(name string) (ft forthTestCase) {
	ft.name = name
	return ft
}

type forthTestCase struct {
	name    string
	opts    []interface{}
	setup   []func(f *Forth) error
	ops     []func(f *Forth) error
	expect  []func(t *testing.T, f *Forth, out string)
	wantErr error

	exclusive   bool
	nextInputID int
}

func (ft forthTestCase) apply(wraps ...func(forthTestCase) forthTestCase) forthTestCase {
	for _, wrap := range wraps {
		ft = wrap(ft)
	}
	return ft
}

func (ft forthTestCase) exclusiveTest() forthTestCase {
	ft.exclusive = true
	return ft
}

func (ft forthTestCase) withOptions(opts ...Option) forthTestCase {
	for _, opt := range opts {
		ft.opts = append(ft.opts, opt)
	}
	return ft
}

func (ft forthTestCase) withStack(values ...Word) forthTestCase {
	ft.setup = append(ft.setup, func(f *Forth) error {
		return f.stack.push(values...)
	})
	return ft
}

func (ft forthTestCase) withRStack(values ...Word) forthTestCase {
	ft.setup = append(ft.setup, func(f *Forth) error {
		return f.rstack.push(values...)
	})
	return ft
}

func (ft forthTestCase) withMemAt(addr Word, values ...Word) forthTestCase {
	ft.setup = append(ft.setup, func(f *Forth) error {
		return f.stor(addr, values...)
	})
	return ft
}

func (ft forthTestCase) withInput(input string) forthTestCase {
	ft.opts = append(ft.opts, func(ft *forthTestCase, t *testing.T) Option {
		name := t.Name() + "/input"
		if id := ft.nextInputID; id > 0 {
			name += "_" + strconv.Itoa(id+1)
		}
		ft.nextInputID++
		return WithInput(fileinput.Named(name, strings.NewReader(input)))
	})
	return ft
}

func (ft forthTestCase) withNamedInput(name string, input string) forthTestCase {
	ft.opts = append(ft.opts, func(ft *forthTestCase, t *testing.T) Option {
		return WithInput(fileinput.Named(name, strings.NewReader(input)))
	})
	return ft
}

func (ft forthTestCase) withTestOutput(prefix string) forthTestCase {
	ft.opts = append(ft.opts, func(ft *forthTestCase, t *testing.T) Option {
		return WithTee(&logio.Writer{Logf: t.Logf, Prefix: prefix})
	})
	return ft
}

// do runs ops, in order, instead of Run.
func (ft forthTestCase) do(ops ...func(f *Forth) error) forthTestCase {
	ft.ops = append(ft.ops, ops...)
	return ft
}

func (ft forthTestCase) withEval(src string) forthTestCase {
	ft.ops = append(ft.ops, func(f *Forth) error { return f.Eval(src) })
	return ft
}

func (ft forthTestCase) expectError(err error) forthTestCase {
	ft.wantErr = err
	return ft
}

func (ft forthTestCase) expectStack(values ...Word) forthTestCase {
	ft.expect = append(ft.expect, func(t *testing.T, f *Forth, _ string) {
		if values == nil {
			values = []Word{}
		}
		assert.Equal(t, values, f.stack.values(), "expected stack values")
	})
	return ft
}

func (ft forthTestCase) expectSigned(values ...int16) forthTestCase {
	words := make([]Word, len(values))
	for i, val := range values {
		words[i] = Word(val)
	}
	return ft.expectStack(words...)
}

func (ft forthTestCase) expectRStack(values ...Word) forthTestCase {
	ft.expect = append(ft.expect, func(t *testing.T, f *Forth, _ string) {
		if values == nil {
			values = []Word{}
		}
		assert.Equal(t, values, f.rstack.values(), "expected return stack values")
	})
	return ft
}

func (ft forthTestCase) expectMemAt(addr Word, values ...Word) forthTestCase {
	ft.expect = append(ft.expect, func(t *testing.T, f *Forth, _ string) {
		buf := make([]Word, len(values))
		if assert.NoError(t, f.mem.LoadInto(uint(addr), buf), "must load @%v", addr) {
			assert.Equal(t, values, buf, "expected memory values @%v", addr)
		}
	})
	return ft
}

// expectWord expects name to be defined with a compiled body of the given
// code; a string code stands for a call to the named word.
func (ft forthTestCase) expectWord(name string, code ...interface{}) forthTestCase {
	ft.expect = append(ft.expect, func(t *testing.T, f *Forth, _ string) {
		e, ok, err := f.lookup(name)
		require.NoError(t, err, "must lookup %q", name)
		require.True(t, ok, "expected %q to be defined", name)
		want := make([]Word, len(code))
		for i, c := range code {
			switch c := c.(type) {
			case int:
				want[i] = Word(c)
			case Word:
				want[i] = c
			case string:
				callee, ok, err := f.lookup(c)
				require.NoError(t, err, "must lookup %q", c)
				require.True(t, ok, "expected callee %q to be defined", c)
				want[i] = callee.code
			default:
				t.Fatalf("unsupported code value type %T", c)
			}
		}
		body := e.body()
		require.NotEqual(t, Word(0), body, "expected %q to have a compiled body", name)
		got := make([]Word, len(want))
		require.NoError(t, f.mem.LoadInto(uint(body), got), "must load %q body", name)
		assert.Equal(t, want, got, "expected %q @%v code", name, body)
	})
	return ft
}

func (ft forthTestCase) expectHere(value Word) forthTestCase {
	ft.expect = append(ft.expect, func(t *testing.T, f *Forth, _ string) {
		h, err := f.here()
		if assert.NoError(t, err) {
			assert.Equal(t, value, h, "expected here value")
		}
	})
	return ft
}

func (ft forthTestCase) expectCompiling(compiling bool) forthTestCase {
	ft.expect = append(ft.expect, func(t *testing.T, f *Forth, _ string) {
		state, err := f.compiling()
		if assert.NoError(t, err) {
			assert.Equal(t, compiling, state, "expected compiling state")
		}
	})
	return ft
}

func (ft forthTestCase) expectOutput(output string) forthTestCase {
	ft.expect = append(ft.expect, func(t *testing.T, f *Forth, out string) {
		assert.Equal(t, output, out, "expected output")
	})
	return ft
}

func (ft forthTestCase) expectErrorString(mess string) forthTestCase {
	ft.expect = append(ft.expect, func(t *testing.T, f *Forth, _ string) {
		if assert.Error(t, f.Err(), "expected engine to be invalidated") {
			assert.Equal(t, mess, f.Err().Error(), "expected error message")
		}
	})
	return ft
}

func (ft forthTestCase) run(t *testing.T) {
	defer func(then time.Time) {
		label := "PASS"
		if t.Failed() {
			label = "FAIL"
		}
		t.Logf("%v\t%v\t%v", label, t.Name(), time.Now().Sub(then))
	}(time.Now())

	var trace traceBuffer
	var out strings.Builder
	f := ft.build(t, WithOutput(&out), WithLogf(trace.logf))
	defer func() {
		if t.Failed() {
			trace.dumpTo(t)
			listToTest(t, f)
		}
	}()

	if err := ft.runForth(f); ft.wantErr != nil {
		assert.True(t, errors.Is(err, ft.wantErr), "expected error: %v\ngot: %+v", ft.wantErr, err)
	} else {
		assert.NoError(t, err, "unexpected engine error")
	}

	if !t.Failed() {
		for _, expect := range ft.expect {
			expect(t, f, out.String())
		}
	}
}

func (ft forthTestCase) runForth(f *Forth) error {
	for _, setup := range ft.setup {
		if err := setup(f); err != nil {
			return fmt.Errorf("test setup failed: %w", err)
		}
	}
	if len(ft.ops) == 0 {
		return f.Run()
	}
	for _, op := range ft.ops {
		if err := op(f); err != nil {
			return err
		}
	}
	return nil
}

func (ft forthTestCase) build(t *testing.T, base ...Option) *Forth {
	opts := base
	for _, o := range ft.opts {
		switch impl := o.(type) {
		case func(ft *forthTestCase, t *testing.T) Option:
			opts = append(opts, impl(&ft, t))
		case Option:
			opts = append(opts, impl)
		default:
			t.Logf("unsupported forthTestCase opt type %T", o)
			t.FailNow()
		}
	}
	f, err := New(opts...)
	require.NoError(t, err, "must create engine")
	return f
}

//// utilities

func listToTest(t *testing.T, f *Forth) {
	lw := logio.Writer{Logf: t.Logf}
	defer lw.Close()
	if err := f.Listing(&lw); err != nil {
		t.Logf("listing failed: %v", err)
	}
}

// traceBuffer holds trace logging, to be shown only for failed tests.
type traceBuffer struct {
	lines []string
}

func (tb *traceBuffer) logf(mess string, args ...interface{}) {
	tb.lines = append(tb.lines, fmt.Sprintf(mess, args...))
}

func (tb *traceBuffer) dumpTo(t *testing.T) {
	const maxLines = 200
	lines := tb.lines
	if len(lines) > maxLines {
		t.Logf("... %v trace lines elided", len(lines)-maxLines)
		lines = lines[len(lines)-maxLines:]
	}
	for _, line := range lines {
		t.Logf("trace: %v", line)
	}
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

type errWriter struct{ err error }

func (ew errWriter) Write(p []byte) (int, error) { return 0, ew.err }

type shortWriter struct{ n int }

func (sw shortWriter) Write(p []byte) (int, error) {
	if len(p) > sw.n {
		return sw.n, nil
	}
	return len(p), nil
}
