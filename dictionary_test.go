package forth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestForth(t *testing.T, opts ...Option) *Forth {
	f, err := New(append([]Option{WithLogf(t.Logf)}, opts...)...)
	require.NoError(t, err, "must create engine")
	return f
}

func Test_dictionary(t *testing.T) {
	f := newTestForth(t, WithoutPrelude(), WithCoreSize(1024))
	defer f.Close()

	h, err := f.here()
	require.NoError(t, err)
	assert.Equal(t, f.fence, h, "expected fence at here after init")

	t.Run("entry layout", func(t *testing.T) {
		latest, err := f.load(regLatest)
		require.NoError(t, err)
		e, err := f.define("abc", flagImmediate, 42)
		require.NoError(t, err)
		assert.Equal(t, h, e.addr, "expected entry at prior here")
		assert.Equal(t, latest, e.link, "expected link to prior head")
		assert.Equal(t, h+4, e.cfa, "expected code after 2 name words")
		assert.Equal(t, Word(0), e.body(), "expected no body for code 42")

		expectCoreAt(t, f, e.addr,
			latest,                      // link
			flagImmediate<<8|3,          // flags and length
			Word('a')|Word('b')<<8, 'c', // name
			42,                          // code
		)

		decoded, err := f.entry(e.addr)
		require.NoError(t, err)
		assert.Equal(t, e, decoded, "expected decoded entry to match defined one")
		assert.True(t, decoded.immediate())
		assert.False(t, decoded.hidden())
	})

	t.Run("lookup and shadowing", func(t *testing.T) {
		w1, err := f.defineBody("w1", 0)
		require.NoError(t, err)
		assert.Equal(t, w1.cfa+1, w1.code, "expected body after code field")
		assert.Equal(t, w1.code, w1.body())
		w2, err := f.defineBody("w2", 0)
		require.NoError(t, err)

		e, ok, err := f.lookup("w1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, w1.addr, e.addr, "expected w1 entry")

		e, ok, err = f.lookup("W2")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, w2.addr, e.addr, "expected w2 entry case insensitively")

		w1b, err := f.defineBody("w1", 0)
		require.NoError(t, err)
		e, ok, err = f.lookup("w1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, w1b.addr, e.addr, "expected later w1 to shadow")

		old, err := f.entry(w1.addr)
		require.NoError(t, err)
		assert.Equal(t, "w1", old.name, "expected shadowed entry still in core")
	})

	t.Run("hidden", func(t *testing.T) {
		e, err := f.define("ghost", flagHidden, opDup)
		require.NoError(t, err)
		_, ok, err := f.lookup("ghost")
		require.NoError(t, err)
		assert.False(t, ok, "expected hidden entry to not be found")

		require.NoError(t, f.setFlags(e, 0, flagHidden))
		found, ok, err := f.lookup("ghost")
		require.NoError(t, err)
		assert.True(t, ok, "expected revealed entry to be found")
		assert.Equal(t, e.addr, found.addr)
	})

	t.Run("name too long", func(t *testing.T) {
		_, err := f.define("abcdefghijklmnopqrstuvwxyz0123456789", 0, opDup)
		assert.True(t, errors.Is(err, ErrNameTooLong), "got %v", err)
		_, ok, err := f.lookup("abcdefghijklmnopqrstuvwxyz0123456789")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("out of memory", func(t *testing.T) {
		require.NoError(t, f.stor(regHere, 1022))
		_, err := f.define("big", 0, opDup)
		assert.True(t, errors.Is(err, ErrOutOfMemory), "got %v", err)
	})
}

func Test_dictionary_walk(t *testing.T) {
	f := newTestForth(t, WithoutPrelude())
	defer f.Close()

	var names []string
	require.NoError(t, f.walk(func(e entry) bool {
		names = append(names, e.name)
		return len(names) < 3
	}))
	assert.Equal(t, []string{"decimal", "hex", "words"}, names, "expected most recent primitives first")

	t.Run("cyclic link", func(t *testing.T) {
		e, err := f.latest()
		require.NoError(t, err)
		require.NoError(t, f.stor(e.addr, e.addr))
		_, _, err = f.lookup("nope")
		assert.True(t, errors.Is(err, ErrBadAddress), "expected cycle to be refused, got %v", err)
	})

	t.Run("corrupt latest", func(t *testing.T) {
		require.NoError(t, f.stor(regLatest, 0xfff0))
		_, _, err := f.lookup("dup")
		assert.True(t, errors.Is(err, ErrBadAddress), "got %v", err)
	})
}

func Test_forget(t *testing.T) {
	f := newTestForth(t)
	defer f.Close()

	require.NoError(t, f.Eval(`: keep 1 ; : gone 2 ; : also 3 ;`))
	keep, ok, err := f.lookup("keep")
	require.NoError(t, err)
	require.True(t, ok)
	gone, ok, err := f.lookup("gone")
	require.NoError(t, err)
	require.True(t, ok)

	t.Run("referenced from return stack", func(t *testing.T) {
		require.NoError(t, f.rstack.push(gone.code))
		defer f.rstack.reset()
		err := f.forget("gone")
		assert.True(t, errors.Is(err, ErrBadAddress), "got %v", err)
	})

	t.Run("while compiling", func(t *testing.T) {
		require.NoError(t, f.setCompiling(true))
		defer f.setCompiling(false)
		err := f.forget("gone")
		assert.True(t, errors.Is(err, ErrBadAddress), "got %v", err)
	})

	require.NoError(t, f.forget("gone"))
	h, err := f.here()
	require.NoError(t, err)
	assert.Equal(t, gone.addr, h, "expected here truncated to forgotten entry")
	head, err := f.latest()
	require.NoError(t, err)
	assert.Equal(t, keep.addr, head.addr, "expected head rewired to prior entry")
	for _, name := range []string{"gone", "also"} {
		_, ok, err := f.lookup(name)
		require.NoError(t, err)
		assert.False(t, ok, "expected %q to be forgotten", name)
	}
	expectCoreAt(t, f, gone.addr, 0, 0, 0, 0)
}

func expectCoreAt(t *testing.T, f *Forth, addr Word, values ...Word) {
	buf := make([]Word, len(values))
	require.NoError(t, f.mem.LoadInto(uint(addr), buf), "must load @%v", addr)
	assert.Equal(t, values, buf, "expected memory values @%v", addr)
}
