package forth

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpCore(t *testing.T) {
	f := newTestForth(t)
	defer f.Close()

	require.NoError(t, f.Eval(`: sq dup * ; hex 7 3 : partial 1`))

	var buf bytes.Buffer
	require.NoError(t, f.DumpCore(&buf))

	img, err := ReadImage(&buf)
	require.NoError(t, err)

	here, err := f.here()
	require.NoError(t, err)
	head, err := f.load(regLatest)
	require.NoError(t, err)

	assert.Equal(t, Word(imageVersion), img.Version)
	assert.True(t, img.Compiling, "expected compiling mode to be captured")
	assert.Equal(t, Word(16), img.Base)
	assert.Equal(t, here, img.Here)
	assert.Equal(t, head, img.Head)
	assert.Equal(t, f.stack.values(), img.Stack)
	assert.Empty(t, img.RStack)
	require.Len(t, img.Core, int(here))
	assert.Equal(t, here, img.Core[regHere], "expected core to carry registers")
	expectCoreAt(t, f, 0, img.Core...)

	t.Run("engine unchanged", func(t *testing.T) {
		require.NoError(t, f.Eval(`;`))
		require.NoError(t, f.Eval(`decimal partial`))
		assert.Equal(t, []Word{7, 3, 1}, f.Stack())
	})
}

func TestDumpCore_writeFailure(t *testing.T) {
	f := newTestForth(t)
	defer f.Close()

	err := f.DumpCore(shortWriter{10})
	assert.True(t, errors.Is(err, ErrInputError), "expected an i/o error, got %v", err)
	assert.True(t, errors.Is(err, io.ErrShortWrite), "expected short write, got %v", err)

	err = f.DumpCore(errWriter{errors.New("disk full")})
	assert.True(t, errors.Is(err, ErrInputError), "expected an i/o error, got %v", err)

	require.NoError(t, f.Eval(`1 2 +`), "expected engine to remain usable")
	assert.Equal(t, []Word{3}, f.Stack())
	require.NoError(t, f.DumpCore(io.Discard))
}

func TestDumpCore_invalid(t *testing.T) {
	f := newTestForth(t)
	defer f.Close()

	assert.True(t, errors.Is(f.Eval(`drop`), ErrStackUnderflow))
	var buf bytes.Buffer
	assert.True(t, errors.Is(f.DumpCore(&buf), ErrInvalidEngine))
	assert.Equal(t, 0, buf.Len(), "expected nothing written")
}

func TestReadImage_corrupt(t *testing.T) {
	good, err := (&Image{
		Base:   10,
		Head:   0,
		Here:   4,
		Stack:  []Word{1, 2},
		RStack: []Word{3},
		Core:   []Word{0, 4, 0, 10},
	}).MarshalBinary()
	require.NoError(t, err)

	img, err := ReadImage(bytes.NewReader(good))
	require.NoError(t, err)
	assert.Equal(t, []Word{1, 2}, img.Stack)
	assert.Equal(t, []Word{3}, img.RStack)
	assert.Equal(t, []Word{0, 4, 0, 10}, img.Core)
	assert.False(t, img.Compiling)

	corrupt := func(fn func(b []byte) []byte) []byte {
		return fn(append([]byte(nil), good...))
	}
	for _, tc := range []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", corrupt(func(b []byte) []byte { b[0] = 'X'; return b })},
		{"bad version", corrupt(func(b []byte) []byte { b[4] = 9; return b })},
		{"bad width", corrupt(func(b []byte) []byte { b[6] = 4; return b })},
		{"truncated header", good[:8]},
		{"truncated core", good[:len(good)-1]},
		{"trailing data", append(corrupt(func(b []byte) []byte { return b }), 0, 0)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadImage(bytes.NewReader(tc.data))
			assert.True(t, errors.Is(err, ErrInputError), "expected input error, got %v", err)
			assert.True(t, errors.Is(err, errBadImage), "expected bad image, got %v", err)
		})
	}

	t.Run("core size mismatch", func(t *testing.T) {
		_, err := (&Image{Here: 3}).MarshalBinary()
		assert.True(t, errors.Is(err, errBadImage), "got %v", err)
	})
}
