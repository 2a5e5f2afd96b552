package forth

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListing(t *testing.T) {
	f := newTestForth(t)
	defer f.Close()

	require.NoError(t, f.Eval(`
		: sq dup * ;
		: five 5 ;
		: pos? 0 > if ." yes" then ;
		: loud ; immediate
		1 2
	`))

	var out strings.Builder
	require.NoError(t, f.Listing(&out))
	listing := out.String()

	assert.True(t, strings.HasPrefix(listing, "# Forth Listing\n"), "got %q", listing)
	assert.Contains(t, listing, "stack: [1 2]")
	assert.Contains(t, listing, "# Dictionary\n")
	assert.Contains(t, listing, ": sq dup * exit\n")
	assert.Contains(t, listing, ": five lit(5) exit\n")
	assert.Regexp(t, `: pos\? lit\(0\) > \?branch\(@\d+\) \(\."\)\("yes"\) exit`, listing)
	assert.Contains(t, listing, ": loud immediate exit\n")
	assert.Regexp(t, `: dup \( dup \)`, listing)
	assert.NotContains(t, listing, "error:")

	assert.Less(t, strings.Index(listing, ": dup "), strings.Index(listing, ": sq "), "expected oldest entries first")
}

func TestListing_invalid(t *testing.T) {
	f := newTestForth(t)
	defer f.Close()

	assert.True(t, errors.Is(f.Eval(`1 0 mod`), ErrDivideByZero))

	var out strings.Builder
	require.NoError(t, f.Listing(&out), "expected an invalid engine to still be listed")
	assert.Contains(t, out.String(), "error: ")
	assert.Contains(t, out.String(), "divide by zero")
}
