package forth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	for _, tc := range []struct {
		token string
		base  int
		want  Word
		fail  bool
	}{
		{token: "123", base: 10, want: 123},
		{token: "ff", base: 16, want: 255},
		{token: "FF", base: 16, want: 255},
		{token: "-1", base: 10, want: 0xffff},
		{token: "101", base: 2, want: 5},
		{token: "zz", base: 36, want: 36*35 + 35},
		{token: "65536", base: 10, want: 0},
		{token: "70000", base: 10, want: 70000 - 65536},
		{token: "12a", base: 10, fail: true},
		{token: "2", base: 2, fail: true},
		{token: "", base: 10, fail: true},
		{token: "-", base: 10, fail: true},
		{token: "--1", base: 10, fail: true},
		{token: "1", base: 1, fail: true},
		{token: "1", base: 37, fail: true},
	} {
		n, err := ParseNumber(tc.token, tc.base)
		if tc.fail {
			assert.True(t, errors.Is(err, ErrNotANumber), "expected %q base %v to not be a number, got %v, %v", tc.token, tc.base, n, err)
		} else if assert.NoError(t, err, "unexpected error parsing %q base %v", tc.token, tc.base) {
			assert.Equal(t, tc.want, n, "expected %q base %v value", tc.token, tc.base)
		}
	}
}

func Test_formatNumber(t *testing.T) {
	assert.Equal(t, "25", formatNumber(25, 10))
	assert.Equal(t, "-25", formatNumber(-25, 10))
	assert.Equal(t, "FF", formatNumber(255, 16))
	assert.Equal(t, "101", formatNumber(5, 2))
}
