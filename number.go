package forth

import (
	"strconv"
	"strings"

	"github.com/jcorbin/libforth/internal/runeio"
)

// ParseNumber converts token into a word in the given base, accepting an
// optional leading minus sign. Digits beyond 9 are letters, in either case.
// Overflow silently wraps, just like all other arithmetic. Any invalid digit,
// an empty token, or a base outside 2..36 is an ErrNotANumber error.
func ParseNumber(token string, base int) (Word, error) {
	if base < 2 || base > 36 {
		return 0, errorf(ErrNotANumber, "invalid base %v", base)
	}
	digits, neg := token, false
	if len(digits) > 1 && digits[0] == '-' {
		digits, neg = digits[1:], true
	}
	if digits == "" {
		return 0, tokenError(ErrNotANumber, token)
	}
	var n Word
	for i := 0; i < len(digits); i++ {
		d := digitValue(digits[i])
		if d >= base {
			return 0, tokenError(ErrNotANumber, token)
		}
		n = n*Word(base) + Word(d)
	}
	if neg {
		n = -n
	}
	return n, nil
}

func digitValue(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'z':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'Z':
		return int(c-'A') + 10
	}
	return 36
}

// literal resolves a token that named no word: a number in the current base,
// or a character literal like 'a' <ESC> or ^C.
func (f *Forth) literal(token string) (Word, bool, error) {
	base, err := f.base()
	if err != nil {
		return 0, false, err
	}
	if n, err := ParseNumber(token, base); err == nil {
		return n, true, nil
	}
	if r, err := runeio.UnquoteRune(token); err == nil {
		return Word(r), true, nil
	}
	return 0, false, nil
}

func formatNumber(n int64, base int) string {
	return strings.ToUpper(strconv.FormatInt(n, base))
}
