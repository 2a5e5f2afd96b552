package forth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jcorbin/libforth/internal/fileinput"
)

// Kind classifies engine errors; each kind doubles as a sentinel error for
// use with errors.Is, and as the negative status code reported by Status.
type Kind int

// Error kinds; every kind except ErrNotANumber is fatal, invalidating the
// engine that encountered it.
const (
	ErrUndefinedWord Kind = -(iota + 1)
	ErrStackUnderflow
	ErrStackOverflow
	ErrOutOfMemory
	ErrBadAddress
	ErrDivideByZero
	ErrNestedDefinition
	ErrInputError
	ErrInvalidEngine
	ErrCompileOnly
	ErrNameTooLong
	ErrBadBase
	ErrInternal
	ErrNotANumber
	ErrUnbalanced
)

var kindNames = map[Kind]string{
	ErrUndefinedWord:    "undefined word",
	ErrStackUnderflow:   "stack underflow",
	ErrStackOverflow:    "stack overflow",
	ErrOutOfMemory:      "out of memory",
	ErrBadAddress:       "bad address",
	ErrDivideByZero:     "divide by zero",
	ErrNestedDefinition: "nested definition",
	ErrInputError:       "i/o error",
	ErrInvalidEngine:    "invalid engine",
	ErrCompileOnly:      "compile only word",
	ErrNameTooLong:      "name too long",
	ErrBadBase:          "bad numeric base",
	ErrInternal:         "internal error",
	ErrNotANumber:       "not a number",
	ErrUnbalanced:       "unbalanced control structure",
}

func (k Kind) Error() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("error kind %d", int(k))
}

// Error is the error type returned by all engine operations.
type Error struct {
	Kind  Kind
	Token string
	Loc   fileinput.Location
	Err   error
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Loc.Name != "" {
		sb.WriteString(e.Loc.String())
		sb.WriteString(": ")
	}
	sb.WriteString(e.Kind.Error())
	if e.Token != "" {
		fmt.Fprintf(&sb, " %q", e.Token)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches e against its Kind, so that errors.Is(err, ErrDivideByZero)
// works through any wrapping.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// Status maps err to a status code: 0 for nil, the (negative) Kind value for
// engine errors, and ErrInternal for anything else.
func Status(err error) int {
	if err == nil {
		return 0
	}
	var fe *Error
	if errors.As(err, &fe) {
		return int(fe.Kind)
	}
	var k Kind
	if errors.As(err, &k) {
		return int(k)
	}
	return int(ErrInternal)
}

func kindError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func tokenError(kind Kind, token string) *Error {
	return &Error{Kind: kind, Token: token}
}

// asError classifies any error returned from within the engine.
func asError(err error) *Error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	var k Kind
	if errors.As(err, &k) {
		return &Error{Kind: k}
	}
	return kindError(ErrInternal, err)
}
