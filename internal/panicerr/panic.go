package panicerr

import (
	"errors"
	"fmt"
)

// Error is a panic recovered by Recover.
type Error struct {
	Op    string      // name given to Recover, if any
	Value interface{} // the value passed to panic
	Stack []byte      // stack of the panicking goroutine
}

func (pe *Error) Error() string {
	if pe.Op == "" {
		return fmt.Sprintf("panic: %v", pe.Value)
	}
	return fmt.Sprintf("%v: panic: %v", pe.Op, pe.Value)
}

// Format appends the panic stack to the message under %+v.
func (pe *Error) Format(f fmt.State, c rune) {
	mess := pe.Error()
	if c == 'v' && f.Flag('+') {
		mess += "\npanic stack: " + string(pe.Stack)
	}
	fmt.Fprint(f, mess)
}

// Unwrap returns the panic value, if it was an error.
func (pe *Error) Unwrap() error {
	err, _ := pe.Value.(error)
	return err
}

// IsPanic reports whether err wraps a recovered panic.
func IsPanic(err error) bool {
	var pe *Error
	return errors.As(err, &pe)
}

// PanicStack returns the stack of any recovered panic wrapped by err, or ""
// if there is none.
func PanicStack(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return string(pe.Stack)
	}
	return ""
}
