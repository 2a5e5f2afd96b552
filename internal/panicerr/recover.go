package panicerr

import "runtime/debug"

// Recover calls f, converting any panic that escapes it into a non-nil error
// return carrying the panic value and a stack trace.
// Unlike a goroutine boundary, f runs on the caller's goroutine, so it may
// freely share unsynchronized state with the caller.
func Recover(name string, f func() error) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = &Error{Op: name, Value: e, Stack: debug.Stack()}
		}
	}()
	return f()
}
