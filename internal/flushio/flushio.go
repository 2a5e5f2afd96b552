// Package flushio buffers engine output, so that many small writes, like
// those of emit, reach their sink as few large ones.
package flushio

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// WriteFlusher is an output sink that may hold written data until flushed.
type WriteFlusher interface {
	io.Writer
	Flush() error
}

// Discard drops everything written to it.
var Discard WriteFlusher = discard{}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
func (discard) Flush() error                { return nil }

// NewWriteFlusher returns a WriteFlusher for w. Nil and io.Discard sinks
// discard, existing WriteFlushers pass through, and in-memory buffers are
// written directly. Any other sink is buffered, and sees nothing until the
// returned WriteFlusher is flushed.
func NewWriteFlusher(w io.Writer) WriteFlusher {
	switch impl := w.(type) {
	case nil:
		return Discard
	case WriteFlusher:
		return impl
	case *bytes.Buffer, *strings.Builder:
		return direct{w}
	}
	if w == io.Discard {
		return Discard
	}
	return bufio.NewWriter(w)
}

type direct struct{ io.Writer }

func (direct) Flush() error { return nil }

// Tee returns a WriteFlusher that writes to every one of sinks in order,
// stopping at the first that fails. Flush flushes them all, returning the
// first error. Nil and Discard sinks are dropped, and Tees are flattened.
func Tee(sinks ...WriteFlusher) WriteFlusher {
	var t tee
	for _, sink := range sinks {
		t = t.add(sink)
	}
	switch len(t) {
	case 0:
		return Discard
	case 1:
		return t[0]
	}
	return t
}

type tee []WriteFlusher

func (t tee) add(sink WriteFlusher) tee {
	switch impl := sink.(type) {
	case nil, discard:
		return t
	case tee:
		return append(t, impl...)
	}
	return append(t, sink)
}

func (t tee) Write(p []byte) (int, error) {
	for _, sink := range t {
		if n, err := sink.Write(p); err != nil {
			return n, err
		} else if n < len(p) {
			return n, io.ErrShortWrite
		}
	}
	return len(p), nil
}

func (t tee) Flush() error {
	var first error
	for _, sink := range t {
		if err := sink.Flush(); first == nil {
			first = err
		}
	}
	return first
}
