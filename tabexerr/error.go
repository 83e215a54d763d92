// Package tabexerr defines the error value used throughout tabex's
// streaming parsers. Errors are plain values rather than panics: a
// bounds check that fails because more bytes are needed sets Incomplete
// so the caller can refill and retry; everything else is terminal.
package tabexerr

import (
	"fmt"
	"strings"
)

const maxContext = 32

// Context pins an error to a location in the source being parsed.
type Context struct {
	// Byte is the absolute byte offset of the fault.
	Byte uint64
	// Record is the count of records already surfaced when the fault
	// occurred.
	Record uint64
	// Window holds up to maxContext bytes surrounding the fault.
	Window []byte
	// Pos is the index of the fault byte within Window.
	Pos int
}

// Error is tabex's error value. It carries enough information for a
// caller to decide whether to refill and retry (Incomplete) and, when
// Context is set, to render a hex/ASCII/caret diagnostic.
type Error struct {
	Msg        string
	Orig       error
	Incomplete bool
	Context    *Context
}

// New creates an Error with the given message.
func New(msg string) *Error {
	return &Error{Msg: msg}
}

// Newf creates an Error with a formatted message.
func Newf(format string, args ...interface{}) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error whose Unwrap returns orig.
func Wrap(orig error, msg string) *Error {
	return &Error{Msg: msg, Orig: orig}
}

// AsIncomplete marks e as recoverable by refilling and returns e.
func (e *Error) AsIncomplete() *Error {
	e.Incomplete = true
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Msg)
	if e.Context != nil {
		b.WriteByte('\n')
		writeContext(&b, e.Context)
	}
	return b.String()
}

// Unwrap returns the original error this one was built from, if any.
func (e *Error) Unwrap() error {
	return e.Orig
}

func writeContext(b *strings.Builder, c *Context) {
	for _, v := range c.Window {
		fmt.Fprintf(b, "%02X", v)
	}
	b.WriteByte('\n')
	for _, v := range c.Window {
		if v > 31 && v < 127 {
			b.WriteByte(' ')
			b.WriteByte(v)
		} else {
			b.WriteString("  ")
		}
	}
	fmt.Fprintf(b, "\n%s^^ %d\n", strings.Repeat(" ", 2*c.Pos), c.Byte)
}

// contextSource is the minimal view of a read buffer that AddContext
// needs; rbuf.Buffer satisfies it without this package importing rbuf
// (which itself needs to construct *Error on the bounds-check path).
// Window must return the full buffered window (including already
// consumed bytes) so Consumed() indexes into the same slice it reports
// a position in, the way entab's ReadBuffer::as_ref()/consumed pair do.
type contextSource interface {
	Window() []byte
	Consumed() int
	ReaderPos() int64
	RecordPos() uint64
}

// AddContext fills e.Context from the current state of a read buffer,
// mirroring the 32-byte window entab's EtError::add_context computes.
func (e *Error) AddContext(src contextSource) *Error {
	buf := src.Window()
	consumed := src.Consumed()
	bufLen := len(buf)

	var window []byte
	var pos int
	switch {
	case consumed < 16 && bufLen < consumed+16:
		window, pos = append([]byte(nil), buf...), consumed
	case consumed < 16:
		window, pos = append([]byte(nil), buf[:consumed+16]...), consumed
	case bufLen < consumed+16:
		if consumed < bufLen {
			window, pos = append([]byte(nil), buf[consumed-16:]...), 16
		} else {
			window, pos = nil, 0
		}
	default:
		window, pos = append([]byte(nil), buf[consumed-16:consumed+16]...), 16
	}

	e.Context = &Context{
		Record: src.RecordPos(),
		Byte:   uint64(src.ReaderPos()) + uint64(consumed),
		Window: window,
		Pos:    pos,
	}
	return e
}
