// Package rbuf implements the refillable read buffer that every tabex
// format parser is built on: a contiguous owned byte window with a
// monotonically advancing absolute position, grown from an io.Reader on
// demand and compacted as its consumed prefix grows stale.
package rbuf

import (
	"io"
	"sync"

	"github.com/Schaudge/tabex/tabexerr"
)

// initialFill is the size of the first read issued against a fresh
// source; chosen generously enough that most format header preludes
// (Agilent's 268-byte prelude, Inficon's header search) land in a
// single read.
const initialFill = 4096

// scratchPool recycles the backing arrays Buffer.Refill grows, the same
// way bam.Reader recycles its per-record scratch buffers: a slow trickle
// of small files through one goroutine (e.g. the CLI driver) should not
// force a fresh allocation on every Buffer.
var scratchPool = sync.Pool{
	New: func() interface{} {
		return []byte{}
	},
}

func resizeScratch(buf *[]byte, n int) {
	if cap(*buf) < n {
		size := (n/16 + 1) * 16
		grown := make([]byte, n, size)
		copy(grown, *buf)
		*buf = grown
	} else {
		*buf = (*buf)[:n]
	}
}

// Buffer is a refillable byte window over a byte source.
type Buffer struct {
	src      io.Reader
	window   []byte
	consumed int
	readerPos int64
	recordPos uint64
	eof       bool
	fromSlice bool
}

// New constructs a Buffer over src, performing an initial fill.
func New(src io.Reader) (*Buffer, error) {
	b := &Buffer{src: src}
	scratch := scratchPool.Get().([]byte)
	resizeScratch(&scratch, initialFill)
	b.window = scratch[:0]
	if err := b.Refill(); err != nil {
		return nil, err
	}
	return b, nil
}

// FromSlice wraps a complete in-memory slice. The buffer is immediately
// at EOF; no further refills are possible. The slice is borrowed, not
// copied.
func FromSlice(data []byte) *Buffer {
	return &Buffer{window: data, eof: true, fromSlice: true}
}

// Release returns the Buffer's backing array to the shared scratch pool.
// It must not be called again after the Buffer itself is discarded, and
// the Buffer must not be used afterwards. Buffers constructed with
// FromSlice ignore Release since they never draw from the pool.
func (b *Buffer) Release() {
	if b.fromSlice || b.window == nil {
		return
	}
	scratchPool.Put(b.window[:0])
	b.window = nil
}

// Bytes returns the unconsumed portion of the window.
func (b *Buffer) Bytes() []byte {
	return b.window[b.consumed:]
}

// Window returns the full buffered window, including already-consumed
// bytes, for error-context reporting: AddContext needs to slice around
// the fault position with the same absolute indexing the position was
// computed in.
func (b *Buffer) Window() []byte {
	return b.window
}

// Len returns the number of unconsumed bytes currently buffered.
func (b *Buffer) Len() int {
	return len(b.window) - b.consumed
}

// IsEmpty reports whether there are no unconsumed bytes buffered.
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// EOF reports whether the underlying source has been exhausted.
func (b *Buffer) EOF() bool {
	return b.eof
}

// Consumed returns the local offset of the next unread byte.
func (b *Buffer) Consumed() int {
	return b.consumed
}

// ReaderPos returns the absolute byte offset of the window's first byte.
func (b *Buffer) ReaderPos() int64 {
	return b.readerPos
}

// RecordPos returns the number of complete records surfaced so far.
func (b *Buffer) RecordPos() uint64 {
	return b.recordPos
}

// Consume advances past k bytes, treating them as one complete record,
// and returns them. k must not exceed Len(); violating this is a
// programming fault and panics rather than returning an error, exactly
// as an out-of-range slice index would.
func (b *Buffer) Consume(k int) []byte {
	if k > b.Len() {
		panic("rbuf: consume past end of buffered window")
	}
	out := b.window[b.consumed : b.consumed+k]
	b.consumed += k
	b.recordPos++
	return out
}

// Refill pulls more bytes from the source, compacting away the already
// consumed prefix when that's worthwhile. It is a no-op once eof is
// true.
func (b *Buffer) Refill() error {
	if b.eof {
		return nil
	}
	if b.fromSlice {
		b.eof = true
		return nil
	}

	// Compact: drop the consumed prefix once it's a sizeable fraction of
	// the window, so long-running parses don't grow the window forever.
	if b.consumed > 0 && (b.consumed > len(b.window)/2 || b.consumed == len(b.window)) {
		remaining := len(b.window) - b.consumed
		copy(b.window[:remaining], b.window[b.consumed:])
		b.readerPos += int64(b.consumed)
		b.window = b.window[:remaining]
		b.consumed = 0
	}

	oldLen := len(b.window)
	growTo := oldLen + initialFill
	resizeScratch(&b.window, growTo)
	n, err := io.ReadFull(b.src, b.window[oldLen:growTo])
	b.window = b.window[:oldLen+n]
	if n == 0 || err == io.EOF || err == io.ErrUnexpectedEOF {
		b.eof = true
		return nil
	}
	if err != nil {
		return tabexerr.Wrap(err, "rbuf: read error")
	}
	return nil
}

// Reserve ensures at least n unconsumed bytes are buffered, refilling
// from the source as needed. It fails with an Incomplete error iff eof
// is reached before n bytes become available.
func (b *Buffer) Reserve(n int) error {
	for b.Len() < n {
		if b.eof {
			return tabexerr.Newf("rbuf: need %d bytes, only %d available at eof", n, b.Len()).AsIncomplete().AddContext(b)
		}
		before := b.Len()
		if err := b.Refill(); err != nil {
			return err
		}
		if b.Len() == before && b.eof {
			return tabexerr.Newf("rbuf: need %d bytes, only %d available at eof", n, b.Len()).AsIncomplete().AddContext(b)
		}
	}
	return nil
}
