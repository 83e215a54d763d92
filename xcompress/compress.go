// Package xcompress sniffs a byte stream's compression envelope and
// wraps it in a transparent decompressing reader. It sits outside the
// core parsing packages: callers that know their input is already
// uncompressed never need it.
package xcompress

import (
	"bufio"
	"compress/bzip2"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression names the detected envelope.
type Compression int

const (
	// None means the stream is not wrapped in a recognized compression
	// envelope.
	None Compression = iota
	Gzip
	Bzip2
	Zstd
)

// String names a Compression for diagnostics.
func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Bzip2:
		return "bzip2"
	case Zstd:
		return "zstd"
	default:
		return "none"
	}
}

var magic = []struct {
	bytes []byte
	kind  Compression
}{
	{[]byte{0x1f, 0x8b}, Gzip},
	{[]byte("BZh"), Bzip2},
	{[]byte{0x28, 0xb5, 0x2f, 0xfd}, Zstd},
}

// peekSize is large enough to cover every magic prefix above.
const peekSize = 4

// Detect peeks at r's leading bytes and reports which compression
// envelope, if any, it's wrapped in. It returns a reader that replays
// the peeked bytes, so callers must use the returned reader in place of
// r afterwards.
func Detect(r io.Reader) (io.Reader, Compression, error) {
	br := bufio.NewReaderSize(r, peekSize*4)
	head, err := br.Peek(peekSize)
	if err != nil && err != io.EOF {
		return nil, None, fmt.Errorf("xcompress: peek: %w", err)
	}
	for _, m := range magic {
		if len(head) >= len(m.bytes) && string(head[:len(m.bytes)]) == string(m.bytes) {
			return br, m.kind, nil
		}
	}
	return br, None, nil
}

// Open wraps r in the decompressing reader appropriate for kind,
// detecting it first if kind is None and auto is true.
func Open(r io.Reader, kind Compression, auto bool) (io.Reader, error) {
	if auto && kind == None {
		var err error
		r, kind, err = Detect(r)
		if err != nil {
			return nil, err
		}
	}
	switch kind {
	case Gzip:
		return gzip.NewReader(r)
	case Bzip2:
		return bzip2.NewReader(r), nil
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	default:
		return r, nil
	}
}
