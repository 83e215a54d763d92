// Package agilent decodes the Agilent Chemstation family of
// chromatography/mass-spec binary formats: a shared 268-byte header
// prelude followed by one of several per-variant scan layouts (FID,
// MWD, MS, and the newer Chemstation UV layout).
package agilent

import (
	"github.com/Schaudge/tabex/extract"
	"github.com/Schaudge/tabex/tabexerr"
)

const (
	headerProbeSize = 268
	headerLenOffset = 264
	minHeaderSize   = 512
	maxHeaderSize   = 20000
)

// readHeader reserves and skips the Agilent header prelude, returning
// the number of bytes it consumed. msFormat selects the MS variant's
// header-size multiplier (1, vs. 256 for every other variant).
func readHeader(rb buffer, msFormat bool) (int, error) {
	if err := rb.Reserve(headerProbeSize); err != nil {
		return 0, err
	}
	buf := rb.Bytes()

	lenCur := headerLenOffset
	rawHeaderSize, err := extract.U32(buf, &lenCur, extract.BigEndian, rb.EOF())
	if err != nil {
		return 0, err
	}
	if rawHeaderSize == 0 {
		return 0, tabexerr.New("Invalid header length of 0").AddContext(rb)
	}

	headerSize := 2 * (int(rawHeaderSize) - 1)
	if !msFormat {
		headerSize *= 256
	}
	if headerSize < minHeaderSize {
		return 0, tabexerr.New("Header length too short").AddContext(rb)
	}
	if headerSize > maxHeaderSize {
		return 0, tabexerr.New("Header length too long").AddContext(rb)
	}

	if err := rb.Reserve(headerSize); err != nil {
		return 0, err
	}
	cur := 0
	if err := extract.Skip(rb.Bytes(), &cur, headerSize, rb.EOF()); err != nil {
		return 0, err
	}
	rb.Consume(cur)
	return cur, nil
}

// buffer is the minimal surface agilent readers need from rbuf.Buffer;
// declared locally so the package's tests can substitute a fake source.
type buffer interface {
	Reserve(n int) error
	Bytes() []byte
	Window() []byte
	EOF() bool
	Consume(k int) []byte
	Consumed() int
	ReaderPos() int64
	RecordPos() uint64
}
