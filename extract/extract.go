// Package extract provides the typed, cursor-based decoding primitives
// that tabex's format state machines compose: fixed-width integers and
// floats at a chosen endianness, fixed-length byte slices, skips, pattern
// seeks, and NUL-terminated strings; there is no length-prefixed slice
// primitive. Every primitive takes
// a read-only slice and a cursor pointer; on success the cursor advances
// past the decoded bytes, on failure it is left untouched so the caller
// can Reserve more bytes and retry the same call.
package extract

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/Schaudge/tabex/tabexerr"
)

// Endian selects the byte order fixed-width primitives decode with.
type Endian int

const (
	LittleEndian Endian = iota
	BigEndian
)

func (e Endian) order() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// errShort builds the Incomplete-or-terminal error for a short slice,
// following spec's policy: incomplete if the source may still have more
// to give (eof == false), terminal otherwise.
func errShort(need, have int, eof bool) error {
	e := tabexerr.Newf("extract: need %d bytes, have %d", need, have)
	if !eof {
		e.AsIncomplete()
	}
	return e
}

// U8 decodes an unsigned byte at *cur.
func U8(b []byte, cur *int, eof bool) (uint8, error) {
	if *cur+1 > len(b) {
		return 0, errShort(1, len(b)-*cur, eof)
	}
	v := b[*cur]
	*cur++
	return v, nil
}

// I8 decodes a signed byte at *cur.
func I8(b []byte, cur *int, eof bool) (int8, error) {
	v, err := U8(b, cur, eof)
	return int8(v), err
}

// U16 decodes a little/big-endian uint16 at *cur.
func U16(b []byte, cur *int, end Endian, eof bool) (uint16, error) {
	if *cur+2 > len(b) {
		return 0, errShort(2, len(b)-*cur, eof)
	}
	v := end.order().Uint16(b[*cur:])
	*cur += 2
	return v, nil
}

// I16 decodes a little/big-endian int16 at *cur.
func I16(b []byte, cur *int, end Endian, eof bool) (int16, error) {
	v, err := U16(b, cur, end, eof)
	return int16(v), err
}

// U32 decodes a little/big-endian uint32 at *cur.
func U32(b []byte, cur *int, end Endian, eof bool) (uint32, error) {
	if *cur+4 > len(b) {
		return 0, errShort(4, len(b)-*cur, eof)
	}
	v := end.order().Uint32(b[*cur:])
	*cur += 4
	return v, nil
}

// I32 decodes a little/big-endian int32 at *cur.
func I32(b []byte, cur *int, end Endian, eof bool) (int32, error) {
	v, err := U32(b, cur, end, eof)
	return int32(v), err
}

// U64 decodes a little/big-endian uint64 at *cur.
func U64(b []byte, cur *int, end Endian, eof bool) (uint64, error) {
	if *cur+8 > len(b) {
		return 0, errShort(8, len(b)-*cur, eof)
	}
	v := end.order().Uint64(b[*cur:])
	*cur += 8
	return v, nil
}

// I64 decodes a little/big-endian int64 at *cur.
func I64(b []byte, cur *int, end Endian, eof bool) (int64, error) {
	v, err := U64(b, cur, end, eof)
	return int64(v), err
}

// F32 decodes an IEEE-754 single-precision float at *cur.
func F32(b []byte, cur *int, end Endian, eof bool) (float32, error) {
	v, err := U32(b, cur, end, eof)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// F64 decodes an IEEE-754 double-precision float at *cur.
func F64(b []byte, cur *int, end Endian, eof bool) (float64, error) {
	v, err := U64(b, cur, end, eof)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// Bytes returns a borrowed sub-slice of n bytes at *cur, advancing past
// it.
func Bytes(b []byte, cur *int, n int, eof bool) ([]byte, error) {
	if *cur+n > len(b) {
		return nil, errShort(n, len(b)-*cur, eof)
	}
	v := b[*cur : *cur+n]
	*cur += n
	return v, nil
}

// Skip advances *cur by n bytes without returning them.
func Skip(b []byte, cur *int, n int, eof bool) error {
	_, err := Bytes(b, cur, n, eof)
	return err
}

// SeekResult is the outcome of a required pattern seek.
type SeekResult int

const (
	// Found indicates the pattern matched; the cursor now sits just
	// past the match.
	Found SeekResult = iota
	// NotFound indicates the source is at EOF and the pattern never
	// appeared.
	NotFound
	// NeedMoreData indicates the pattern was not found in the buffered
	// slice but the source has not reached EOF; the caller should
	// Reserve more bytes and retry.
	NeedMoreData
)

// SeekPattern scans forward from *cur for a literal byte pattern. On a
// match it advances *cur to just past the match and returns Found. On a
// miss it returns NotFound if eof, otherwise NeedMoreData, leaving *cur
// untouched either way.
func SeekPattern(b []byte, cur *int, pattern []byte, eof bool) SeekResult {
	idx := bytes.Index(b[*cur:], pattern)
	if idx < 0 {
		if eof {
			return NotFound
		}
		return NeedMoreData
	}
	*cur += idx + len(pattern)
	return Found
}

// SeekPatternOpt is the Some/None variant of SeekPattern: ok is false
// only when the pattern is absent and the source has reached EOF; a
// caller distinguishes "definitely absent" from "need more data" via
// needMore.
func SeekPatternOpt(b []byte, cur *int, pattern []byte, eof bool) (ok bool, needMore bool) {
	switch SeekPattern(b, cur, pattern, eof) {
	case Found:
		return true, false
	case NotFound:
		return false, false
	default:
		return false, true
	}
}

// NulString reads bytes from *cur up to (excluding) the next zero byte,
// advancing *cur past the terminator. It fails if no terminator appears
// before the end of the slice.
func NulString(b []byte, cur *int, eof bool) ([]byte, error) {
	idx := bytes.IndexByte(b[*cur:], 0)
	if idx < 0 {
		return nil, errShort(len(b)-*cur+1, len(b)-*cur, eof)
	}
	v := b[*cur : *cur+idx]
	*cur += idx + 1
	return v, nil
}
