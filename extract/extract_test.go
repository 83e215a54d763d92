package extract

import (
	"testing"

	"github.com/Schaudge/tabex/tabexerr"
)

func TestU32Endian(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04}

	cur := 0
	v, err := U32(buf, &cur, BigEndian, true)
	if err != nil || v != 0x01020304 {
		t.Fatalf("BigEndian U32 = %#x, %v", v, err)
	}
	if cur != 4 {
		t.Fatalf("cursor = %d, want 4", cur)
	}

	cur = 0
	v, err = U32(buf, &cur, LittleEndian, true)
	if err != nil || v != 0x04030201 {
		t.Fatalf("LittleEndian U32 = %#x, %v", v, err)
	}
}

func TestShortReadLeavesCursorUntouched(t *testing.T) {
	buf := []byte{0x01, 0x02}
	cur := 1
	_, err := U32(buf, &cur, BigEndian, false)
	if err == nil {
		t.Fatal("expected a short-read error")
	}
	if cur != 1 {
		t.Fatalf("cursor moved on failure: %d", cur)
	}
	e, ok := asIncomplete(err)
	if !ok || !e {
		t.Fatal("expected an Incomplete error when eof is false")
	}
}

func TestShortReadAtEOFIsTerminal(t *testing.T) {
	buf := []byte{0x01, 0x02}
	cur := 1
	_, err := U32(buf, &cur, BigEndian, true)
	if err == nil {
		t.Fatal("expected a short-read error")
	}
	if incomplete, ok := asIncomplete(err); !ok || incomplete {
		t.Fatal("expected a terminal (non-incomplete) error at eof")
	}
}

func TestF32RoundTrip(t *testing.T) {
	// 1.5f encoded big-endian.
	buf := []byte{0x3F, 0xC0, 0x00, 0x00}
	cur := 0
	v, err := F32(buf, &cur, BigEndian, true)
	if err != nil {
		t.Fatalf("F32: %v", err)
	}
	if v != 1.5 {
		t.Fatalf("F32 = %v, want 1.5", v)
	}
}

func TestSeekPattern(t *testing.T) {
	buf := []byte("xxxHELLOyyy")
	cur := 0
	if res := SeekPattern(buf, &cur, []byte("HELLO"), true); res != Found {
		t.Fatalf("SeekPattern = %v, want Found", res)
	}
	if cur != 8 {
		t.Fatalf("cursor after match = %d, want 8", cur)
	}

	cur = 0
	if res := SeekPattern(buf, &cur, []byte("NOPE"), true); res != NotFound {
		t.Fatalf("SeekPattern = %v, want NotFound", res)
	}
	if cur != 0 {
		t.Fatal("cursor moved on a miss")
	}

	cur = 0
	if res := SeekPattern(buf, &cur, []byte("NOPE"), false); res != NeedMoreData {
		t.Fatalf("SeekPattern = %v, want NeedMoreData", res)
	}
}

func TestNulString(t *testing.T) {
	buf := []byte("hello\x00world")
	cur := 0
	s, err := NulString(buf, &cur, true)
	if err != nil {
		t.Fatalf("NulString: %v", err)
	}
	if string(s) != "hello" {
		t.Fatalf("NulString = %q", s)
	}
	if cur != 6 {
		t.Fatalf("cursor = %d, want 6", cur)
	}
}

func TestBytesAndSkip(t *testing.T) {
	buf := []byte("abcdef")
	cur := 2
	b, err := Bytes(buf, &cur, 3, true)
	if err != nil || string(b) != "cde" {
		t.Fatalf("Bytes = %q, %v", b, err)
	}
	cur = 0
	if err := Skip(buf, &cur, 2, true); err != nil || cur != 2 {
		t.Fatalf("Skip: cur=%d, err=%v", cur, err)
	}
}

func asIncomplete(err error) (bool, bool) {
	e, ok := err.(*tabexerr.Error)
	if !ok {
		return false, false
	}
	return e.Incomplete, true
}
