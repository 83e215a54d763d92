package agilent

import (
	"encoding/binary"
	"testing"

	"github.com/Schaudge/tabex/rbuf"
)

// buildAgilentHeader returns a headerProbeSize (or larger, non-MS)
// prelude whose length field decodes to headerSize total bytes.
func buildAgilentHeader(headerSize int) []byte {
	buf := make([]byte, headerSize)
	raw := uint32(headerSize/256/2 + 1)
	binary.BigEndian.PutUint32(buf[264:268], raw)
	return buf
}

func TestChemstationFidReaderEndToEnd(t *testing.T) {
	data := buildAgilentHeader(minHeaderSize)
	// scan interval: 60000ms (1 minute) big-endian.
	interval := make([]byte, 4)
	binary.BigEndian.PutUint32(interval, 60000)
	data = append(data, interval...)
	for _, v := range []int32{100, -50, 200} {
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, uint32(v))
		data = append(data, b...)
	}

	rb := rbuf.FromSlice(data)
	r, err := NewChemstationFidReader(rb)
	if err != nil {
		t.Fatalf("NewChemstationFidReader: %v", err)
	}
	if got := r.Headers(); len(got) != 2 || got[0] != "time" || got[1] != "signal" {
		t.Fatalf("Headers = %v", got)
	}

	var times, signals []float64
	for {
		rec, err := r.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if rec == nil {
			break
		}
		fr := rec.(*ChemstationFidRecord)
		times = append(times, fr.time)
		signals = append(signals, fr.signal)
	}
	if len(signals) != 3 {
		t.Fatalf("got %d records, want 3", len(signals))
	}
	if signals[0] != 100 || signals[1] != -50 || signals[2] != 200 {
		t.Fatalf("signals = %v", signals)
	}
	if times[0] != 0 || times[1] != 1 || times[2] != 2 {
		t.Fatalf("times = %v", times)
	}
}

func TestChemstationMsReaderLittleEndian(t *testing.T) {
	data := buildAgilentHeaderLE(minHeaderSize)
	interval := make([]byte, 4)
	binary.LittleEndian.PutUint32(interval, 60000)
	data = append(data, interval...)
	tic := make([]byte, 4)
	binary.LittleEndian.PutUint32(tic, 12345)
	data = append(data, tic...)

	rb := rbuf.FromSlice(data)
	r, err := NewChemstationMsReader(rb)
	if err != nil {
		t.Fatalf("NewChemstationMsReader: %v", err)
	}
	rec, err := r.Next()
	if err != nil || rec == nil {
		t.Fatalf("Next: %v, %v", rec, err)
	}
	ms := rec.(*ChemstationMsRecord)
	if ms.tic != 12345 {
		t.Fatalf("tic = %v, want 12345", ms.tic)
	}

	final, err := r.Next()
	if err != nil || final != nil {
		t.Fatalf("expected clean end, got %v, %v", final, err)
	}
}

// buildAgilentHeaderLE builds a header whose length field still decodes
// big-endian (the length field is always big-endian per the spec),
// while msFormat skips the *256 multiplier.
func buildAgilentHeaderLE(headerSize int) []byte {
	buf := make([]byte, headerSize)
	raw := uint32(headerSize/2 + 1)
	binary.BigEndian.PutUint32(buf[264:268], raw)
	return buf
}
