// Package inficon decodes Inficon Hapsite mass-spectrometer data: a
// two-phase state machine that first locates and decodes the per-segment
// m/z table, then streams (time, m/z, intensity) records out of the
// scan-data section.
package inficon

import (
	"github.com/Schaudge/tabex/extract"
	"github.com/Schaudge/tabex/record"
	"github.com/Schaudge/tabex/tabexerr"
)

const maxSegments = 10000

var mzHeaderPattern = []byte{
	0xFF, 0xFF, 0xFF, 0xFF,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xF6, 0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00,
}

var scanHeaderPattern = []byte("\xFF\xFF\xFF\xFFHapsGPIR")

var headers = []string{"time", "mz", "intensity"}

// buffer is the minimal surface the inficon state machine needs from
// rbuf.Buffer.
type buffer interface {
	Reserve(n int) error
	Refill() error
	Bytes() []byte
	Window() []byte
	EOF() bool
	Consume(k int) []byte
	Consumed() int
	ReaderPos() int64
	RecordPos() uint64
}

// Reader decodes an Inficon Hapsite scan stream.
type Reader struct {
	rb buffer

	mzSegments [][]float64
	dataLeft   uint64

	curTime      float64
	curMz        float64
	curIntensity float64
	curSegment   int
	mzsLeft      int

	poison error
}

// New constructs a Reader, parsing the segment table and scan-data
// section header immediately (phase 1 of the state machine).
func New(rb buffer) (*Reader, error) {
	r := &Reader{rb: rb}
	if err := r.parseHeader(); err != nil {
		return nil, err
	}
	return r, nil
}

// Headers returns {"time", "mz", "intensity"}.
func (r *Reader) Headers() []string { return headers }

func (r *Reader) parseHeader() error {
	if !r.seekRequired(mzHeaderPattern) {
		return tabexerr.New("Could not find m/z header list").AddContext(r.rb)
	}
	cur := 0
	buf, err := r.reserveSlice(&cur, 148+4)
	if err != nil {
		return err
	}
	cur += 148
	nSegments, err := extract.U32(buf, &cur, extract.LittleEndian, r.rb.EOF())
	if err != nil {
		return err
	}
	if nSegments > maxSegments {
		return tabexerr.New("Inficon file has too many segments").AddContext(r.rb)
	}

	segments := make([][]float64, nSegments)
	for s := range segments {
		buf, err = r.reserveSlice(&cur, 96+4)
		if err != nil {
			return err
		}
		cur += 96
		nMzs, err := extract.U32(buf, &cur, extract.LittleEndian, r.rb.EOF())
		if err != nil {
			return err
		}
		var mzs []float64
		for i := uint32(0); i < nMzs; i++ {
			buf, err = r.reserveSlice(&cur, 8)
			if err != nil {
				return err
			}
			startMz, err := extract.U32(buf, &cur, extract.LittleEndian, r.rb.EOF())
			if err != nil {
				return err
			}
			endMz, err := extract.U32(buf, &cur, extract.LittleEndian, r.rb.EOF())
			if err != nil {
				return err
			}
			if startMz >= endMz || endMz >= 4_000_000_000 {
				return tabexerr.New("m/z range is too big or invalid").AddContext(r.rb)
			}
			buf, err = r.reserveSlice(&cur, 16+4)
			if err != nil {
				return err
			}
			cur += 16
			iType, err := extract.U32(buf, &cur, extract.LittleEndian, r.rb.EOF())
			if err != nil {
				return err
			}
			buf, err = r.reserveSlice(&cur, 4)
			if err != nil {
				return err
			}
			cur += 4
			if iType == 0 {
				mzs = append(mzs, float64(startMz)/100.0)
			} else {
				for mz := startMz; mz < endMz+1; mz += 100 {
					mzs = append(mzs, float64(mz)/100.0)
				}
			}
		}
		segments[s] = mzs
	}

	r.rb.Consume(cur)
	cur = 0
	if !r.seekRequired(scanHeaderPattern) {
		return tabexerr.New("Could not find start of scan data").AddContext(r.rb)
	}
	buf, err = r.reserveSlice(&cur, 180+4)
	if err != nil {
		return err
	}
	cur += 180
	dataLength, err := extract.U32(buf, &cur, extract.LittleEndian, r.rb.EOF())
	if err != nil {
		return err
	}
	buf, err = r.reserveSlice(&cur, 8+8)
	if err != nil {
		return err
	}
	cur += 8
	marker, err := extract.Bytes(buf, &cur, 8, r.rb.EOF())
	if err != nil {
		return err
	}
	if string(marker) != "HapsScan" {
		return tabexerr.New("Data header was malformed").AddContext(r.rb)
	}
	if _, err := r.reserveSlice(&cur, 56); err != nil {
		return err
	}
	cur += 56

	r.rb.Consume(cur)
	r.mzSegments = segments
	r.dataLeft = uint64(dataLength)
	return nil
}

// reserveSlice grows *cur's reservation by n bytes beyond its current
// value and returns the buffer's full unconsumed slice (valid for
// indices up to *cur+n).
func (r *Reader) reserveSlice(cur *int, n int) ([]byte, error) {
	if err := r.rb.Reserve(*cur + n); err != nil {
		return nil, err
	}
	return r.rb.Bytes(), nil
}

// seekRequired repeatedly refills until pattern is found or the source
// is exhausted, returning false once eof makes the pattern definitively
// absent or when a refill fails.
func (r *Reader) seekRequired(pattern []byte) bool {
	for {
		cur := 0
		ok, needMore := extract.SeekPatternOpt(r.rb.Bytes(), &cur, pattern, r.rb.EOF())
		if ok {
			r.rb.Consume(cur)
			return true
		}
		if !needMore {
			return false
		}
		if err := r.rb.Refill(); err != nil {
			return false
		}
	}
}

// Record is a single (time, m/z, intensity) scan point.
type Record struct {
	time, mz, intensity float64
}

// Size returns 3.
func (rec *Record) Size() int { return 3 }

// WriteField streams field i.
func (rec *Record) WriteField(i int, w record.FieldWriter) error {
	switch i {
	case 0:
		return w(formatFloat(rec.time))
	case 1:
		return w(formatFloat(rec.mz))
	case 2:
		return w(formatFloat(rec.intensity))
	default:
		panic("inficon: field index out of range")
	}
}

// Next returns the next scan record, or (nil, nil) once dataLeft has
// been fully accounted for. Per spec, zero dataLeft is end-of-stream;
// there is no partial-burst "come back later" state once phase 1 has
// completed.
func (r *Reader) Next() (record.Record, error) {
	if r.poison != nil {
		return nil, r.poison
	}
	if r.dataLeft == 0 {
		return nil, nil
	}
	rec, err := r.next()
	if err != nil {
		r.poison = err
	}
	return rec, err
}

func (r *Reader) next() (record.Record, error) {
	cur := 0
	if r.mzsLeft == 0 {
		if err := r.rb.Reserve(20); err != nil {
			return nil, err
		}
		buf := r.rb.Bytes()
		if _, err := extract.U32(buf, &cur, extract.LittleEndian, r.rb.EOF()); err != nil { // record index, discarded
			return nil, err
		}
		timeRaw, err := extract.I32(buf, &cur, extract.LittleEndian, r.rb.EOF())
		if err != nil {
			return nil, err
		}
		if _, err := extract.U16(buf, &cur, extract.LittleEndian, r.rb.EOF()); err != nil { // constant
			return nil, err
		}
		nMzsInBurst, err := extract.U16(buf, &cur, extract.LittleEndian, r.rb.EOF())
		if err != nil {
			return nil, err
		}
		if _, err := extract.U16(buf, &cur, extract.LittleEndian, r.rb.EOF()); err != nil { // constant 0xFFFF
			return nil, err
		}
		segRaw, err := extract.U16(buf, &cur, extract.LittleEndian, r.rb.EOF())
		if err != nil {
			return nil, err
		}
		segment := int(segRaw >> 4)
		if segment >= len(r.mzSegments) {
			return nil, tabexerr.Newf("Invalid segment number (%d) specified", segment).AddContext(r.rb)
		}
		if int(nMzsInBurst) != len(r.mzSegments[segment]) {
			return nil, tabexerr.Newf(
				"Number of intensities (%d) doesn't match number of mzs (%d)",
				nMzsInBurst, len(r.mzSegments[segment])).AddContext(r.rb)
		}
		r.curTime = float64(timeRaw) / 60000.0
		r.curSegment = segment
		r.mzsLeft = int(nMzsInBurst)
	} else {
		if err := r.rb.Reserve(4); err != nil {
			return nil, err
		}
	}

	buf := r.rb.Bytes()
	intensity, err := extract.F32(buf, &cur, extract.LittleEndian, r.rb.EOF())
	if err != nil {
		return nil, err
	}
	segMzs := r.mzSegments[r.curSegment]
	r.curMz = segMzs[len(segMzs)-r.mzsLeft]
	r.curIntensity = float64(intensity)
	r.mzsLeft--

	if uint64(cur) > r.dataLeft {
		return nil, tabexerr.New("Inficon scan burst overran declared data section").AddContext(r.rb)
	}
	r.dataLeft -= uint64(cur)
	r.rb.Consume(cur)

	return &Record{time: r.curTime, mz: r.curMz, intensity: r.curIntensity}, nil
}
