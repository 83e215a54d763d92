package agilent

import (
	"github.com/Schaudge/tabex/extract"
	"github.com/Schaudge/tabex/record"
	"github.com/Schaudge/tabex/tabexerr"
)

// --- FID -------------------------------------------------------------

// fidHeaders are fixed for the lifetime of a ChemstationFidReader.
var fidHeaders = []string{"time", "signal"}

// ChemstationFidReader decodes an Agilent FID (flame ionization
// detector) trace: one big-endian i32 intensity per scan, with a
// per-file scan interval read once immediately after the shared header.
type ChemstationFidReader struct {
	rb            buffer
	scanIntervalMs uint32
	scanIndex      uint32
	poison         error
	started        bool
}

// NewChemstationFidReader constructs a reader, consuming the shared
// Agilent header prelude; the FID scan-interval sub-header is read on
// the first call to Next.
func NewChemstationFidReader(rb buffer) (*ChemstationFidReader, error) {
	if _, err := readHeader(rb, false); err != nil {
		return nil, err
	}
	r := &ChemstationFidReader{rb: rb}
	return r, nil
}

func (r *ChemstationFidReader) Headers() []string { return fidHeaders }

func (r *ChemstationFidReader) init() error {
	if err := r.rb.Reserve(4); err != nil {
		return err
	}
	cur := 0
	v, err := extract.U32(r.rb.Bytes(), &cur, extract.BigEndian, r.rb.EOF())
	if err != nil {
		return err
	}
	r.rb.Consume(cur)
	r.scanIntervalMs = v
	r.started = true
	return nil
}

// ChemstationFidRecord is a single (time, signal) point.
type ChemstationFidRecord struct {
	time, signal float64
}

func (rec *ChemstationFidRecord) Size() int { return 2 }
func (rec *ChemstationFidRecord) WriteField(i int, w record.FieldWriter) error {
	switch i {
	case 0:
		return writeFloat(rec.time, w)
	case 1:
		return writeFloat(rec.signal, w)
	default:
		panic("agilent: field index out of range")
	}
}

func (r *ChemstationFidReader) Next() (record.Record, error) {
	if r.poison != nil {
		return nil, r.poison
	}
	if !r.started {
		if err := r.init(); err != nil {
			r.poison = err
			return nil, err
		}
	}
	rec, err := r.next()
	if err != nil {
		r.poison = err
		return nil, err
	}
	return rec, nil
}

func (r *ChemstationFidReader) next() (record.Record, error) {
	if r.rb.EOF() && len(r.rb.Bytes()) == 0 {
		return nil, nil
	}
	if err := r.rb.Reserve(4); err != nil {
		if isIncomplete(err) && len(r.rb.Bytes()) == 0 {
			return nil, nil
		}
		return nil, err
	}
	cur := 0
	signal, err := extract.I32(r.rb.Bytes(), &cur, extract.BigEndian, r.rb.EOF())
	if err != nil {
		return nil, err
	}
	r.rb.Consume(cur)
	t := float64(r.scanIndex) * float64(r.scanIntervalMs) / 60000.0
	r.scanIndex++
	return &ChemstationFidRecord{time: t, signal: float64(signal)}, nil
}

// --- MWD ---------------------------------------------------------------

var mwdHeaders = []string{"time", "wavelength", "signal"}

// ChemstationMwdReader decodes an Agilent MWD (multi-wavelength
// detector) trace: a per-file wavelength table, then one big-endian i32
// intensity per (scan, wavelength) pair.
type ChemstationMwdReader struct {
	rb             buffer
	scanIntervalMs uint32
	wavelengths    []uint32
	scanIndex      uint32
	wlIndex        int
	started        bool
	poison         error
}

func NewChemstationMwdReader(rb buffer) (*ChemstationMwdReader, error) {
	if _, err := readHeader(rb, false); err != nil {
		return nil, err
	}
	return &ChemstationMwdReader{rb: rb}, nil
}

func (r *ChemstationMwdReader) Headers() []string { return mwdHeaders }

func (r *ChemstationMwdReader) init() error {
	if err := r.rb.Reserve(6); err != nil {
		return err
	}
	cur := 0
	interval, err := extract.U32(r.rb.Bytes(), &cur, extract.BigEndian, r.rb.EOF())
	if err != nil {
		return err
	}
	nWav, err := extract.U16(r.rb.Bytes(), &cur, extract.BigEndian, r.rb.EOF())
	if err != nil {
		return err
	}
	if err := r.rb.Reserve(cur + int(nWav)*4); err != nil {
		return err
	}
	wls := make([]uint32, nWav)
	for i := range wls {
		wls[i], err = extract.U32(r.rb.Bytes(), &cur, extract.BigEndian, r.rb.EOF())
		if err != nil {
			return err
		}
	}
	r.rb.Consume(cur)
	r.scanIntervalMs = interval
	r.wavelengths = wls
	r.started = true
	return nil
}

// ChemstationMwdRecord is a single (time, wavelength, signal) point.
type ChemstationMwdRecord struct {
	time, wavelength, signal float64
}

func (rec *ChemstationMwdRecord) Size() int { return 3 }
func (rec *ChemstationMwdRecord) WriteField(i int, w record.FieldWriter) error {
	switch i {
	case 0:
		return writeFloat(rec.time, w)
	case 1:
		return writeFloat(rec.wavelength, w)
	case 2:
		return writeFloat(rec.signal, w)
	default:
		panic("agilent: field index out of range")
	}
}

func (r *ChemstationMwdReader) Next() (record.Record, error) {
	if r.poison != nil {
		return nil, r.poison
	}
	if !r.started {
		if err := r.init(); err != nil {
			r.poison = err
			return nil, err
		}
	}
	if len(r.wavelengths) == 0 {
		return nil, nil
	}
	rec, err := r.next()
	if err != nil {
		r.poison = err
		return nil, err
	}
	return rec, nil
}

func (r *ChemstationMwdReader) next() (record.Record, error) {
	if r.rb.EOF() && len(r.rb.Bytes()) == 0 && r.wlIndex == 0 {
		return nil, nil
	}
	if err := r.rb.Reserve(4); err != nil {
		if isIncomplete(err) && len(r.rb.Bytes()) == 0 && r.wlIndex == 0 {
			return nil, nil
		}
		return nil, err
	}
	cur := 0
	signal, err := extract.I32(r.rb.Bytes(), &cur, extract.BigEndian, r.rb.EOF())
	if err != nil {
		return nil, err
	}
	r.rb.Consume(cur)
	rec := &ChemstationMwdRecord{
		time:       float64(r.scanIndex) * float64(r.scanIntervalMs) / 60000.0,
		wavelength: float64(r.wavelengths[r.wlIndex]),
		signal:     float64(signal),
	}
	r.wlIndex++
	if r.wlIndex == len(r.wavelengths) {
		r.wlIndex = 0
		r.scanIndex++
	}
	return rec, nil
}

// --- MS ------------------------------------------------------------

var msHeaders = []string{"time", "tic"}

// ChemstationMsReader decodes an Agilent MS total-ion-count trace:
// little-endian, header-size multiplier of 1 (the msFormat flag).
type ChemstationMsReader struct {
	rb             buffer
	scanIntervalMs uint32
	scanIndex      uint32
	started        bool
	poison         error
}

func NewChemstationMsReader(rb buffer) (*ChemstationMsReader, error) {
	if _, err := readHeader(rb, true); err != nil {
		return nil, err
	}
	return &ChemstationMsReader{rb: rb}, nil
}

func (r *ChemstationMsReader) Headers() []string { return msHeaders }

func (r *ChemstationMsReader) init() error {
	if err := r.rb.Reserve(4); err != nil {
		return err
	}
	cur := 0
	v, err := extract.U32(r.rb.Bytes(), &cur, extract.LittleEndian, r.rb.EOF())
	if err != nil {
		return err
	}
	r.rb.Consume(cur)
	r.scanIntervalMs = v
	r.started = true
	return nil
}

// ChemstationMsRecord is a single (time, total ion count) point.
type ChemstationMsRecord struct {
	time, tic float64
}

func (rec *ChemstationMsRecord) Size() int { return 2 }
func (rec *ChemstationMsRecord) WriteField(i int, w record.FieldWriter) error {
	switch i {
	case 0:
		return writeFloat(rec.time, w)
	case 1:
		return writeFloat(rec.tic, w)
	default:
		panic("agilent: field index out of range")
	}
}

func (r *ChemstationMsReader) Next() (record.Record, error) {
	if r.poison != nil {
		return nil, r.poison
	}
	if !r.started {
		if err := r.init(); err != nil {
			r.poison = err
			return nil, err
		}
	}
	rec, err := r.next()
	if err != nil {
		r.poison = err
		return nil, err
	}
	return rec, nil
}

func (r *ChemstationMsReader) next() (record.Record, error) {
	if r.rb.EOF() && len(r.rb.Bytes()) == 0 {
		return nil, nil
	}
	if err := r.rb.Reserve(4); err != nil {
		if isIncomplete(err) && len(r.rb.Bytes()) == 0 {
			return nil, nil
		}
		return nil, err
	}
	cur := 0
	tic, err := extract.U32(r.rb.Bytes(), &cur, extract.LittleEndian, r.rb.EOF())
	if err != nil {
		return nil, err
	}
	r.rb.Consume(cur)
	t := float64(r.scanIndex) * float64(r.scanIntervalMs) / 60000.0
	r.scanIndex++
	return &ChemstationMsRecord{time: t, tic: float64(tic)}, nil
}

func isIncomplete(err error) bool {
	e, ok := err.(*tabexerr.Error)
	return ok && e.Incomplete
}
