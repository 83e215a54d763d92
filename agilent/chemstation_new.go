package agilent

import (
	"github.com/Schaudge/tabex/extract"
	"github.com/Schaudge/tabex/record"
)

// Readers for the newer Chemstation UV file layout: a little-endian
// wavelength table read once, then interleaved per-scan intensities.

var uvHeaders = []string{"time", "wavelength", "signal"}

// ChemstationUvReader decodes a Chemstation-new UV diode-array trace.
type ChemstationUvReader struct {
	rb             buffer
	scanIntervalMs uint32
	wavelengths    []uint32
	scanIndex      uint32
	wlIndex        int
	started        bool
	poison         error
}

// NewChemstationUvReader constructs a reader, consuming the shared
// Agilent header prelude; the UV wavelength-table sub-header is read on
// the first call to Next.
func NewChemstationUvReader(rb buffer) (*ChemstationUvReader, error) {
	if _, err := readHeader(rb, false); err != nil {
		return nil, err
	}
	return &ChemstationUvReader{rb: rb}, nil
}

func (r *ChemstationUvReader) Headers() []string { return uvHeaders }

func (r *ChemstationUvReader) init() error {
	if err := r.rb.Reserve(4); err != nil {
		return err
	}
	cur := 0
	nWav, err := extract.U32(r.rb.Bytes(), &cur, extract.LittleEndian, r.rb.EOF())
	if err != nil {
		return err
	}
	if err := r.rb.Reserve(cur + int(nWav)*4 + 4); err != nil {
		return err
	}
	wls := make([]uint32, nWav)
	for i := range wls {
		wls[i], err = extract.U32(r.rb.Bytes(), &cur, extract.LittleEndian, r.rb.EOF())
		if err != nil {
			return err
		}
	}
	interval, err := extract.U32(r.rb.Bytes(), &cur, extract.LittleEndian, r.rb.EOF())
	if err != nil {
		return err
	}
	r.rb.Consume(cur)
	r.wavelengths = wls
	r.scanIntervalMs = interval
	r.started = true
	return nil
}

// ChemstationUvRecord is a single (time, wavelength, signal) point.
type ChemstationUvRecord struct {
	time, wavelength, signal float64
}

func (rec *ChemstationUvRecord) Size() int { return 3 }
func (rec *ChemstationUvRecord) WriteField(i int, w record.FieldWriter) error {
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

func (r *ChemstationUvReader) Next() (record.Record, error) {
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

func (r *ChemstationUvReader) next() (record.Record, error) {
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
	signal, err := extract.I32(r.rb.Bytes(), &cur, extract.LittleEndian, r.rb.EOF())
	if err != nil {
		return nil, err
	}
	r.rb.Consume(cur)
	rec := &ChemstationUvRecord{
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
