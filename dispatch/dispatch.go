// Package dispatch sniffs a buffered source's magic bytes and selects
// the format reader that should parse it, so callers never need to name
// a format ahead of time.
package dispatch

import (
	"bytes"

	"github.com/Schaudge/tabex/agilent"
	"github.com/Schaudge/tabex/fasta"
	"github.com/Schaudge/tabex/inficon"
	"github.com/Schaudge/tabex/rbuf"
	"github.com/Schaudge/tabex/record"
	"github.com/Schaudge/tabex/tabexerr"
)

// Tag identifies a detected format.
type Tag int

const (
	// TagUnknown means Detect could not recognize the source.
	TagUnknown Tag = iota
	TagFASTA
	TagChemstationFID
	TagChemstationMWD
	TagChemstationMS
	TagChemstationUV
	TagInficon
)

// String names a Tag for diagnostics.
func (t Tag) String() string {
	switch t {
	case TagFASTA:
		return "fasta"
	case TagChemstationFID:
		return "chemstation-fid"
	case TagChemstationMWD:
		return "chemstation-mwd"
	case TagChemstationMS:
		return "chemstation-ms"
	case TagChemstationUV:
		return "chemstation-uv"
	case TagInficon:
		return "inficon"
	default:
		return "unknown"
	}
}

var inficonMagic = []byte{0x04, 0x03, 0x02, 0x01, 'S', 'P', 'A', 'H', 'B'}

// chemstation variants are distinguished by a short ASCII tag embedded
// a fixed distance into the 268-byte header probe.
const chemstationTagOffset = 4

var (
	tagFID = []byte("FID")
	tagMWD = []byte("MWD")
	tagMS  = []byte("MS ")
	tagUV  = []byte("UV ")
)

// minProbe is how many bytes Detect tries to buffer before peeking; it
// covers the longest prefix any branch compares (the 9-byte Inficon
// magic).
const minProbe = 13

// Detect peeks at rb's buffered bytes (without consuming any of them)
// and reports which format should parse the stream.
func Detect(rb *rbuf.Buffer) (Tag, error) {
	if err := rb.Reserve(minProbe); err != nil {
		if !isIncomplete(err) {
			return TagUnknown, err
		}
	}
	buf := rb.Bytes()
	if len(buf) == 0 {
		return TagUnknown, tabexerr.New("empty input, cannot detect format").AddContext(rb)
	}

	if buf[0] == '>' {
		return TagFASTA, nil
	}
	if len(buf) >= len(inficonMagic) && bytes.Equal(buf[:len(inficonMagic)], inficonMagic) {
		return TagInficon, nil
	}
	if len(buf) >= chemstationTagOffset+3 {
		tag := buf[chemstationTagOffset : chemstationTagOffset+3]
		switch {
		case bytes.Equal(tag, tagFID):
			return TagChemstationFID, nil
		case bytes.Equal(tag, tagMWD):
			return TagChemstationMWD, nil
		case bytes.Equal(tag, tagMS):
			return TagChemstationMS, nil
		case bytes.Equal(tag, tagUV):
			return TagChemstationUV, nil
		}
	}
	return TagUnknown, tabexerr.New("unrecognized input format").AddContext(rb)
}

// New builds the record.Reader for tag, reading rb's format-specific
// header as a side effect.
func New(tag Tag, rb *rbuf.Buffer) (record.Reader, error) {
	switch tag {
	case TagFASTA:
		return fasta.New(rb)
	case TagChemstationFID:
		return agilent.NewChemstationFidReader(rb)
	case TagChemstationMWD:
		return agilent.NewChemstationMwdReader(rb)
	case TagChemstationMS:
		return agilent.NewChemstationMsReader(rb)
	case TagChemstationUV:
		return agilent.NewChemstationUvReader(rb)
	case TagInficon:
		return inficon.New(rb)
	default:
		return nil, tabexerr.New("unrecognized format tag").AddContext(rb)
	}
}

func isIncomplete(err error) bool {
	e, ok := err.(*tabexerr.Error)
	return ok && e.Incomplete
}
