package agilent

import (
	"strconv"

	"github.com/Schaudge/tabex/record"
)

// formatFloat renders a scan axis/signal value the way every variant's
// WriteField needs it: shortest round-trippable decimal, no exponent
// noise for the common case of small chromatography intensities.
func formatFloat(v float64) []byte {
	return strconv.AppendFloat(nil, v, 'f', -1, 64)
}

// writeFloat is the shared WriteField body for every numeric field
// across the FID/MWD/MS/UV variants.
func writeFloat(v float64, w record.FieldWriter) error {
	return w(formatFloat(v))
}
