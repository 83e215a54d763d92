package inficon

import "strconv"

// formatFloat renders a time/m/z/intensity value the way WriteField
// needs it: shortest round-trippable decimal, no exponent noise for the
// common case of small scan values.
func formatFloat(v float64) []byte {
	return strconv.AppendFloat(nil, v, 'f', -1, 64)
}
