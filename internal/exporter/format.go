package exporter

import (
	"fmt"
	"strconv"

	"mfgcli/internal/diagnosis"
)

// formatFloat formats a float64 value for CSV output with up to 4
// decimal places, trimming trailing zeros.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatValue renders an optional value, empty when unavailable.
func formatValue(v diagnosis.Value) string {
	if f, ok := v.Get(); ok {
		return fmt.Sprintf("%.4f", f)
	}
	return ""
}

// formatScore renders a score, empty when unavailable.
func formatScore(s diagnosis.Score) string {
	if points, ok := s.Points(); ok {
		return strconv.Itoa(points)
	}
	return ""
}
