package diagnosis

import (
	"strconv"
	"strings"
	"time"

	"mfgcli/internal/mapping"
	"mfgcli/internal/table"
)

// CoerceNumeric parses every cell of a column to a real number. A cell
// that cannot be parsed becomes unavailable for that row only; it does
// not invalidate the rest of the column.
func CoerceNumeric(t *table.Table, column string) []Value {
	cells := t.Column(column)
	values := make([]Value, len(cells))
	for i, cell := range cells {
		values[i] = parseNumber(cell)
	}
	return values
}

// parseNumber parses a single cell, tolerating surrounding whitespace,
// thousands separators, and a trailing percent sign as spreadsheets
// commonly format them.
func parseNumber(cell string) Value {
	s := strings.TrimSpace(cell)
	if s == "" {
		return None()
	}

	percent := strings.HasSuffix(s, "%")
	if percent {
		s = strings.TrimSuffix(s, "%")
	}
	s = strings.ReplaceAll(s, ",", "")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return None()
	}
	if percent {
		f /= 100
	}
	return Some(f)
}

// SumMapped sums the coerced values of the column mapped to role,
// treating unparseable cells as zero. Unavailable when the role is
// unset or the mapped column does not exist.
func SumMapped(t *table.Table, m mapping.Mapping, role mapping.Role) Value {
	col, ok := mapping.Resolve(t, m, role)
	if !ok {
		return None()
	}

	sum := 0.0
	for _, v := range CoerceNumeric(t, col) {
		if f, ok := v.Get(); ok {
			sum += f
		}
	}
	return Some(sum)
}

// MeanMapped averages the coerced values of the column mapped to role
// over parseable cells only. Unavailable when the role is unset or no
// cell parses.
func MeanMapped(t *table.Table, m mapping.Mapping, role mapping.Role) Value {
	col, ok := mapping.Resolve(t, m, role)
	if !ok {
		return None()
	}

	sum := 0.0
	count := 0
	for _, v := range CoerceNumeric(t, col) {
		if f, ok := v.Get(); ok {
			sum += f
			count++
		}
	}
	if count == 0 {
		return None()
	}
	return Some(sum / float64(count))
}

// SafeRatio divides numerator by denominator. Unavailable when either
// operand is unavailable or the denominator is exactly zero; a zero
// denominator is never an error and never a sentinel infinity.
func SafeRatio(numerator, denominator Value) Value {
	n, ok := numerator.Get()
	if !ok {
		return None()
	}
	d, ok := denominator.Get()
	if !ok || d == 0 {
		return None()
	}
	return Some(n / d)
}

// dateLayouts are tried in order when coercing date cells. The set
// covers ISO dates and the slash and compact variants seen in
// production and delivery exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"20060102",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// parseDate parses a single date cell, returning the zero time and
// false when no layout matches.
func parseDate(cell string) (time.Time, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
