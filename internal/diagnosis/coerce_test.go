package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mfgcli/internal/mapping"
	"mfgcli/internal/table"
)

func newTable(t *testing.T, columns []string, rows ...table.Row) *table.Table {
	t.Helper()
	tbl, err := table.New(columns, rows)
	require.NoError(t, err)
	return tbl
}

func TestCoerceNumeric(t *testing.T) {
	tbl := newTable(t, []string{"qty"},
		table.Row{"qty": "100"},
		table.Row{"qty": "1,250.5"},
		table.Row{"qty": "12%"},
		table.Row{"qty": "n/a"},
		table.Row{"qty": ""},
	)

	values := CoerceNumeric(tbl, "qty")
	require.Len(t, values, 5)

	f, ok := values[0].Get()
	assert.True(t, ok)
	assert.Equal(t, 100.0, f)

	f, ok = values[1].Get()
	assert.True(t, ok)
	assert.Equal(t, 1250.5, f)

	f, ok = values[2].Get()
	assert.True(t, ok)
	assert.InDelta(t, 0.12, f, 1e-12)

	assert.False(t, values[3].Available(), "unparseable cell must become unavailable, not zero")
	assert.False(t, values[4].Available(), "empty cell must become unavailable")
}

func TestSumMapped(t *testing.T) {
	tbl := newTable(t, []string{"revenue"},
		table.Row{"revenue": "1000"},
		table.Row{"revenue": "abc"},
		table.Row{"revenue": "500"},
	)

	tests := []struct {
		name     string
		m        mapping.Mapping
		expected Value
	}{
		{
			name:     "unset_role_is_unavailable",
			m:        mapping.Mapping{},
			expected: None(),
		},
		{
			name:     "mapped_to_missing_column_is_unavailable",
			m:        mapping.Mapping{mapping.RoleSales: "sales_amount"},
			expected: None(),
		},
		{
			name:     "unparseable_cells_count_as_zero",
			m:        mapping.Mapping{mapping.RoleSales: "revenue"},
			expected: Some(1500),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SumMapped(tbl, tt.m, mapping.RoleSales))
		})
	}
}

func TestMeanMapped(t *testing.T) {
	tbl := newTable(t, []string{"price", "notes"},
		table.Row{"price": "10", "notes": "x"},
		table.Row{"price": "bad", "notes": "y"},
		table.Row{"price": "20", "notes": "z"},
	)

	// Mean over parseable cells only: (10+20)/2, not /3.
	v := MeanMapped(tbl, mapping.Mapping{mapping.RoleUnitPrice: "price"}, mapping.RoleUnitPrice)
	f, ok := v.Get()
	require.True(t, ok)
	assert.Equal(t, 15.0, f)

	// Column with zero parseable cells is unavailable, not zero.
	v = MeanMapped(tbl, mapping.Mapping{mapping.RoleUnitPrice: "notes"}, mapping.RoleUnitPrice)
	assert.False(t, v.Available())

	v = MeanMapped(tbl, mapping.Mapping{}, mapping.RoleUnitPrice)
	assert.False(t, v.Available())
}

func TestSafeRatio(t *testing.T) {
	tests := []struct {
		name     string
		num, den Value
		expected Value
	}{
		{"simple_division", Some(12), Some(1000), Some(0.012)},
		{"zero_denominator", Some(5), Some(0), None()},
		{"zero_over_zero", Some(0), Some(0), None()},
		{"unavailable_numerator", None(), Some(10), None()},
		{"unavailable_denominator", Some(10), None(), None()},
		{"zero_numerator_is_real_zero", Some(0), Some(10), Some(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SafeRatio(tt.num, tt.den))
		})
	}
}

func TestParseDateLayouts(t *testing.T) {
	for _, cell := range []string{"2024-01-10", "2024/01/10", "2024.01.10", "20240110"} {
		ts, ok := parseDate(cell)
		require.True(t, ok, "layout %s", cell)
		assert.Equal(t, 2024, ts.Year())
		assert.Equal(t, 10, ts.Day())
	}

	_, ok := parseDate("not a date")
	assert.False(t, ok)
	_, ok = parseDate("")
	assert.False(t, ok)
}
