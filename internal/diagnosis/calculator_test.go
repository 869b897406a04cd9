package diagnosis

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mfgcli/internal/mapping"
	"mfgcli/internal/table"
)

const sampleCSV = `order,revenue,cost_of_goods,overheads,wages,produced,good,defect,item,line,reason,due,shipped,stock,unit_cost
1,5000,3500,300,400,600,592,8,WIDGET-A,L1,scratch,2024-01-10,2024-01-09,100,5
2,5000,3200,300,400,400,396,4,WIDGET-B,L2,dent,2024-01-10,2024-01-15,50,10
`

func sampleMapping() mapping.Mapping {
	return mapping.Mapping{
		mapping.RoleSales:        "revenue",
		mapping.RoleCOGS:         "cost_of_goods",
		mapping.RoleFixedCost:    "overheads",
		mapping.RoleLaborCost:    "wages",
		mapping.RoleProducedQty:  "produced",
		mapping.RoleGoodQty:      "good",
		mapping.RoleDefectQty:    "defect",
		mapping.RoleItem:         "item",
		mapping.RoleLine:         "line",
		mapping.RoleDefectReason: "reason",
		mapping.RoleDueDate:      "due",
		mapping.RoleShipDate:     "shipped",
		mapping.RoleInventoryQty: "stock",
		mapping.RoleUnitCost:     "unit_cost",
	}
}

func TestCalculatorRunEndToEnd(t *testing.T) {
	tbl, err := table.ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, sampleMapping().Validate(tbl))

	report := NewCalculator(nil).Run(tbl, sampleMapping())

	// Sales 10000, COGS 6700 -> gross margin 0.33.
	f, ok := report.KPIs[KPIGrossMargin].Get()
	require.True(t, ok)
	assert.InDelta(t, 0.33, f, 1e-12)

	// Operating profit 10000-6700-600-800 = 1900 -> 0.19.
	f, ok = report.KPIs[KPIOperatingMargin].Get()
	require.True(t, ok)
	assert.InDelta(t, 0.19, f, 1e-12)

	// 12 defects over 1000 produced.
	f, ok = report.KPIs[KPIDefectRate].Get()
	require.True(t, ok)
	assert.InDelta(t, 0.012, f, 1e-12)
	assert.Equal(t, ScoreOf(ScoreWarn), report.Scores[KPIDefectRate])

	// One of two orders shipped on time.
	f, ok = report.KPIs[KPIOnTimeRate].Get()
	require.True(t, ok)
	assert.InDelta(t, 0.5, f, 1e-12)

	// Inventory 1000 over sales 10000 -> 0.10 -> score 100.
	f, ok = report.KPIs[KPIInventoryToSales].Get()
	require.True(t, ok)
	assert.InDelta(t, 0.10, f, 1e-12)
	assert.Equal(t, ScoreOf(ScoreGood), report.Scores[KPIInventoryToSales])

	// Every KPI scored, so the composite is available and bounded.
	f, ok = report.Composite.Get()
	require.True(t, ok)
	assert.Greater(t, f, 40.0)
	assert.Less(t, f, 100.0)

	assert.Len(t, report.Breakdowns, 3)
	for _, domain := range Domains {
		assert.NotEmpty(t, report.Tips[domain])
	}

	assert.Equal(t, SignalCaution, report.Signals[KPIDefectRate])
	assert.Equal(t, SignalGood, report.Signals[KPIInventoryToSales])
}

func TestCalculatorRunEmptyMapping(t *testing.T) {
	tbl, err := table.ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	report := NewCalculator(nil).Run(tbl, mapping.Mapping{})

	for _, kpi := range KPIs {
		assert.False(t, report.KPIs[kpi].Available(), "%s must be unavailable", kpi)
		assert.Equal(t, SignalNeutral, report.Signals[kpi])
	}
	assert.False(t, report.Composite.Available(),
		"composite is unavailable iff every score is unavailable")
	assert.Empty(t, report.Breakdowns)
	for _, domain := range Domains {
		require.Len(t, report.Tips[domain], 1, "fallback tip per domain")
	}
}

func TestReportJSONRoundTrip(t *testing.T) {
	tbl, err := table.ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	report := NewCalculator(nil).Run(tbl, sampleMapping())

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"composite"`)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.KPIs[KPIDefectRate], decoded.KPIs[KPIDefectRate])
	assert.Equal(t, report.Scores[KPIDefectRate], decoded.Scores[KPIDefectRate])
}

func TestValueJSONNull(t *testing.T) {
	data, err := json.Marshal(None())
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	var v Value
	require.NoError(t, json.Unmarshal([]byte("null"), &v))
	assert.False(t, v.Available())

	data, err = json.Marshal(map[KPI]Score{KPIYieldRate: NoScore()})
	require.NoError(t, err)
	assert.Equal(t, `{"yield_rate":null}`, string(data))
}
