package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mfgcli/internal/diagnosis"
)

func sampleReport() *diagnosis.Report {
	return &diagnosis.Report{
		GeneratedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Sales:          diagnosis.Some(100000),
		InventoryValue: diagnosis.Some(12000),
		KPIs: map[diagnosis.KPI]diagnosis.Value{
			diagnosis.KPIGrossMargin: diagnosis.Some(0.3),
			diagnosis.KPIDefectRate:  diagnosis.Some(0.012),
			diagnosis.KPIYieldRate:   diagnosis.None(),
		},
		Scores: map[diagnosis.KPI]diagnosis.Score{
			diagnosis.KPIGrossMargin: diagnosis.ScoreOf(100),
			diagnosis.KPIDefectRate:  diagnosis.ScoreOf(70),
			diagnosis.KPIYieldRate:   diagnosis.NoScore(),
		},
		Signals: map[diagnosis.KPI]diagnosis.Signal{
			diagnosis.KPIGrossMargin: diagnosis.SignalGood,
			diagnosis.KPIDefectRate:  diagnosis.SignalCaution,
			diagnosis.KPIYieldRate:   diagnosis.SignalNeutral,
		},
		Composite: diagnosis.Some(86.5),
		Tips: map[diagnosis.Domain][]string{
			diagnosis.DomainQuality: {"review inspection coverage on the worst item"},
		},
		Breakdowns: []diagnosis.Breakdown{
			{
				Kind: diagnosis.BreakdownDefectRateByItem,
				Rows: []diagnosis.BreakdownRow{
					{Key: "A", Numerator: 5, Denominator: 150, Ratio: diagnosis.Some(5.0 / 150)},
					{Key: "B", Numerator: 2, Denominator: 100, Ratio: diagnosis.Some(0.02)},
				},
			},
		},
	}
}

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Strip the UTF-8 BOM written for Excel.
	content := strings.TrimPrefix(string(data), "\xef\xbb\xbf")
	records, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExportScorecard(t *testing.T) {
	dir := t.TempDir()
	exp := NewReportExporter(dir)

	err := exp.ExportScorecard(sampleReport(), "scorecard.csv")
	require.NoError(t, err)

	records := readCSVFile(t, filepath.Join(dir, "scorecard.csv"))
	require.Len(t, records, len(diagnosis.KPIs)+2) // header + KPIs + composite

	assert.Equal(t, []string{"kpi", "label", "value", "score", "signal"}, records[0])
	assert.Equal(t, []string{"gross_margin", "Gross Margin", "0.3000", "100", "good"}, records[1])

	// Unavailable KPIs render as empty cells with a neutral signal.
	yieldRow := records[4]
	assert.Equal(t, "yield_rate", yieldRow[0])
	assert.Empty(t, yieldRow[2])
	assert.Empty(t, yieldRow[3])
	assert.Equal(t, "neutral", yieldRow[4])

	composite := records[len(records)-1]
	assert.Equal(t, "composite", composite[0])
	assert.Equal(t, "86.5000", composite[2])
}

func TestExportTips(t *testing.T) {
	dir := t.TempDir()
	exp := NewReportExporter(dir)

	err := exp.ExportTips(sampleReport(), "tips.csv")
	require.NoError(t, err)

	records := readCSVFile(t, filepath.Join(dir, "tips.csv"))
	require.Len(t, records, 2)
	assert.Equal(t, []string{"quality", "review inspection coverage on the worst item"}, records[1])
}

func TestExportReport_WritesBreakdownFiles(t *testing.T) {
	dir := t.TempDir()
	exp := NewReportExporter(dir)

	err := exp.ExportReport(sampleReport(), "plant_a")
	require.NoError(t, err)

	for _, name := range []string{
		"plant_a_scorecard.csv",
		"plant_a_tips.csv",
		"plant_a_defect_rate_by_item.csv",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	records := readCSVFile(t, filepath.Join(dir, "plant_a_defect_rate_by_item.csv"))
	require.Len(t, records, 3)
	assert.Equal(t, []string{"key", "numerator", "denominator", "ratio"}, records[0])
	assert.Equal(t, "A", records[1][0])
	assert.Equal(t, "5", records[1][1])
}

func TestCSVWriter_AppendSkipsHeaderAndBOM(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	require.NoError(t, w.WriteSimpleCSV("out.csv", []string{"a", "b"}, [][]string{{"1", "2"}}))
	require.NoError(t, w.AppendToCSV("out.csv", [][]string{{"3", "4"}}))

	records := readCSVFile(t, filepath.Join(dir, "out.csv"))
	require.Len(t, records, 3)
	assert.Equal(t, []string{"3", "4"}, records[2])
}
