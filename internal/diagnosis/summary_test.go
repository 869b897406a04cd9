package diagnosis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummaryWithRisks(t *testing.T) {
	r := &Report{
		KPIs: map[KPI]Value{
			KPIGrossMargin:      Some(0.230),
			KPIOperatingMargin:  Some(0.030),
			KPIDefectRate:       Some(0.012),
			KPIYieldRate:        Some(0.975),
			KPIOnTimeRate:       Some(0.92),
			KPIInventoryToSales: Some(0.10),
		},
		Scores: map[KPI]Score{
			KPIGrossMargin:      ScoreOf(70),
			KPIOperatingMargin:  ScoreOf(40),
			KPIDefectRate:       ScoreOf(70),
			KPIYieldRate:        ScoreOf(70),
			KPIOnTimeRate:       ScoreOf(70),
			KPIInventoryToSales: ScoreOf(100),
		},
		Composite: Some(68.2),
	}

	summary := r.Summary()

	assert.Contains(t, summary, "Composite score: 68.2/100")
	assert.Contains(t, summary, "gross margin 23.0%")
	assert.Contains(t, summary, "defect rate 1.20%")
	assert.Contains(t, summary, "inventory/sales 10.0%")

	// Sub-60 flagged more severely than 60-84.
	assert.Contains(t, summary, "[risk] operating margin: below standard (score 40)")
	assert.Contains(t, summary, "[caution] gross margin: improvement recommended (score 70)")
	assert.NotContains(t, summary, "[caution] inventory-to-sales")
	assert.NotContains(t, summary, "no warnings")
}

func TestSummaryAllUnavailable(t *testing.T) {
	r := &Report{
		KPIs:      map[KPI]Value{},
		Scores:    map[KPI]Score{},
		Composite: None(),
	}

	summary := r.Summary()

	assert.Contains(t, summary, "Composite score: -")
	assert.Contains(t, summary, "gross margin -")
	assert.NotContains(t, summary, "inventory/sales", "inventory line only appears when available")
	assert.Contains(t, summary, "no warnings")
}

func TestSummaryHealthy(t *testing.T) {
	r := &Report{
		KPIs: map[KPI]Value{
			KPIGrossMargin:     Some(0.30),
			KPIOperatingMargin: Some(0.12),
			KPIDefectRate:      Some(0.005),
			KPIYieldRate:       Some(0.99),
			KPIOnTimeRate:      Some(0.97),
		},
		Scores: map[KPI]Score{
			KPIGrossMargin:     ScoreOf(100),
			KPIOperatingMargin: ScoreOf(100),
			KPIDefectRate:      ScoreOf(100),
			KPIYieldRate:       ScoreOf(100),
			KPIOnTimeRate:      ScoreOf(100),
		},
		Composite: Some(100),
	}

	summary := r.Summary()
	assert.Contains(t, summary, "no warnings")

	// Risk section is the last block.
	lines := strings.Split(strings.TrimSpace(summary), "\n")
	assert.Equal(t, "  - no warnings (rule-based)", lines[len(lines)-1])
}
