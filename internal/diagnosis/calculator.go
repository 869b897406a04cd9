package diagnosis

import (
	"log/slog"
	"time"

	"mfgcli/internal/mapping"
	"mfgcli/internal/table"
)

// Calculator runs the full diagnosis pipeline: KPI derivation,
// threshold scoring, composite aggregation, advisory tips, and the
// per-group breakdowns. Policies and weights are injected so a future
// configuration surface can replace the fixed defaults without
// touching the pipeline.
type Calculator struct {
	policies map[KPI]Policy
	weights  map[KPI]float64
	logger   *slog.Logger
}

// NewCalculator creates a calculator with the fixed default policies
// and weights.
func NewCalculator(logger *slog.Logger) *Calculator {
	return NewCalculatorWith(DefaultPolicies(), DefaultWeights(), logger)
}

// NewCalculatorWith creates a calculator with explicit policies and
// weights.
func NewCalculatorWith(policies map[KPI]Policy, weights map[KPI]float64, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{
		policies: policies,
		weights:  weights,
		logger:   logger,
	}
}

// Run executes one diagnosis over a table and mapping. The pipeline is
// synchronous and stateless: each invocation owns its derived values
// exclusively and the input table is never mutated. Missing or
// malformed inputs surface as unavailable values in the report, never
// as errors.
func (c *Calculator) Run(t *table.Table, m mapping.Mapping) *Report {
	start := time.Now()

	set := ComputeKPIs(t, m)
	scores := ScoreAll(set.Values, c.policies)

	signals := make(map[KPI]Signal, len(scores))
	available := 0
	for kpi, score := range scores {
		signals[kpi] = SignalFor(score)
		if score.Available() {
			available++
		}
	}

	report := &Report{
		GeneratedAt:    start,
		Sales:          set.Sales,
		InventoryValue: set.InventoryValue,
		KPIs:           set.Values,
		Scores:         scores,
		Signals:        signals,
		Composite:      Composite(scores, c.weights),
		Tips:           Advise(set.Values),
		Breakdowns:     ComputeBreakdowns(t, m),
	}

	c.logger.Info("diagnosis completed",
		slog.Int("rows", t.Len()),
		slog.Int("kpis_scored", available),
		slog.Int("breakdowns", len(report.Breakdowns)),
		slog.Duration("duration", time.Since(start)),
	)
	return report
}
