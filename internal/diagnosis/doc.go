// Package diagnosis implements the MFG Pulse manufacturing health
// scorecard: the pure computation pipeline that turns a mapped table of
// production, financial, and quality records into KPIs, threshold
// scores, a weighted composite score, advisory tips, and per-group
// breakdowns.
//
// # Pipeline
//
// One run derives, in dependency order:
//
//  1. KPIs: gross margin, operating margin, defect rate, yield,
//     on-time delivery rate, inventory value, inventory-to-sales.
//  2. Scores: each KPI classified to 100/70/40 against a fixed
//     (good, warn, direction) threshold policy.
//  3. Composite: a 0-100 weighted average over the KPIs that scored.
//  4. Tips: an ordered, rule-based improvement checklist per domain
//     (profitability, quality, delivery/inventory).
//  5. Breakdowns: defect rate by item, yield by line, defect count by
//     reason.
//
// # Optional-value semantics
//
// Every computation is total. A required column that is unmapped, a
// column with no parseable cells, and a zero ratio denominator all
// surface as the explicit unavailable state (Value, Score), never as an
// error and never as zero. Unavailability propagates silently:
// unavailable KPIs get unavailable scores, are excluded from both sides
// of the composite average, and render as neutral placeholders.
//
// The one documented exception is operating margin, where unmapped cost
// components default to zero instead of propagating unavailability; see
// operatingMargin.
//
// # Architecture
//
//   - types.go: Value/Score option types, KPI and domain identifiers, Report
//   - coerce.go: numeric and date coercion, SumMapped/MeanMapped/SafeRatio
//   - kpi.go: KPI derivation from the mapped table
//   - score.go: threshold policies and the discrete scorer
//   - composite.go: fixed weights and the composite aggregator
//   - advisor.go: ordered (predicate, tip) rule lists per domain
//   - breakdown.go: per-group rollups
//   - summary.go: plain-text diagnostic summary
//   - calculator.go: orchestrator tying the stages together
//
// # Usage
//
//	t, err := table.Load("production.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m, err := mapping.LoadFile("mapping.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report := diagnosis.NewCalculator(slog.Default()).Run(t, m)
//	fmt.Println(report.Summary())
//
// The pipeline is single-threaded and stateless: each run owns its
// derived values, the input table is never mutated, and nothing is
// persisted between runs.
package diagnosis
