package exporter

import (
	"fmt"
	"log/slog"

	"mfgcli/internal/diagnosis"
)

// ReportExporter writes diagnosis reports as CSV files.
type ReportExporter struct {
	csv *CSVWriter
}

// NewReportExporter creates a report exporter writing under baseDir.
func NewReportExporter(baseDir string) *ReportExporter {
	return &ReportExporter{csv: NewCSVWriter(baseDir)}
}

// ExportReport writes the scorecard, advisory tips and any breakdowns
// for the given report. Files are named after the given stem, e.g.
// stem "plant_a" produces plant_a_scorecard.csv.
func (e *ReportExporter) ExportReport(report *diagnosis.Report, stem string) error {
	if err := e.ExportScorecard(report, stem+"_scorecard.csv"); err != nil {
		return err
	}
	if err := e.ExportTips(report, stem+"_tips.csv"); err != nil {
		return err
	}
	for _, b := range report.Breakdowns {
		name := fmt.Sprintf("%s_%s.csv", stem, b.Kind)
		if err := e.ExportBreakdown(b, name); err != nil {
			return err
		}
	}

	slog.Info("Report exported",
		slog.String("stem", stem),
		slog.Int("breakdown_count", len(report.Breakdowns)))
	return nil
}

// ExportScorecard writes one row per KPI plus a composite row.
func (e *ReportExporter) ExportScorecard(report *diagnosis.Report, filePath string) error {
	headers := []string{"kpi", "label", "value", "score", "signal"}
	records := make([][]string, 0, len(diagnosis.KPIs)+1)

	for _, kpi := range diagnosis.KPIs {
		records = append(records, []string{
			string(kpi),
			kpi.Label(),
			formatValue(report.KPIs[kpi]),
			formatScore(report.Scores[kpi]),
			string(report.Signals[kpi]),
		})
	}
	records = append(records, []string{
		"composite",
		"Composite Score",
		formatValue(report.Composite),
		"",
		"",
	})

	return e.csv.WriteSimpleCSV(filePath, headers, records)
}

// ExportTips writes the advisory tips grouped by domain, preserving
// rule order within each domain.
func (e *ReportExporter) ExportTips(report *diagnosis.Report, filePath string) error {
	headers := []string{"domain", "tip"}
	var records [][]string
	for _, domain := range diagnosis.Domains {
		for _, tip := range report.Tips[domain] {
			records = append(records, []string{string(domain), tip})
		}
	}
	return e.csv.WriteSimpleCSV(filePath, headers, records)
}

// ExportBreakdown writes a single per-group rollup.
func (e *ReportExporter) ExportBreakdown(b diagnosis.Breakdown, filePath string) error {
	headers := []string{"key", "numerator", "denominator", "ratio"}
	records := make([][]string, 0, len(b.Rows))
	for _, row := range b.Rows {
		records = append(records, []string{
			row.Key,
			formatFloat(row.Numerator),
			formatFloat(row.Denominator),
			formatValue(row.Ratio),
		})
	}
	return e.csv.WriteSimpleCSV(filePath, headers, records)
}
