// Package exporter provides CSV export functionality for diagnosis reports.
//
// This package contains two main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// appending, and UTF-8 BOM for Excel compatibility.
//
// ReportExporter: Renders a diagnosis report as a set of CSV files:
// a KPI scorecard (with the composite score), advisory tips grouped by
// domain, and one file per computed breakdown.
//
// Example usage:
//
//	exp := exporter.NewReportExporter("data/reports")
//	err := exp.ExportReport(report, "plant_a")
package exporter
