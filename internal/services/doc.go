// Package services contains the application service layer.
//
// DiagnosisService is the single entry point for running a diagnosis:
// it loads tabular data (CSV or XLSX), resolves the role-to-column
// mapping, validates it against the table, and delegates the KPI and
// scoring work to the diagnosis package. Both the HTTP transport and
// the CLI call through this service rather than touching the
// calculator directly.
package services
