package http

import (
	"context"

	"mfgcli/internal/diagnosis"
)

// DiagnosisService defines the service contract the diagnosis handler
// depends on.
type DiagnosisService interface {
	DiagnoseFile(ctx context.Context, tablePath, mappingPath string) (*diagnosis.Report, error)
}
