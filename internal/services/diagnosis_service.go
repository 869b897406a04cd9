package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"mfgcli/internal/diagnosis"
	apierrors "mfgcli/internal/errors"
	"mfgcli/internal/mapping"
	"mfgcli/internal/table"
)

// DiagnosisService orchestrates loading a data table, resolving its
// column mapping and running the KPI diagnosis.
type DiagnosisService struct {
	calc   *diagnosis.Calculator
	logger *slog.Logger
}

// NewDiagnosisService creates a new diagnosis service.
func NewDiagnosisService(logger *slog.Logger) *DiagnosisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiagnosisService{
		calc:   diagnosis.NewCalculator(logger),
		logger: logger,
	}
}

// DiagnoseFile loads the table at tablePath (CSV or XLSX) and the
// mapping YAML at mappingPath, then runs the diagnosis.
func (s *DiagnosisService) DiagnoseFile(ctx context.Context, tablePath, mappingPath string) (*diagnosis.Report, error) {
	start := time.Now()

	t, err := table.Load(tablePath)
	if err != nil {
		return nil, apierrors.TableLoadError(fmt.Errorf("%s: %w", tablePath, err))
	}

	m := mapping.Mapping{}
	if mappingPath != "" {
		m, err = mapping.LoadFile(mappingPath)
		if err != nil {
			return nil, apierrors.MappingError(err)
		}
	}

	report, err := s.diagnose(ctx, t, m)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "file diagnosis completed",
		slog.String("table_path", tablePath),
		slog.Int("rows", t.Len()),
		slog.Duration("duration", time.Since(start)))
	return report, nil
}

// DiagnoseCSV reads CSV data from r and runs the diagnosis with the
// given raw role-to-column mapping.
func (s *DiagnosisService) DiagnoseCSV(ctx context.Context, r io.Reader, rawMapping map[string]string) (*diagnosis.Report, error) {
	t, err := table.ReadCSV(r)
	if err != nil {
		return nil, apierrors.TableLoadError(err)
	}

	m, err := mapping.Parse(rawMapping)
	if err != nil {
		return nil, apierrors.MappingError(err)
	}

	return s.diagnose(ctx, t, m)
}

func (s *DiagnosisService) diagnose(ctx context.Context, t *table.Table, m mapping.Mapping) (*diagnosis.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("diagnosis cancelled: %w", err)
	}
	if err := m.Validate(t); err != nil {
		return nil, apierrors.MappingError(err)
	}
	return s.calc.Run(t, m), nil
}
