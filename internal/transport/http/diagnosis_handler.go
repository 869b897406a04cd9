package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apierrors "mfgcli/internal/errors"
	"mfgcli/internal/infrastructure"
)

// defaultMaxUploadBytes caps the multipart request body when no limit
// is configured.
const defaultMaxUploadBytes = 32 << 20 // 32 MiB

// DiagnosisHandler handles diagnosis HTTP requests.
type DiagnosisHandler struct {
	service   DiagnosisService
	logger    *slog.Logger
	metrics   *infrastructure.HTTPMetrics
	maxUpload int64
}

// NewDiagnosisHandler creates a new diagnosis handler. A nil metrics
// set disables run counting; maxUploadBytes <= 0 uses the default cap.
func NewDiagnosisHandler(service DiagnosisService, logger *slog.Logger, metrics *infrastructure.HTTPMetrics, maxUploadBytes int64) *DiagnosisHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &DiagnosisHandler{
		service:   service,
		logger:    logger.With(slog.String("handler", "diagnosis")),
		metrics:   metrics,
		maxUpload: maxUploadBytes,
	}
}

// RegisterRoutes registers the diagnosis routes
func (h *DiagnosisHandler) RegisterRoutes(r chi.Router) {
	r.Post("/diagnosis", h.RunDiagnosis)
}

// RunDiagnosis handles POST /api/diagnosis. It expects a multipart form
// with a "file" part (CSV or XLSX) and an optional "mapping" part
// holding the role-to-column YAML.
func (h *DiagnosisHandler) RunDiagnosis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			render.Render(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		render.Render(w, r, apierrors.InvalidRequestWithError(fmt.Errorf("parse multipart form: %w", err)))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		render.Render(w, r, apierrors.ErrValidation("file", "data file is required"))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".csv" && ext != ".xlsx" {
		render.Render(w, r, apierrors.ErrValidation("file", "only .csv and .xlsx files are supported"))
		return
	}

	tmpDir, err := os.MkdirTemp("", "diagnosis-upload-*")
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create upload directory",
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.ErrInternalServer)
		return
	}
	defer os.RemoveAll(tmpDir)

	tablePath := filepath.Join(tmpDir, "table"+ext)
	if err := saveUpload(file, tablePath); err != nil {
		h.logger.ErrorContext(ctx, "failed to save uploaded table",
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.ErrInternalServer)
		return
	}

	mappingPath := ""
	if mf, _, err := r.FormFile("mapping"); err == nil {
		defer mf.Close()
		mappingPath = filepath.Join(tmpDir, "mapping.yaml")
		if err := saveUpload(mf, mappingPath); err != nil {
			h.logger.ErrorContext(ctx, "failed to save uploaded mapping",
				slog.String("error", err.Error()))
			render.Render(w, r, apierrors.ErrInternalServer)
			return
		}
	}

	h.logger.InfoContext(ctx, "running diagnosis",
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size),
		slog.Bool("mapping_provided", mappingPath != ""))

	report, err := h.service.DiagnoseFile(ctx, tablePath, mappingPath)
	if err != nil {
		h.countRun(r, "error")
		h.renderError(w, r, err)
		return
	}

	h.countRun(r, "success")
	render.JSON(w, r, report)
}

func (h *DiagnosisHandler) countRun(r *http.Request, status string) {
	if h.metrics == nil {
		return
	}
	h.metrics.DiagnosisRuns.Add(r.Context(), 1,
		metric.WithAttributes(attribute.String("status", status)))
}

func (h *DiagnosisHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		render.Render(w, r, apiErr)
		return
	}

	h.logger.ErrorContext(r.Context(), "diagnosis failed",
		slog.String("error", err.Error()))
	render.Render(w, r, apierrors.ErrInternalServer)
}

func saveUpload(src multipart.File, dst string) error {
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return err
	}
	return out.Close()
}
