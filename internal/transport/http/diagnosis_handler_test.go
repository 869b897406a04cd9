package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"mfgcli/internal/diagnosis"
	apierrors "mfgcli/internal/errors"
	"mfgcli/internal/infrastructure"
	"mfgcli/internal/services"
)

const handlerTestCSV = `sales,cogs
100000,60000
`

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	logger := slog.Default()
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		NewHealthHandler().RegisterRoutes(r)
		NewDiagnosisHandler(services.NewDiagnosisService(logger), logger, nil, 0).RegisterRoutes(r)
	})
	return r
}

func multipartBody(t *testing.T, filename, content, mappingYAML string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)

	if mappingYAML != "" {
		mw, err := w.CreateFormFile("mapping", "mapping.yaml")
		require.NoError(t, err)
		_, err = mw.Write([]byte(mappingYAML))
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestRunDiagnosis_Success(t *testing.T) {
	router := newTestRouter(t)

	body, contentType := multipartBody(t, "data.csv", handlerTestCSV, "sales: sales\ncogs: cogs\n")
	req := httptest.NewRequest(http.MethodPost, "/api/diagnosis", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report diagnosis.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))

	sales, ok := report.Sales.Get()
	require.True(t, ok)
	assert.InDelta(t, 100000, sales, 1e-9)
	assert.Equal(t, diagnosis.SignalGood, report.Signals[diagnosis.KPIGrossMargin])
}

func TestRunDiagnosis_MissingFile(t *testing.T) {
	router := newTestRouter(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/diagnosis", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "data file is required")
}

func TestRunDiagnosis_UnsupportedExtension(t *testing.T) {
	router := newTestRouter(t)

	body, contentType := multipartBody(t, "data.txt", handlerTestCSV, "")
	req := httptest.NewRequest(http.MethodPost, "/api/diagnosis", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunDiagnosis_InvalidMapping(t *testing.T) {
	router := newTestRouter(t)

	body, contentType := multipartBody(t, "data.csv", handlerTestCSV, "sales: no_such_column\n")
	req := httptest.NewRequest(http.MethodPost, "/api/diagnosis", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MAPPING_INVALID")
}

type failingService struct{}

func (failingService) DiagnoseFile(ctx context.Context, tablePath, mappingPath string) (*diagnosis.Report, error) {
	return nil, assert.AnError
}

func TestRunDiagnosis_ServiceErrorRendersInternal(t *testing.T) {
	handler := NewDiagnosisHandler(failingService{}, slog.Default(), nil, 0)
	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	body, contentType := multipartBody(t, "data.csv", handlerTestCSV, "")
	req := httptest.NewRequest(http.MethodPost, "/diagnosis", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), apierrors.ErrInternalServer.ErrorCode)
}

func TestRunDiagnosis_CountsRuns(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	metrics, err := infrastructure.CreateHTTPMetrics(meter)
	require.NoError(t, err)

	logger := slog.Default()
	handler := NewDiagnosisHandler(services.NewDiagnosisService(logger), logger, metrics, 0)
	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	body, contentType := multipartBody(t, "data.csv", handlerTestCSV, "sales: sales\n")
	req := httptest.NewRequest(http.MethodPost, "/diagnosis", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var runs *metricdata.Metrics
	for _, scope := range rm.ScopeMetrics {
		for i := range scope.Metrics {
			if scope.Metrics[i].Name == "diagnosis_runs_total" {
				runs = &scope.Metrics[i]
			}
		}
	}
	require.NotNil(t, runs, "run counter recorded")
	sum, ok := runs.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(1), sum.DataPoints[0].Value)

	status, ok := sum.DataPoints[0].Attributes.Value("status")
	require.True(t, ok)
	assert.Equal(t, "success", status.AsString())
}

func TestRunDiagnosis_ConfiguredUploadCap(t *testing.T) {
	logger := slog.Default()
	handler := NewDiagnosisHandler(services.NewDiagnosisService(logger), logger, nil, 64)
	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	oversized := handlerTestCSV + strings.Repeat("9,9\n", 100)
	body, contentType := multipartBody(t, "data.csv", oversized, "")
	req := httptest.NewRequest(http.MethodPost, "/diagnosis", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "PAYLOAD_TOO_LARGE")
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/health", "/api/health/live", "/api/version"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
