package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"churnboard/internal/analysis"
	"churnboard/internal/config"
	"churnboard/internal/dataset"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `CustomerID,Churn,CustomerGroup,EstimatedCLV,CLVSegment
1,1,High Value - Churn,1500,High
2,0,Low Value - Retain,120,Low
3,1,Low Value - Churn,80,Low
4,0,Low Value - Retain,200,Low
`

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, content string) (*Server, *dataset.Cache, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "customers.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cache := dataset.NewCache(nil)
	t.Cleanup(cache.Close)
	server := NewServer(cache, config.DataConfig{Source: path, DisplayLimit: 50, HistogramBins: 30})
	return server, cache, path
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestOverviewEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t, sampleCSV)

	rec := do(t, server.Handler(), http.MethodGet, "/api/overview")
	require.Equal(t, http.StatusOK, rec.Code)

	var overview analysis.Overview
	decode(t, rec, &overview)
	assert.Equal(t, 4, overview.TotalCustomers)
	assert.Equal(t, 50.0, overview.ChurnRate)
	assert.Equal(t, 1, overview.HighValueChurners)
	assert.Equal(t, "50.00%", overview.ChurnRateDisplay)
}

func TestGroupsEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t, sampleCSV)

	rec := do(t, server.Handler(), http.MethodGet, "/api/groups")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Groups []analysis.GroupCount `json:"groups"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Groups, 3)
	assert.Equal(t, "Low Value - Retain", body.Groups[0].Group)
	assert.Equal(t, 2, body.Groups[0].Count)
	assert.Equal(t, "High Value - Churn", body.Groups[1].Group)
}

func TestSegmentsEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t, sampleCSV)

	rec := do(t, server.Handler(), http.MethodGet, "/api/segments")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Segments []string `json:"segments"`
	}
	decode(t, rec, &body)
	assert.Equal(t, []string{"High Value - Churn", "Low Value - Retain", "Low Value - Churn"}, body.Segments)
}

func TestCustomersEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t, sampleCSV)

	rec := do(t, server.Handler(), http.MethodGet, "/api/customers?segment="+url.QueryEscape("Low Value - Retain"))
	require.Equal(t, http.StatusOK, rec.Code)

	var view analysis.SegmentView
	decode(t, rec, &view)
	assert.Equal(t, 2, view.Matched)
	assert.Equal(t, 50, view.Limit)
	require.Len(t, view.Rows, 2)
	assert.Equal(t, "2", view.Rows[0].CustomerID)
	assert.Equal(t, "4", view.Rows[1].CustomerID)
}

func TestCustomersEndpointUnknownSegment(t *testing.T) {
	server, _, _ := newTestServer(t, sampleCSV)

	rec := do(t, server.Handler(), http.MethodGet, "/api/customers?segment=Nobody")
	require.Equal(t, http.StatusOK, rec.Code)

	var view analysis.SegmentView
	decode(t, rec, &view)
	assert.Equal(t, 0, view.Matched)
	assert.Empty(t, view.Rows)
	assert.Contains(t, rec.Body.String(), `"rows":[]`)
}

func TestCustomersEndpointRequiresSegment(t *testing.T) {
	server, _, _ := newTestServer(t, sampleCSV)

	rec := do(t, server.Handler(), http.MethodGet, "/api/customers")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "INVALID_INPUT", body["code"])
}

func TestHistogramAndSummaryEndpoints(t *testing.T) {
	server, _, _ := newTestServer(t, sampleCSV)

	rec := do(t, server.Handler(), http.MethodGet, "/api/clv/histogram")
	require.Equal(t, http.StatusOK, rec.Code)
	var hist analysis.Histogram
	decode(t, rec, &hist)
	assert.Len(t, hist.Bins, 30)
	assert.Equal(t, 4, hist.Total)
	assert.Equal(t, 80.0, hist.Min)
	assert.Equal(t, 1500.0, hist.Max)

	rec = do(t, server.Handler(), http.MethodGet, "/api/clv/summary")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary analysis.Summary
	decode(t, rec, &summary)
	assert.Equal(t, 4, summary.Count)
	assert.Equal(t, 475.0, summary.Mean)
}

func TestModelEndpoints(t *testing.T) {
	server, _, _ := newTestServer(t, sampleCSV)

	rec := do(t, server.Handler(), http.MethodGet, "/api/models")
	require.Equal(t, http.StatusOK, rec.Code)
	var models struct {
		Models []modelView `json:"models"`
	}
	decode(t, rec, &models)
	require.Len(t, models.Models, 2)
	assert.Equal(t, "Random Forest", models.Models[0].Name)
	assert.Equal(t, "0.683", models.Models[0].Display["Accuracy"])
	assert.Equal(t, 0.806, models.Models[1].Scores.F1Score)

	rec = do(t, server.Handler(), http.MethodGet, "/api/models/comparison")
	require.Equal(t, http.StatusOK, rec.Code)
	var comparison struct {
		ConclusionHTML string `json:"conclusion_html"`
	}
	decode(t, rec, &comparison)
	assert.Contains(t, comparison.ConclusionHTML, "<strong>XGBoost</strong>")
}

func TestDatasetAndReloadEndpoints(t *testing.T) {
	server, _, _ := newTestServer(t, sampleCSV)

	rec := do(t, server.Handler(), http.MethodGet, "/api/dataset")
	require.Equal(t, http.StatusOK, rec.Code)
	var info dataset.Info
	decode(t, rec, &info)
	assert.Equal(t, 4, info.Rows)
	assert.Equal(t, 1, info.Loads)

	rec = do(t, server.Handler(), http.MethodPost, "/api/dataset/reload")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &info)
	assert.Equal(t, 4, info.Rows)
	assert.Equal(t, 1, info.Loads, "reload starts a fresh entry")
}

func TestExportEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t, sampleCSV)

	rec := do(t, server.Handler(), http.MethodGet, "/api/export.xlsx?segment="+url.QueryEscape("High Value - Churn"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "churn_dashboard.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Segment")
}

func TestLoadErrorsMapToStatus(t *testing.T) {
	server, _, _ := newTestServer(t, "CustomerID,Churn\n1,0\n")

	rec := do(t, server.Handler(), http.MethodGet, "/api/overview")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "SCHEMA_MISMATCH", body["code"])

	cache := dataset.NewCache(nil)
	missing := NewServer(cache, config.DataConfig{Source: filepath.Join(t.TempDir(), "absent.csv")})
	rec = do(t, missing.Handler(), http.MethodGet, "/api/overview")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestID(t *testing.T) {
	server, _, _ := newTestServer(t, sampleCSV)

	rec := do(t, server.Handler(), http.MethodGet, "/api/models")
	assert.Len(t, rec.Header().Get(requestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestOpsRouter(t *testing.T) {
	server, cache, path := newTestServer(t, sampleCSV)
	ops := NewOpsRouter(cache, path)

	rec := do(t, ops, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, ops, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, server.Warm(ctx))

	rec = do(t, ops, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ready"`)
}
