package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"MorningScan/internal/domain/models"
	"MorningScan/internal/services/mapping"
	"MorningScan/internal/services/nlp"
	"MorningScan/internal/usecase"
	applogger "MorningScan/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubPicks struct {
	picks   []*models.Pick
	lastMin float64
	lastLim int
}

func (s *stubPicks) Init(ctx context.Context) error                  { return nil }
func (s *stubPicks) Store(ctx context.Context, p *models.Pick) error { return nil }
func (s *stubPicks) StoreBatch(ctx context.Context, picks []*models.Pick) error {
	return nil
}

func (s *stubPicks) Query(ctx context.Context, minScore float64, from, to time.Time, limit int) ([]*models.Pick, error) {
	s.lastMin = minScore
	s.lastLim = limit
	return s.picks, nil
}

func (s *stubPicks) Health(ctx context.Context) error { return nil }
func (s *stubPicks) Close() error                     { return nil }

type stubRuns struct {
	runs []*models.ScanRun
}

func (s *stubRuns) Init(ctx context.Context) error                        { return nil }
func (s *stubRuns) Record(ctx context.Context, run *models.ScanRun) error { return nil }
func (s *stubRuns) Recent(ctx context.Context, limit int) ([]*models.ScanRun, error) {
	return s.runs, nil
}

type noopMetrics struct{}

func (noopMetrics) RecordArticleScanned(string)                {}
func (noopMetrics) RecordRecommendation(models.Recommendation) {}
func (noopMetrics) RecordPickStored(string)                    {}
func (noopMetrics) RecordError(string)                         {}
func (noopMetrics) RecordLatency(string, float64)              {}

func newTestHandler(t *testing.T, picks *stubPicks, runs *stubRuns) (*ScannerHandler, *echo.Echo) {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	classifier := nlp.NewClassifier(nlp.NewKeywordAnalyzer(), nlp.NewSignalDetector())
	proc := usecase.NewArticleProcessor(classifier, mapping.NewTickerMapper(), nil, picks, noopMetrics{}, "clickhouse", 0.3)
	pipeline := usecase.NewScanPipeline(nil, proc, classifier, mapping.NewTickerMapper(),
		nlp.NewAggregator(), nil, nil, nil, noopMetrics{}, l, 50)

	h := NewScannerHandler(classifier, pipeline, picks, runs)
	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Status int             `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	var data map[string]interface{}
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return data
}

func TestClassifyEndpoint(t *testing.T) {
	_, e := newTestHandler(t, &stubPicks{}, &stubRuns{})

	rec := doJSON(e, http.MethodPost, "/api/classify",
		`{"title":"Ericsson rapporterar 25% tillväxt och vinner order värda 3 miljarder"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	data := decodeData(t, rec)
	if data["recommendation"] != "WATCH" {
		t.Fatalf("recommendation = %v, want WATCH", data["recommendation"])
	}
	if data["impact_level"] != "high" {
		t.Fatalf("impact_level = %v, want high", data["impact_level"])
	}
	signals, ok := data["signals"].([]interface{})
	if !ok || len(signals) != 2 {
		t.Fatalf("signals = %v, want 2 entries", data["signals"])
	}
}

func TestClassifyRejectsMissingTitle(t *testing.T) {
	_, e := newTestHandler(t, &stubPicks{}, &stubRuns{})

	rec := doJSON(e, http.MethodPost, "/api/classify", `{"content":"brödtext utan rubrik"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var envelope struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Status != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, want 400", envelope.Status)
	}
}

func TestClassifyBatchEndpoint(t *testing.T) {
	_, e := newTestHandler(t, &stubPicks{}, &stubRuns{})

	rec := doJSON(e, http.MethodPost, "/api/classify/batch",
		`{"items":[{"title":"Bolaget höjer prognos efter stark rapport"},{"title":"Dagens lunchtips"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	data := decodeData(t, rec)
	insights, ok := data["insights"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing insights in %v", data)
	}
	if insights["insights"] == "" {
		t.Fatal("insight narrative should not be empty")
	}
}

func TestPicksEndpoint(t *testing.T) {
	store := &stubPicks{picks: []*models.Pick{
		{Title: "Volvo vinner order", Ticker: "VOLV-B", FinalScore: 0.72, Recommendation: models.RecBuy},
	}}
	_, e := newTestHandler(t, store, &stubRuns{})

	rec := doJSON(e, http.MethodGet, "/api/picks?limit=5&min_score=0.4", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if store.lastLim != 5 {
		t.Fatalf("limit passed = %d, want 5", store.lastLim)
	}
	if store.lastMin != 0.4 {
		t.Fatalf("min score passed = %v, want 0.4", store.lastMin)
	}
	if !strings.Contains(rec.Body.String(), "VOLV-B") {
		t.Fatalf("body missing pick: %s", rec.Body.String())
	}
}

func TestPicksDefaultLimit(t *testing.T) {
	store := &stubPicks{}
	_, e := newTestHandler(t, store, &stubRuns{})

	rec := doJSON(e, http.MethodGet, "/api/picks", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if store.lastLim != 50 {
		t.Fatalf("default limit = %d, want 50", store.lastLim)
	}
}

func TestInsightsEndpoint(t *testing.T) {
	runs := &stubRuns{runs: []*models.ScanRun{
		{RunAt: time.Now(), Source: "scheduled", TotalItems: 40, Opportunities: 6},
	}}
	_, e := newTestHandler(t, &stubPicks{}, runs)

	rec := doJSON(e, http.MethodGet, "/api/insights", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "scheduled") {
		t.Fatalf("body missing run: %s", rec.Body.String())
	}
}

func TestScanEndpointSync(t *testing.T) {
	_, e := newTestHandler(t, &stubPicks{}, &stubRuns{})

	rec := doJSON(e, http.MethodPost, "/api/scan", `{"max_items":10}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if _, ok := data["insights"]; !ok {
		t.Fatalf("missing insights in %v", data)
	}
}

func TestScanAsyncWithoutQueue(t *testing.T) {
	_, e := newTestHandler(t, &stubPicks{}, &stubRuns{})

	rec := doJSON(e, http.MethodPost, "/api/scan", `{"async":true}`)
	var envelope struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Status != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, want 400", envelope.Status)
	}
}

func TestScanAsyncEnqueues(t *testing.T) {
	h, e := newTestHandler(t, &stubPicks{}, &stubRuns{})

	var gotType string
	h.SetEnqueue(func(msgType string, payload interface{}) error {
		gotType = msgType
		return nil
	})

	rec := doJSON(e, http.MethodPost, "/api/scan", `{"async":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotType != usecase.ScanJobType {
		t.Fatalf("enqueued type = %q, want %q", gotType, usecase.ScanJobType)
	}
	if !strings.Contains(rec.Body.String(), "queued") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	_, e := newTestHandler(t, &stubPicks{}, &stubRuns{})

	rec := doJSON(e, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}
