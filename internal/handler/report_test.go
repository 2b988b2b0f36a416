package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

type memMonitoringStats struct {
	total, single int64
	load, ttfb    float64
	prevLoad      float64
	prevTTFB      float64
	calls         int
}

func (m *memMonitoringStats) SessionCounts(_ context.Context, _, _ time.Time) (int64, int64, error) {
	return m.total, m.single, nil
}

func (m *memMonitoringStats) AvgPageTiming(_ context.Context, _, _ time.Time) (float64, float64, error) {
	m.calls++
	// First call gets the current window, second the preceding one.
	if m.calls == 1 {
		return m.load, m.ttfb, nil
	}
	return m.prevLoad, m.prevTTFB, nil
}

func TestPerformanceAnalytics(t *testing.T) {
	stats := &memMonitoringStats{load: 820, ttfb: 140, prevLoad: 1025, prevTTFB: 160}
	h := &ReportHandler{Monitoring: stats}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics/performance?period=7d", nil)
	rec := httptest.NewRecorder()
	if err := h.PerformanceAnalytics(e.NewContext(req, rec)); err != nil {
		t.Fatalf("PerformanceAnalytics: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if stats.calls != 2 {
		t.Fatalf("timing queries = %d, want current and previous window", stats.calls)
	}

	var body struct {
		Data struct {
			Period     string  `json:"period"`
			AvgLoadMs  float64 `json:"avg_load_ms"`
			AvgTTFBMs  float64 `json:"avg_ttfb_ms"`
			LoadGrowth float64 `json:"load_growth"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Data.Period != "7d" {
		t.Fatalf("period = %q, want 7d", body.Data.Period)
	}
	if body.Data.AvgLoadMs != 820 || body.Data.AvgTTFBMs != 140 {
		t.Fatalf("timings = %v / %v, want 820 / 140", body.Data.AvgLoadMs, body.Data.AvgTTFBMs)
	}
	// (820-1025)/1025 * 100 rounded to two decimals.
	if body.Data.LoadGrowth != -20 {
		t.Fatalf("load growth = %v, want -20", body.Data.LoadGrowth)
	}
}
