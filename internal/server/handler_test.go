package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"fxpredict/internal/forecast"
	"fxpredict/internal/metrics"
	"fxpredict/internal/rates"
	"fxpredict/models"
)

var (
	setupOnce sync.Once
	testSrv   *Server
)

// testServer builds one server for the whole package: the Prometheus
// collectors register on the default registry and must not register twice.
func testServer(t *testing.T) *Server {
	t.Helper()
	setupOnce.Do(func() {
		cfg := &models.Config{
			Port:           0,
			HistoryDays:    30,
			RateLimitRPS:   1000, // effectively unlimited for handler tests
			RateLimitBurst: 1000,
		}
		engine := forecast.NewEngine(rates.NewGenerator(), cfg)
		testSrv = New(cfg, engine, metrics.New())
	})
	return testSrv
}

func get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	testServer(t).Routes().ServeHTTP(rec, req)
	return rec
}

func TestPredictMultiEndToEnd(t *testing.T) {
	rec := get(t, "/api/predict_multi?pair=USD/JPY&days=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body models.ForecastResult
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Pair != models.USDJPY {
		t.Errorf("pair = %s, want USD/JPY", body.Pair)
	}
	if body.Horizon != 5 || len(body.Points) != 5 {
		t.Fatalf("horizon = %d with %d forecasts, want 5/5", body.Horizon, len(body.Points))
	}
	for i, p := range body.Points {
		if p.PredictedRate <= 0 {
			t.Errorf("day %d predicted_rate = %f, want > 0", p.Day, p.PredictedRate)
		}
		if i > 0 && p.Confidence > body.Points[i-1].Confidence {
			t.Errorf("confidence increased between day %d and %d", i, i+1)
		}
	}
	if body.Indicators.Trend != models.TrendUp &&
		body.Indicators.Trend != models.TrendDown &&
		body.Indicators.Trend != models.TrendFlat {
		t.Errorf("trend = %q, not one of UP/DOWN/FLAT", body.Indicators.Trend)
	}
}

func TestPredictSingleEndToEnd(t *testing.T) {
	rec := get(t, "/api/predict?pair=EUR/USD")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Pair          string              `json:"pair"`
		Day           int                 `json:"day"`
		PredictedRate float64             `json:"predicted_rate"`
		Confidence    float64             `json:"confidence"`
		Indicators    models.IndicatorSet `json:"indicators"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Day != 1 {
		t.Errorf("day = %d, want 1", body.Day)
	}
	if body.PredictedRate <= 0 {
		t.Errorf("predicted_rate = %f, want > 0", body.PredictedRate)
	}
	if body.Confidence <= 0 || body.Confidence > 1 {
		t.Errorf("confidence = %f, want in (0,1]", body.Confidence)
	}
	if body.Indicators.RSI < 0 || body.Indicators.RSI > 100 {
		t.Errorf("rsi = %f, want in [0,100]", body.Indicators.RSI)
	}
}

func TestUnsupportedPairRejected(t *testing.T) {
	for _, path := range []string{
		"/api/predict?pair=GBP/USD",
		"/api/predict_multi?pair=GBP/USD&days=5",
		"/api/predict?pair=",
	} {
		rec := get(t, path)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
			continue
		}
		var body errorBody
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decoding error body: %v", path, err)
		}
		if body.Error != "InvalidPairError" {
			t.Errorf("%s: error kind = %q, want InvalidPairError", path, body.Error)
		}
		if body.Message == "" {
			t.Errorf("%s: error body has no message", path)
		}
	}
}

func TestHorizonOutOfRangeRejected(t *testing.T) {
	for _, days := range []string{"0", "-3", "11", "abc"} {
		rec := get(t, "/api/predict_multi?pair=USD/JPY&days="+days)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("days=%s: status = %d, want 400", days, rec.Code)
			continue
		}
		var body errorBody
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("days=%s: decoding error body: %v", days, err)
		}
		if body.Error != "InvalidHorizonError" {
			t.Errorf("days=%s: error kind = %q, want InvalidHorizonError", days, body.Error)
		}
	}
}

func TestMissingDaysDefaultsToFullHorizon(t *testing.T) {
	rec := get(t, "/api/predict_multi?pair=EUR/JPY")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body models.ForecastResult
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(body.Points) != forecast.MaxHorizonDays {
		t.Errorf("forecasts length = %d, want %d", len(body.Points), forecast.MaxHorizonDays)
	}
}

func TestPairsEndpoint(t *testing.T) {
	rec := get(t, "/api/pairs")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Pairs []string `json:"pairs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(body.Pairs) != len(models.SupportedPairs) {
		t.Errorf("pairs length = %d, want %d", len(body.Pairs), len(models.SupportedPairs))
	}
}

func TestHealthEndpoint(t *testing.T) {
	rec := get(t, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"healthy"`) {
		t.Errorf("body = %s, want healthy status", rec.Body.String())
	}
}

func TestDashboardServed(t *testing.T) {
	rec := get(t, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	for _, pair := range models.SupportedPairs {
		if !strings.Contains(rec.Body.String(), pair.String()) {
			t.Errorf("dashboard missing pair %s", pair)
		}
	}
}

func TestUnknownPathIs404(t *testing.T) {
	rec := get(t, "/nope")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/predict?pair=USD/JPY", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	testServer(t).Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestRateLimiting(t *testing.T) {
	// Separate limiter with a burst of 2: the third immediate request from
	// the same client must be rejected.
	lim := newClientLimiter(1, 2)
	if !lim.limiter("10.0.0.1").Allow() || !lim.limiter("10.0.0.1").Allow() {
		t.Fatal("burst requests should be allowed")
	}
	if lim.limiter("10.0.0.1").Allow() {
		t.Error("third immediate request should be rate limited")
	}
	// Other clients have their own budget.
	if !lim.limiter("10.0.0.2").Allow() {
		t.Error("separate client should not share the exhausted bucket")
	}
}
