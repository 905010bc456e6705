package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"fxpredict/internal/forecast"
	"fxpredict/internal/metrics"
	"fxpredict/models"
)

// Handler translates HTTP requests into forecast engine calls and renders
// the results as JSON.
type Handler struct {
	engine  *forecast.Engine
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewHandler(engine *forecast.Engine, m *metrics.Metrics) *Handler {
	return &Handler{
		engine:  engine,
		metrics: m,
		logger:  log.With().Str("component", "handler").Logger(),
	}
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// singleResponse is the next-day payload: the first forecast point flattened
// together with the indicators that produced it.
type singleResponse struct {
	Pair          models.CurrencyPair `json:"pair"`
	Day           int                 `json:"day"`
	Date          string              `json:"date"`
	CurrentRate   float64             `json:"current_rate"`
	PredictedRate float64             `json:"predicted_rate"`
	Change        float64             `json:"change"`
	ChangePercent float64             `json:"change_percent"`
	Confidence    float64             `json:"confidence"`
	Indicators    models.IndicatorSet `json:"indicators"`
}

// Predict handles GET /api/predict?pair=<PAIR>: a single next-day forecast.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "MethodNotAllowed", "only GET is supported")
		return
	}

	pair, err := models.ParsePair(r.URL.Query().Get("pair"))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	result, err := h.engine.Forecast(pair, 1, models.ModeSingle)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	h.metrics.ForecastsTotal.WithLabelValues(pair.String()).Inc()

	first := result.Points[0]
	h.writeJSON(w, http.StatusOK, singleResponse{
		Pair:          result.Pair,
		Day:           first.Day,
		Date:          first.Date,
		CurrentRate:   result.CurrentRate,
		PredictedRate: first.PredictedRate,
		Change:        first.Change,
		ChangePercent: first.ChangePercent,
		Confidence:    first.Confidence,
		Indicators:    result.Indicators,
	})
}

// PredictMulti handles GET /api/predict_multi?pair=<PAIR>&days=<1..10>.
func (h *Handler) PredictMulti(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "MethodNotAllowed", "only GET is supported")
		return
	}

	pair, err := models.ParsePair(r.URL.Query().Get("pair"))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	days, err := parseDays(r.URL.Query().Get("days"))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	result, err := h.engine.Forecast(pair, days, models.ModeMulti)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	h.metrics.ForecastsTotal.WithLabelValues(pair.String()).Inc()

	h.writeJSON(w, http.StatusOK, result)
}

// Pairs handles GET /api/pairs: the supported pair list for the dashboard.
func (h *Handler) Pairs(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string][]models.CurrencyPair{
		"pairs": models.SupportedPairs,
	})
}

// parseDays validates the days parameter. An absent parameter defaults to
// the full 10-day horizon, mirroring the engine's own range check.
func parseDays(raw string) (int, error) {
	if raw == "" {
		return forecast.MaxHorizonDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.ErrInvalidHorizon
	}
	if days < 1 || days > forecast.MaxHorizonDays {
		return 0, models.ErrInvalidHorizon
	}
	return days, nil
}

// writeEngineError maps engine validation failures to 400 responses with a
// stable error kind; anything unexpected becomes a 500.
func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if models.IsClientError(err) {
		status = http.StatusBadRequest
	} else {
		h.logger.Error().Err(err).Msg("forecast failed")
	}
	h.writeError(w, status, models.ErrorKind(err), err.Error())
}

func (h *Handler) writeError(w http.ResponseWriter, status int, kind, message string) {
	h.writeJSON(w, status, errorBody{Error: kind, Message: message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("encoding response")
	}
}
