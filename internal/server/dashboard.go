package server

import (
	"html/template"
	"net/http"
	"time"

	"fxpredict/models"
)

// The dashboard is a single self-contained page that drives the JSON API
// from the browser. It is deliberately thin: all forecasting happens behind
// /api/predict and /api/predict_multi.
var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>FX Forecast</title>
<style>
  body { font-family: sans-serif; max-width: 720px; margin: 40px auto; padding: 0 16px; color: #222; }
  h1 { color: #1976d2; }
  .disclaimer { background: #fff3cd; border: 1px solid #ffeaa7; padding: 12px; border-radius: 6px; margin-bottom: 20px; }
  .controls { display: flex; gap: 12px; margin-bottom: 24px; }
  select, button { padding: 8px 12px; font-size: 15px; }
  button { background: #1976d2; color: white; border: none; border-radius: 4px; cursor: pointer; }
  table { width: 100%; border-collapse: collapse; margin-top: 16px; }
  th, td { text-align: left; padding: 8px; border-bottom: 1px solid #ddd; }
  .up { color: #2e7d32; } .down { color: #c62828; }
  .indicators { margin-top: 12px; color: #555; }
  .error { color: #c62828; margin-top: 16px; }
</style>
</head>
<body>
<h1>FX Forecast</h1>
<div class="disclaimer">Demonstration only: forecasts are synthetic and must
not be used for trading decisions.</div>
<div class="controls">
  <select id="pair">
    {{- range .Pairs}}
    <option value="{{.}}">{{.}}</option>
    {{- end}}
  </select>
  <select id="days">
    <option value="1">1 day</option>
    <option value="3">3 days</option>
    <option value="5" selected>5 days</option>
    <option value="7">7 days</option>
    <option value="10">10 days</option>
  </select>
  <button onclick="run()">Forecast</button>
</div>
<div id="out"></div>
<script>
async function run() {
  const pair = document.getElementById('pair').value;
  const days = document.getElementById('days').value;
  const out = document.getElementById('out');
  out.textContent = 'Loading...';
  try {
    const resp = await fetch('/api/predict_multi?pair=' + encodeURIComponent(pair) + '&days=' + days);
    const data = await resp.json();
    if (!resp.ok) { out.innerHTML = '<p class="error">' + data.error + ': ' + data.message + '</p>'; return; }
    let rows = data.forecasts.map(f => {
      const cls = f.change >= 0 ? 'up' : 'down';
      const sign = f.change >= 0 ? '+' : '';
      return '<tr><td>' + f.date + ' (day ' + f.day + ')</td>' +
        '<td>' + f.predicted_rate.toFixed(4) + '</td>' +
        '<td class="' + cls + '">' + sign + f.change.toFixed(4) + ' (' + sign + f.change_percent.toFixed(2) + '%)</td>' +
        '<td>' + Math.round(f.confidence * 100) + '%</td></tr>';
    }).join('');
    out.innerHTML =
      '<p>Current rate: <strong>' + data.current_rate.toFixed(4) + '</strong></p>' +
      '<table><tr><th>Date</th><th>Predicted</th><th>Change</th><th>Confidence</th></tr>' + rows + '</table>' +
      '<p class="indicators">MA5 ' + data.indicators.ma5.toFixed(4) +
      ' &middot; MA10 ' + data.indicators.ma10.toFixed(4) +
      ' &middot; RSI ' + data.indicators.rsi.toFixed(1) +
      ' &middot; trend ' + data.indicators.trend + '</p>';
  } catch (e) {
    out.innerHTML = '<p class="error">' + e.message + '</p>';
  }
}
window.addEventListener('load', run);
</script>
</body>
</html>
`))

// Dashboard serves the HTML front page.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, struct {
		Pairs []models.CurrencyPair
	}{models.SupportedPairs}); err != nil {
		h.logger.Error().Err(err).Msg("rendering dashboard")
	}
}

// Health serves the liveness endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"app":       "fxpredict",
	})
}

// Test serves a plain liveness echo, kept for parity with /health checks
// that expect a non-JSON-schema endpoint.
func (h *Handler) Test(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"message":   "fx forecast service is running",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
