// internal/weather/handler.go
package weather

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"agadirhub/internal/api"
)

type Handler struct {
	provider Provider
	log      *zap.SugaredLogger
}

func NewHandler(provider Provider, log *zap.SugaredLogger) *Handler {
	return &Handler{provider: provider, log: log.With("handler", "weather")}
}

// HandleCurrent serves GET /api/weather/current.
func (h *Handler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	current, err := h.provider.Current(r.Context())
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"current": current})
}

// HandleForecast serves GET /api/weather/forecast.
func (h *Handler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil {
		days = 5
	}

	forecast, err := h.provider.Forecast(r.Context(), days)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{
		"forecast": forecast,
		"location": "Agadir, Morocco",
	})
}

// HandleAlerts serves GET /api/weather/alerts.
func (h *Handler) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.provider.Alerts(r.Context())
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// HandleHistorical serves GET /api/weather/historical.
func (h *Handler) HandleHistorical(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	historical, err := h.provider.Historical(r.Context(), q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"historical": historical})
}
