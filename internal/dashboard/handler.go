// internal/dashboard/handler.go
package dashboard

import (
	"net/http"

	"go.uber.org/zap"

	"agadirhub/internal/api"
	"agadirhub/internal/auth"
)

type Handler struct {
	service Service
	log     *zap.SugaredLogger
}

func NewHandler(service Service, log *zap.SugaredLogger) *Handler {
	return &Handler{service: service, log: log.With("handler", "dashboard")}
}

// HandleStats serves GET /api/dashboard/stats.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"stats": overview})
}

// HandleActivity serves GET /api/dashboard/activity.
func (h *Handler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFrom(r.Context())

	activity, err := h.service.Activity(r.Context(), actor.ID)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"activity": activity})
}
