// internal/events/handler.go
package events

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"agadirhub/internal/api"
	"agadirhub/internal/auth"
	"agadirhub/internal/domain"
)

type Handler struct {
	service Service
	log     *zap.SugaredLogger
}

func NewHandler(service Service, log *zap.SugaredLogger) *Handler {
	return &Handler{service: service, log: log.With("handler", "events")}
}

// HandleList serves GET /api/events.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := ListRequest{
		Page:     queryInt(q.Get("page"), 1),
		Limit:    queryInt(q.Get("limit"), 10),
		Category: q.Get("category"),
		City:     q.Get("city"),
		Search:   q.Get("search"),
		SortBy:   q.Get("sortBy"),
		SortDesc: q.Get("sortOrder") == "desc",
	}
	if req.SortBy == "" {
		req.SortBy = "date"
	}
	if t, err := time.Parse(time.RFC3339, q.Get("startDate")); err == nil {
		req.StartDate = &t
	}
	if t, err := time.Parse(time.RFC3339, q.Get("endDate")); err == nil {
		req.EndDate = &t
	}

	items, total, err := h.service.List(r.Context(), req)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	if items == nil {
		items = []*domain.Event{}
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"events":     items,
		"pagination": api.NewPagination(req.Page, req.Limit, total),
	})
}

// HandleGet serves GET /api/events/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	ev, err := h.service.Get(r.Context(), id)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"event": ev})
}

// HandleCreate serves POST /api/events.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFrom(r.Context())

	var req CreateRequest
	if err := api.Decode(r, &req); err != nil {
		api.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ev, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Event created successfully",
		"event":   ev,
	})
}

// HandleUpdate serves PUT /api/events/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFrom(r.Context())
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := api.Decode(r, &req); err != nil {
		api.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ev, err := h.service.Update(r.Context(), actor, id, req)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Event updated successfully",
		"event":   ev,
	})
}

// HandleDelete serves DELETE /api/events/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFrom(r.Context())
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.Message(w, http.StatusOK, "Event deleted successfully")
}

// HandleJoin serves POST /api/events/{id}/join.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFrom(r.Context())
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	count, err := h.service.Join(r.Context(), id, actor.ID)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Successfully joined the event",
		"attendeeCount": count,
	})
}

// HandleLeave serves POST /api/events/{id}/leave.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFrom(r.Context())
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	count, err := h.service.Leave(r.Context(), id, actor.ID)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Successfully left the event",
		"attendeeCount": count,
	})
}

func (h *Handler) eventID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.Message(w, http.StatusBadRequest, "invalid event ID")
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
