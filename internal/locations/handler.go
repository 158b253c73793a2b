// internal/locations/handler.go
package locations

import (
	"net/http"
	"strconv"

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
	return &Handler{service: service, log: log.With("handler", "locations")}
}

// HandleList serves GET /api/locations.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := ListRequest{
		Page:       queryInt(q.Get("page"), 1),
		Limit:      queryInt(q.Get("limit"), 10),
		Type:       q.Get("type"),
		Search:     q.Get("search"),
		VenuesOnly: q.Get("worldCupVenues") == "true",
		SortBy:     q.Get("sortBy"),
		SortDesc:   q.Get("sortOrder") == "desc",
	}
	if req.SortBy == "" {
		req.SortBy = "name"
	}
	req.Latitude = queryFloat(q.Get("lat"))
	req.Longitude = queryFloat(q.Get("lng"))
	req.RadiusKm = queryFloat(q.Get("radius"))

	items, total, err := h.service.List(r.Context(), req)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	if items == nil {
		items = []*domain.Location{}
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"locations":  items,
		"pagination": api.NewPagination(req.Page, req.Limit, total),
	})
}

// HandleGet serves GET /api/locations/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.locationID(w, r)
	if !ok {
		return
	}

	loc, err := h.service.Get(r.Context(), id)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"location": loc})
}

// HandleCreate serves POST /api/locations. Admin only.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := api.Decode(r, &req); err != nil {
		api.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	loc, err := h.service.Create(r.Context(), req)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Location created successfully",
		"location": loc,
	})
}

// HandleUpdate serves PUT /api/locations/{id}. Admin only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.locationID(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := api.Decode(r, &req); err != nil {
		api.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	loc, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Location updated successfully",
		"location": loc,
	})
}

// HandleDelete serves DELETE /api/locations/{id}. Admin only; the
// location is deactivated rather than removed.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.locationID(w, r)
	if !ok {
		return
	}

	if err := h.service.Deactivate(r.Context(), id); err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.Message(w, http.StatusOK, "Location deleted successfully")
}

// HandleAddReview serves POST /api/locations/{id}/reviews.
func (h *Handler) HandleAddReview(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFrom(r.Context())
	id, ok := h.locationID(w, r)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := api.Decode(r, &req); err != nil {
		api.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rating, err := h.service.AddReview(r.Context(), id, actor.ID, req)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Review added successfully",
		"rating":  rating,
	})
}

// HandleCheckin serves POST /api/locations/{id}/checkin.
func (h *Handler) HandleCheckin(w http.ResponseWriter, r *http.Request) {
	id, ok := h.locationID(w, r)
	if !ok {
		return
	}

	checkins, err := h.service.Checkin(r.Context(), id)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Checked in successfully",
		"checkins": checkins,
	})
}

// HandleSearch serves GET /api/locations/search. It is the text-first
// variant of the listing and requires a query term.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	term := q.Get("q")
	if term == "" {
		term = q.Get("search")
	}
	if term == "" {
		api.Message(w, http.StatusBadRequest, "search query is required")
		return
	}

	req := ListRequest{
		Page:   queryInt(q.Get("page"), 1),
		Limit:  queryInt(q.Get("limit"), 10),
		Type:   q.Get("type"),
		Search: term,
		SortBy: "name",
	}

	items, total, err := h.service.List(r.Context(), req)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	if items == nil {
		items = []*domain.Location{}
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"locations":  items,
		"pagination": api.NewPagination(req.Page, req.Limit, total),
	})
}

// HandleTypes serves GET /api/locations/types.
func (h *Handler) HandleTypes(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.TypeCounts(r.Context())
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"types": counts})
}

func (h *Handler) locationID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.Message(w, http.StatusBadRequest, "invalid location ID")
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

func queryFloat(raw string) float64 {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return f
}
