// internal/events/handler_test.go
package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agadirhub/internal/auth"
	"agadirhub/internal/domain"
	"agadirhub/internal/guard"
	"agadirhub/internal/store"
)

func newTestRouter(t *testing.T, actor *domain.User) (chi.Router, Service) {
	t.Helper()

	mem := store.NewMemory()
	g := guard.New(mem, zap.NewNop().Sugar())
	svc := NewService(mem, g, zap.NewNop().Sugar())
	h := NewHandler(svc, zap.NewNop().Sugar())

	withActor := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), actor)))
		})
	}

	r := chi.NewRouter()
	r.Get("/api/events", h.HandleList)
	r.Get("/api/events/{id}", h.HandleGet)
	r.Group(func(r chi.Router) {
		r.Use(withActor)
		r.Post("/api/events", h.HandleCreate)
		r.Put("/api/events/{id}", h.HandleUpdate)
		r.Delete("/api/events/{id}", h.HandleDelete)
		r.Post("/api/events/{id}/join", h.HandleJoin)
		r.Post("/api/events/{id}/leave", h.HandleLeave)
	})
	return r, svc
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func handlerActor() *domain.User {
	return &domain.User{
		ID:        uuid.New(),
		FirstName: "Sara",
		LastName:  "Alaoui",
		Email:     "sara@example.com",
		Role:      domain.RoleUser,
		IsActive:  true,
	}
}

func TestHandleCreateAndGet(t *testing.T) {
	actor := handlerActor()
	router, _ := newTestRouter(t, actor)

	rec := doJSON(t, router, http.MethodPost, "/api/events", CreateRequest{
		Title:       "Argan Oil Workshop",
		Description: "Hands-on cooperative visit and tasting.",
		Date:        time.Now().Add(72 * time.Hour),
		Location:    "Cooperative Marjana",
		Category:    domain.CategoryEducation,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	created := body["event"].(map[string]interface{})
	id := created["id"].(string)
	assert.Equal(t, actor.ID.String(), created["organizerId"])
	assert.Equal(t, "published", created["status"])

	rec = doJSON(t, router, http.MethodGet, "/api/events/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decodeBody(t, rec)["event"].(map[string]interface{})
	assert.Equal(t, "Argan Oil Workshop", fetched["title"])
}

func TestHandleCreateValidationErrors(t *testing.T) {
	router, _ := newTestRouter(t, handlerActor())

	rec := doJSON(t, router, http.MethodPost, "/api/events", CreateRequest{
		Title:    "",
		Category: "parade",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	violations := body["errors"].([]interface{})
	assert.NotEmpty(t, violations)
}

func TestHandleListPaginationEnvelope(t *testing.T) {
	actor := handlerActor()
	router, svc := newTestRouter(t, actor)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := svc.Create(ctx, actor, CreateRequest{
			Title:       fmt.Sprintf("Event %02d", i),
			Description: "Listing fixture.",
			Date:        time.Now().Add(time.Duration(i+1) * 24 * time.Hour),
			Location:    "Agadir",
			Category:    domain.CategoryCommunity,
		})
		require.NoError(t, err)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/events?page=2&limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	items := body["events"].([]interface{})
	assert.Len(t, items, 5)

	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["current"])
	assert.Equal(t, float64(3), pagination["pages"])
	assert.Equal(t, float64(12), pagination["total"])
	assert.Equal(t, true, pagination["hasNext"])
	assert.Equal(t, true, pagination["hasPrev"])
}

func TestHandleJoinLifecycle(t *testing.T) {
	actor := handlerActor()
	router, svc := newTestRouter(t, actor)

	capacity := 1
	created, err := svc.Create(context.Background(), actor, CreateRequest{
		Title:        "Tiny Meetup",
		Description:  "One seat only.",
		Date:         time.Now().Add(24 * time.Hour),
		Location:     "Agadir",
		Category:     domain.CategoryCommunity,
		MaxAttendees: &capacity,
	})
	require.NoError(t, err)
	path := "/api/events/" + created.ID.String()

	rec := doJSON(t, router, http.MethodPost, path+"/join", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, rec)["attendeeCount"])

	rec = doJSON(t, router, http.MethodPost, path+"/join", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, path+"/leave", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decodeBody(t, rec)["attendeeCount"])
}

func TestHandleJoinUnknownEvent(t *testing.T) {
	router, _ := newTestRouter(t, handlerActor())

	rec := doJSON(t, router, http.MethodPost, "/api/events/"+uuid.NewString()+"/join", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/events/not-a-uuid/join", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUpdateForbiddenForStranger(t *testing.T) {
	organizer := handlerActor()
	stranger := handlerActor()
	stranger.ID = uuid.New()

	routerAsStranger, svc := newTestRouter(t, stranger)

	created, err := svc.Create(context.Background(), organizer, CreateRequest{
		Title:       "Protected Event",
		Description: "Only the organizer edits this.",
		Date:        time.Now().Add(24 * time.Hour),
		Location:    "Agadir",
		Category:    domain.CategoryBusiness,
	})
	require.NoError(t, err)

	rec := doJSON(t, routerAsStranger, http.MethodPut, "/api/events/"+created.ID.String(),
		map[string]string{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleDelete(t *testing.T) {
	actor := handlerActor()
	router, svc := newTestRouter(t, actor)

	created, err := svc.Create(context.Background(), actor, CreateRequest{
		Title:       "Disposable",
		Description: "Created to be removed.",
		Date:        time.Now().Add(24 * time.Hour),
		Location:    "Agadir",
		Category:    domain.CategoryCommunity,
	})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodDelete, "/api/events/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/events/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
