// internal/api/respond.go

// Package api holds the JSON response and error-mapping helpers shared by
// all HTTP handlers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"agadirhub/internal/domain"
)

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes a plain {"message": ...} body.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// Error maps a domain error to its HTTP status. Validation, conflict and
// capacity outcomes are client errors; anything unrecognised is treated as a
// storage-level failure, logged, and reported as a 500.
func Error(w http.ResponseWriter, log *zap.SugaredLogger, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		JSON(w, http.StatusBadRequest, map[string]interface{}{
			"message": "validation failed",
			"errors":  ve.Violations,
		})
	case errors.Is(err, domain.ErrConflict):
		Message(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCapacityExceeded):
		Message(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		Message(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrNotFound):
		Message(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrForbidden):
		Message(w, http.StatusForbidden, "not authorized")
	default:
		log.Errorw("request failed", "error", err)
		Message(w, http.StatusInternalServerError, "internal server error")
	}
}

// Decode reads a JSON request body into dst.
func Decode(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// Pagination is the listing envelope shared by events and locations.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

// NewPagination derives the envelope from the page window and total count.
func NewPagination(page, size int, total int64) Pagination {
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return Pagination{
		Current: page,
		Pages:   pages,
		Total:   total,
		HasNext: int64(page*size) < total,
		HasPrev: page > 1,
	}
}
