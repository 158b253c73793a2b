// internal/users/handler.go
package users

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"agadirhub/internal/api"
	"agadirhub/internal/auth"
)

// loginLimiter throttles credential checks per email address so a stolen
// address list cannot be brute-forced through the login route.
type loginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newLoginLimiter() *loginLimiter {
	return &loginLimiter{limiters: make(map[string]*rate.Limiter)}
}

func (l *loginLimiter) allow(email string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[email]
	if !ok {
		lim = rate.NewLimiter(rate.Every(12*time.Second), 5)
		l.limiters[email] = lim
	}
	return lim.Allow()
}

type Handler struct {
	service Service
	tokens  *auth.Tokens
	limiter *loginLimiter
	log     *zap.SugaredLogger
}

func NewHandler(service Service, tokens *auth.Tokens, log *zap.SugaredLogger) *Handler {
	return &Handler{
		service: service,
		tokens:  tokens,
		limiter: newLoginLimiter(),
		log:     log.With("handler", "users"),
	}
}

// HandleRegister serves POST /api/users/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := api.Decode(r, &req); err != nil {
		api.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.service.Register(r.Context(), req)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}

	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	h.setSessionCookie(w, token)

	api.JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Registration successful",
		"user":    u,
		"token":   token,
	})
}

// HandleLogin serves POST /api/users/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := api.Decode(r, &req); err != nil {
		api.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.limiter.allow(strings.ToLower(strings.TrimSpace(req.Email))) {
		api.Message(w, http.StatusTooManyRequests, "too many login attempts, try again later")
		return
	}

	u, err := h.service.Login(r.Context(), req)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}

	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	h.setSessionCookie(w, token)

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    u,
		"token":   token,
	})
}

// HandleLogout serves POST /api/auth/logout by expiring the session cookie.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	api.Message(w, http.StatusOK, "Logout successful")
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// HandleMe serves GET /api/auth/me with the authenticated actor.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFrom(r.Context())
	api.JSON(w, http.StatusOK, map[string]interface{}{"user": actor})
}

// HandleProfile serves GET /api/users/profile.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFrom(r.Context())

	u, err := h.service.Profile(r.Context(), actor.ID)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"user": u})
}

// HandleUpdateProfile serves PUT /api/users/profile.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFrom(r.Context())

	var req UpdateProfileRequest
	if err := api.Decode(r, &req); err != nil {
		api.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.service.UpdateProfile(r.Context(), actor.ID, req)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"user":    u,
	})
}

// HandleChangePassword serves PUT /api/users/password.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFrom(r.Context())

	var req ChangePasswordRequest
	if err := api.Decode(r, &req); err != nil {
		api.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.ChangePassword(r.Context(), actor.ID, req); err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.Message(w, http.StatusOK, "Password changed successfully")
}

// HandleDeleteAccount serves DELETE /api/users/account. Accounts are
// deactivated rather than removed, which also ends the session on the
// next authenticated request.
func (h *Handler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFrom(r.Context())

	if err := h.service.DeactivateAccount(r.Context(), actor.ID); err != nil {
		api.Error(w, h.log, err)
		return
	}
	clearSessionCookie(w)
	api.Message(w, http.StatusOK, "Account deactivated successfully")
}

// HandleStats serves GET /api/users/stats.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"stats": stats})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokens.TTL()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
