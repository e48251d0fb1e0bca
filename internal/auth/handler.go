package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/taskhive/taskhive/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger       *slog.Logger
	service      *Service
	validator    *validator.Validate
	cookieName   string
	cookieSecure bool
	cookieTTL    time.Duration
}

// HandlerConfig groups cookie settings for the auth handler.
type HandlerConfig struct {
	CookieName   string
	CookieSecure bool
	CookieTTL    time.Duration
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, cfg HandlerConfig) *Handler {
	return &Handler{
		logger:       logger,
		service:      service,
		validator:    validator.New(),
		cookieName:   cfg.CookieName,
		cookieSecure: cfg.CookieSecure,
		cookieTTL:    cfg.CookieTTL,
	}
}

// MountRoutes registers unauthenticated auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/signup", h.handleSignup)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

// MountProtected registers auth routes that require a bound identity.
func (h *Handler) MountProtected(r chi.Router) {
	r.Get("/me", h.handleMe)
}

type signupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type sessionResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	token, user, err := h.service.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	h.setTokenCookie(w, token)
	shared.RespondJSON(w, http.StatusCreated, sessionResponse{Token: token, User: user})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	token, user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	h.setTokenCookie(w, token)
	shared.RespondJSON(w, http.StatusOK, sessionResponse{Token: token, User: user})
}

// handleLogout clears the token cookie. Tokens are stateless so there is
// nothing to revoke server-side; bearer copies simply age out.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.RespondError(w, h.logger, shared.ErrTokenMissing)
		return
	}
	user, err := h.service.Me(r.Context(), subjectID)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]PublicUser{"user": user})
}

func (h *Handler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieTTL / time.Second),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
