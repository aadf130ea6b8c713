package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"loginaudit/internal/auth"
	"loginaudit/internal/models"
	"loginaudit/internal/services"
	pkghttp "loginaudit/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Login(ctx context.Context, login, password, remoteAddr string) (*services.LoginResult, error)
}

// AuthHandler handles operator sign-in for both the browser form and the
// JSON API surface
type AuthHandler struct {
	service      AuthServiceInterface
	cookieConfig auth.CookieConfig
	sessionTTL   int // seconds
	tmpl         *template.Template
	logger       *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, cookieConfig auth.CookieConfig, sessionTTL int, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service:      service,
		cookieConfig: cookieConfig,
		sessionTTL:   sessionTTL,
		tmpl:         parseTemplates(),
		logger:       logger,
	}
}

// LoginRequest represents the JSON request body for login
type LoginRequest struct {
	Login    string `json:"login" validate:"required,max=200"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the JSON response for a successful login
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ShowLoginForm handles GET /login
func (h *AuthHandler) ShowLoginForm(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Title string
		Error string
	}{Title: "Sign in"}

	if r.URL.Query().Get("err") != "" {
		data.Error = "Invalid username or password."
	}

	renderTemplate(w, h.tmpl, http.StatusOK, "login", data)
}

// HandleLoginForm handles POST /login from the browser form. A failed
// attempt has already been dispatched to the recorder by the service
// before this handler sees the error.
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/login?err=1", http.StatusSeeOther)
		return
	}

	req := LoginRequest{
		Login:    r.PostFormValue("login"),
		Password: r.PostFormValue("password"),
	}
	if err := ValidateRequest(req); err != nil {
		http.Redirect(w, r, "/login?err=1", http.StatusSeeOther)
		return
	}

	result, err := h.service.Login(r.Context(), req.Login, req.Password, pkghttp.ExtractClientIP(r))
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			http.Redirect(w, r, "/login?err=1", http.StatusSeeOther)
			return
		}
		h.logger.ErrorContext(r.Context(), "login failed", slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	auth.SetSessionCookie(w, result.Token, h.sessionTTL, h.cookieConfig)
	http.Redirect(w, r, "/admin/failed-logins", http.StatusSeeOther)
}

// Login handles POST /api/auth/login for non-browser clients
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	result, err := h.service.Login(r.Context(), req.Login, req.Password, pkghttp.ExtractClientIP(r))
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			pkghttp.WriteUnauthorized(w, "Invalid credentials")
			return
		}
		h.logger.ErrorContext(r.Context(), "login failed", slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Login failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(LoginResponse{
		Token:    result.Token,
		Username: result.User.Username,
		Role:     result.User.Role,
	})
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.cookieConfig)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
