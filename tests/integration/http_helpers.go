package integration

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"loginaudit/internal/auth"
	"loginaudit/internal/config"
	"loginaudit/internal/database"
	"loginaudit/internal/handlers"
	middlewareCustom "loginaudit/internal/middleware"
	"loginaudit/internal/models"
	"loginaudit/internal/repositories"
	"loginaudit/internal/routes"
	"loginaudit/internal/services"
)

// TestServer wraps httptest.Server with the full production wiring on top
// of a real database.
type TestServer struct {
	Server *httptest.Server
	DB     *database.DB
	Config *config.Config

	NonceManager *auth.NonceManager
	TokenManager *auth.TokenManager
}

// NewTestServer builds the complete HTTP stack the way main does
func NewTestServer(db *database.DB) *TestServer {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg := &config.Config{
		Auth: config.AuthConfig{
			SessionSecret: "test-secret-32-characters-long!!",
			SessionExpiry: 1 * time.Hour,
			NonceTTL:      15 * time.Minute,
		},
		Server: config.ServerConfig{
			Port: "0",
			Env:  "test",
		},
	}

	attemptRepo := repositories.NewLoginAttemptRepository(db)
	userRepo := repositories.NewUserRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)

	tokenManager := auth.NewTokenManager(cfg.Auth.SessionSecret, cfg.Auth.SessionExpiry)
	nonceManager := auth.NewNonceManager(cfg.Auth.NonceTTL)

	settingsService := services.NewSettingsService(settingsRepo)
	auditService := services.NewAuditService(attemptRepo, userRepo, settingsService, logger)
	authService := services.NewAuthService(userRepo, tokenManager, auditService, logger)

	cookieConfig := auth.CookieConfig{Secure: false}
	authHandler := handlers.NewAuthHandler(authService, cookieConfig, int(cfg.Auth.SessionExpiry.Seconds()), logger)
	adminHandler := handlers.NewAdminHandler(auditService, settingsService, nonceManager, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(r, authHandler, adminHandler, tokenManager)

	return &TestServer{
		Server:       httptest.NewServer(r),
		DB:           db,
		Config:       cfg,
		NonceManager: nonceManager,
		TokenManager: tokenManager,
	}
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	if ts.Server != nil {
		ts.Server.Close()
	}
}

// noRedirectClient returns a client that surfaces redirects instead of
// following them, so tests can assert on Location headers.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// PostForm sends a form-encoded POST with an optional session cookie
func (ts *TestServer) PostForm(path string, form url.Values, session *http.Cookie) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if session != nil {
		req.AddCookie(session)
	}

	return noRedirectClient().Do(req)
}

// Get fetches a path with an optional session cookie
func (ts *TestServer) Get(path string, session *http.Cookie) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, ts.Server.URL+path, nil)
	if err != nil {
		return nil, err
	}
	if session != nil {
		req.AddCookie(session)
	}

	return noRedirectClient().Do(req)
}

// SignIn performs the browser login flow and returns the session cookie
func (ts *TestServer) SignIn(login, password string) (*http.Cookie, error) {
	form := url.Values{"login": {login}, "password": {password}}

	resp, err := ts.PostForm("/login", form, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "la_session" {
			return cookie, nil
		}
	}
	return nil, nil
}

// SessionFor mints a session cookie directly, bypassing the login form.
// Useful when a test needs a non-admin session without burning a rate
// limit slot.
func (ts *TestServer) SessionFor(user *models.User) (*http.Cookie, error) {
	token, err := ts.TokenManager.GenerateSessionToken(user)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{Name: "la_session", Value: token}, nil
}

// ReadBody drains and returns the response body as a string
func ReadBody(resp *http.Response) (string, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return string(body), err
}

// CountAttempts returns the number of rows in login_audit
func CountAttempts(ctx context.Context, db *database.DB) (int, error) {
	var count int
	err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM login_audit").Scan(&count)
	return count, err
}
