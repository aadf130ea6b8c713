package handlers

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"loginaudit/internal/auth"
	"loginaudit/internal/models"
	pkglogger "loginaudit/pkg/logger"
)

const adminLogsPath = "/admin/failed-logins"

// AuditQueryService defines the audit operations the admin screen needs
type AuditQueryService interface {
	ListAttempts(ctx context.Context) ([]*models.LoginAttempt, error)
	GetAttempt(ctx context.Context, id int64) (*models.LoginAttempt, error)
	DeleteAttempt(ctx context.Context, id int64) (bool, error)
}

// PolicyService defines the settings operations the admin screen needs
type PolicyService interface {
	LogUnknownLogins(ctx context.Context) (bool, error)
	SetLogUnknownLogins(ctx context.Context, enabled bool) error
}

// AdminHandler serves the failed-logins admin screen: list view, single
// view, settings update, and record deletion. Mutations check the
// action-scoped nonce first, then the admin role; a bad nonce is a hard
// 403 while a missing role is a silent redirect back to the list.
type AdminHandler struct {
	audit   AuditQueryService
	policy  PolicyService
	nonces  *auth.NonceManager
	tmpl    *template.Template
	logger  *slog.Logger
	actions *pkglogger.AuditLogger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(audit AuditQueryService, policy PolicyService, nonces *auth.NonceManager, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		audit:   audit,
		policy:  policy,
		nonces:  nonces,
		tmpl:    parseTemplates(),
		logger:  logger,
		actions: pkglogger.NewAuditLogger(logger),
	}
}

// SettingsRequest is the typed form of the settings update body
type SettingsRequest struct {
	Nonce         string `validate:"required"`
	UnknownLogins string
}

// DeleteLogRequest is the typed form of the delete-log body
type DeleteLogRequest struct {
	Nonce string `validate:"required"`
	ID    int64
}

// deleteNonceAction builds the per-record nonce scope for deletions
func deleteNonceAction(id int64) string {
	return fmt.Sprintf("delete-log-%d", id)
}

// ShowLogs handles GET /admin/failed-logins. An optional positive `id`
// query parameter switches from the full list to a single record view;
// anything else falls back to the list so the screen always renders.
func (h *AdminHandler) ShowLogs(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil || claims.Role != models.RoleAdmin {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if idStr := r.URL.Query().Get("id"); idStr != "" {
		if id, err := strconv.ParseInt(idStr, 10, 64); err == nil && id > 0 {
			h.viewOne(w, r, claims, id)
			return
		}
	}

	h.viewAll(w, r, claims)
}

// viewAll renders every record plus the settings form
func (h *AdminHandler) viewAll(w http.ResponseWriter, r *http.Request, claims *models.SessionClaims) {
	attempts, err := h.audit.ListAttempts(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list login attempts", slog.Any("error", err))
		h.renderError(w, http.StatusInternalServerError, "Could not load the failed login records.")
		return
	}

	logUnknown, err := h.policy.LogUnknownLogins(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to read settings", slog.Any("error", err))
		h.renderError(w, http.StatusInternalServerError, "Could not load the plugin settings.")
		return
	}

	settingsNonce, err := h.nonces.Generate(claims.UserID, "settings")
	if err != nil {
		h.renderError(w, http.StatusInternalServerError, "Could not prepare the settings form.")
		return
	}

	data := struct {
		Title            string
		Banner           string
		Attempts         []*models.LoginAttempt
		LogUnknownLogins bool
		SettingsNonce    string
	}{
		Title:            "Failed logins",
		Banner:           bannerFor(r.URL.Query().Get("msg")),
		Attempts:         attempts,
		LogUnknownLogins: logUnknown,
		SettingsNonce:    settingsNonce,
	}

	renderTemplate(w, h.tmpl, http.StatusOK, "logs_list", data)
}

// viewOne renders a single record with its delete form. A missing id is a
// normal outcome, not an error.
func (h *AdminHandler) viewOne(w http.ResponseWriter, r *http.Request, claims *models.SessionClaims, id int64) {
	attempt, err := h.audit.GetAttempt(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			data := struct {
				Title string
				ID    int64
			}{Title: "Failed login", ID: id}
			renderTemplate(w, h.tmpl, http.StatusOK, "log_missing", data)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to load login attempt", slog.Any("error", err))
		h.renderError(w, http.StatusInternalServerError, "Could not load the record.")
		return
	}

	deleteNonce, err := h.nonces.Generate(claims.UserID, deleteNonceAction(id))
	if err != nil {
		h.renderError(w, http.StatusInternalServerError, "Could not prepare the delete form.")
		return
	}

	data := struct {
		Title       string
		Attempt     *models.LoginAttempt
		DeleteNonce string
	}{
		Title:       "Failed login",
		Attempt:     attempt,
		DeleteNonce: deleteNonce,
	}

	renderTemplate(w, h.tmpl, http.StatusOK, "log_view", data)
}

// UpdateSettings handles POST /admin/settings. Nonce check precedes the
// role check; a checkbox value is coerced to the stored "0"/"1" flag with
// absent meaning off.
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderError(w, http.StatusBadRequest, "Malformed request body.")
		return
	}

	req := SettingsRequest{
		Nonce:         r.PostFormValue("_nonce"),
		UnknownLogins: r.PostFormValue("dvp_unknown_logins"),
	}

	if err := ValidateRequest(req); err != nil || !h.nonces.Verify(req.Nonce, claims.UserID, "settings") {
		h.renderNonceError(w)
		return
	}

	if claims.Role != models.RoleAdmin {
		http.Redirect(w, r, adminLogsPath, http.StatusSeeOther)
		return
	}

	// Absent or malformed checkbox value means off
	enabled := false
	if v, err := strconv.Atoi(req.UnknownLogins); err == nil && v != 0 {
		enabled = true
	}

	if err := h.policy.SetLogUnknownLogins(r.Context(), enabled); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to update settings", slog.Any("error", err))
		h.renderError(w, http.StatusInternalServerError, "Could not save the settings.")
		return
	}

	h.nonces.Revoke(req.Nonce)
	h.actions.LogAdminAction("settings_updated", claims.UserID, map[string]string{
		"dvp_unknown_logins": strconv.FormatBool(enabled),
	})

	http.Redirect(w, r, adminLogsPath+"?msg=settings", http.StatusSeeOther)
}

// DeleteLog handles POST /admin/delete-log. The nonce scope embeds the
// record id, so a token minted for one record cannot delete another.
// Deleting an id that no longer exists still redirects with the success
// banner, matching the screen's long-standing behavior.
func (h *AdminHandler) DeleteLog(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderError(w, http.StatusBadRequest, "Malformed request body.")
		return
	}

	id, _ := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
	req := DeleteLogRequest{
		Nonce: r.PostFormValue("_nonce"),
		ID:    id,
	}

	if err := ValidateRequest(req); err != nil || !h.nonces.Verify(req.Nonce, claims.UserID, deleteNonceAction(req.ID)) {
		h.renderNonceError(w)
		return
	}

	if claims.Role != models.RoleAdmin {
		http.Redirect(w, r, adminLogsPath, http.StatusSeeOther)
		return
	}

	target := adminLogsPath
	if req.ID > 0 {
		existed, err := h.audit.DeleteAttempt(r.Context(), req.ID)
		if err != nil {
			h.logger.ErrorContext(r.Context(), "failed to delete login attempt", slog.Any("error", err))
			h.renderError(w, http.StatusInternalServerError, "Could not delete the record.")
			return
		}

		h.nonces.Revoke(req.Nonce)
		h.actions.LogAdminAction("log_deleted", claims.UserID, map[string]string{
			"id":      strconv.FormatInt(req.ID, 10),
			"existed": strconv.FormatBool(existed),
		})
		target += "?msg=delete"
	}

	http.Redirect(w, r, target, http.StatusSeeOther)
}

// bannerFor maps the one-shot msg query parameter to its banner text
func bannerFor(msg string) string {
	switch msg {
	case "delete":
		return "Log successfully deleted."
	case "settings":
		return "Settings successfully saved."
	default:
		return ""
	}
}

func (h *AdminHandler) renderError(w http.ResponseWriter, statusCode int, message string) {
	data := struct {
		Title   string
		Message string
	}{Title: "Error", Message: message}

	renderTemplate(w, h.tmpl, statusCode, "error", data)
}

func (h *AdminHandler) renderNonceError(w http.ResponseWriter) {
	h.renderError(w, http.StatusForbidden,
		"The security token for this action is missing or has expired. Go back and try again.")
}
