package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"medequip-admin/internal/api"
	"medequip-admin/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// userMessage is the text shown to the user for err: the backend's own
// message when there is one.
func userMessage(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, core.ErrInvalidPaymentAmount) || errors.Is(err, core.ErrNoInvoiceItems) {
		return err.Error()
	}
	if _, ok := core.AsValidationErrors(err); ok {
		return err.Error()
	}
	return fallback
}

// sessionEnded handles a backend 401: the cookie is dropped and the browser
// sent to /login. It reports whether err was a 401.
func (h *Handler) sessionEnded(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, api.ErrUnauthorized) {
		return false
	}
	h.clearSessionCookie(w)
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusUnauthorized)
		return true
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return true
}

// actionFailed redirects back to target with a flash error, the page-level
// equivalent of a blocking alert.
func (h *Handler) actionFailed(w http.ResponseWriter, r *http.Request, target string, err error, fallback string) {
	if h.sessionEnded(w, r, err) {
		return
	}
	requestLog(r).Warn().
		Err(err).
		Str("path", r.URL.Path).
		Msg("action failed")
	redirectFlash(w, r, target, "flash_error", userMessage(err, fallback))
}

// redirectFlash appends a flash parameter to target and redirects with 303.
func redirectFlash(w http.ResponseWriter, r *http.Request, target, kind, msg string) {
	u, err := url.Parse(target)
	if err != nil {
		u = &url.URL{Path: "/"}
	}
	q := u.Query()
	q.Set(kind, msg)
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}

// notFoundPage renders a plain 404 for unknown browser routes.
func notFoundPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`<!DOCTYPE html><html><body style="font-family:sans-serif;padding:2rem">
<h2>Page not found</h2><p>The page you are looking for does not exist.</p>
<a href="/" style="color:#1e293b">← Back to Dashboard</a>
</body></html>`))
}
