package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"medequip-admin/internal/api"
	"medequip-admin/internal/app"
	"medequip-admin/internal/core"
)

const sessionCookie = "auth_token"

type sessionKey struct{}

// Session is the signed-in user, recovered from the auth_token cookie.
// Token is the backend bearer token.
type Session struct {
	Token string
	Name  string
	Email string
	Role  string
}

// sessionFromContext returns the session stored in ctx, or nil.
func sessionFromContext(ctx context.Context) *Session {
	v, _ := ctx.Value(sessionKey{}).(*Session)
	return v
}

// sessionClaims is the JWT payload struct used for signing and parsing.
type sessionClaims struct {
	Token string `json:"tok"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (h *Handler) parseSession(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, err
	}
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired session")
	}
	if claims.Token == "" {
		return nil, errors.New("session has no backend token")
	}
	return &Session{Token: claims.Token, Name: claims.Name, Email: claims.Email, Role: claims.Role}, nil
}

// withSession stores s and a per-request token store in the context. The
// store is what the API client authenticates from.
func withSession(ctx context.Context, s *Session) context.Context {
	ctx = context.WithValue(ctx, sessionKey{}, s)
	return api.WithTokenStore(ctx, api.NewMemoryTokenStore(s.Token))
}

// RequireAuth is chi middleware that validates the auth_token cookie and injects
// the session into the request context. Returns 401 if the token is absent or invalid.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := h.parseSession(r)
		if err != nil {
			writeError(w, r, "authentication required", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), s)))
	})
}

// RequireAuthBrowser is middleware for HTML page routes. Unlike RequireAuth (which returns 401 JSON),
// this middleware redirects unauthenticated requests to /login.
func (h *Handler) RequireAuthBrowser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := h.parseSession(r)
		if err != nil {
			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Redirect", "/login")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), s)))
	})
}

// startSession signs the backend token and user into the auth_token cookie.
func (h *Handler) startSession(w http.ResponseWriter, res *core.AuthResult) error {
	now := time.Now()
	claims := &sessionClaims{
		Token: res.Token,
		Name:  res.User.Name,
		Email: res.User.Email,
		Role:  res.User.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   res.User.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(h.sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.sessionTTL.Seconds()),
	})
	return nil
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}

// ── Login / register pages ────────────────────────────────────────────────────

type authPageData struct {
	Title  string
	Error  string
	Name   string
	Email  string
	Errors core.ValidationErrors
}

// loginPage handles GET /login. Redirects to / if already signed in.
func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := h.parseSession(r); err == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, "login.html", authPageData{Title: "Sign in", Error: r.URL.Query().Get("flash_error")})
}

// loginFormSubmit handles POST /login.
func (h *Handler) loginFormSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "login.html", authPageData{Title: "Sign in", Error: "Invalid form submission."})
		return
	}
	req := app.LoginRequest{Email: r.FormValue("email"), Password: r.FormValue("password")}
	data := authPageData{Title: "Sign in", Email: req.Email}

	ctx := api.WithTokenStore(r.Context(), &api.MemoryTokenStore{})
	res, err := h.svc.Login(ctx, req)
	if err != nil {
		if verrs, ok := core.AsValidationErrors(err); ok {
			data.Errors = verrs
			h.render(w, r, http.StatusUnprocessableEntity, "login.html", data)
			return
		}
		data.Error = userMessage(err, "Login failed")
		h.render(w, r, http.StatusUnauthorized, "login.html", data)
		return
	}
	if err := h.startSession(w, res); err != nil {
		data.Error = "Server error. Please try again."
		h.render(w, r, http.StatusInternalServerError, "login.html", data)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// registerPage handles GET /register.
func (h *Handler) registerPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register.html", authPageData{Title: "Create account"})
}

// registerFormSubmit handles POST /register. The password must be confirmed.
func (h *Handler) registerFormSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "register.html", authPageData{Title: "Create account", Error: "Invalid form submission."})
		return
	}
	req := app.RegisterRequest{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	data := authPageData{Title: "Create account", Name: req.Name, Email: req.Email}
	if req.Password != r.FormValue("confirm_password") {
		data.Error = "Passwords do not match"
		h.render(w, r, http.StatusUnprocessableEntity, "register.html", data)
		return
	}

	ctx := api.WithTokenStore(r.Context(), &api.MemoryTokenStore{})
	res, err := h.svc.Register(ctx, req)
	if err != nil {
		if verrs, ok := core.AsValidationErrors(err); ok {
			data.Errors = verrs
			h.render(w, r, http.StatusUnprocessableEntity, "register.html", data)
			return
		}
		data.Error = userMessage(err, "Registration failed")
		h.render(w, r, http.StatusBadRequest, "register.html", data)
		return
	}
	if err := h.startSession(w, res); err != nil {
		data.Error = "Server error. Please try again."
		h.render(w, r, http.StatusInternalServerError, "register.html", data)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// logoutPage handles POST /logout. Clears the cookie and redirects to login.
func (h *Handler) logoutPage(w http.ResponseWriter, r *http.Request) {
	if s, err := h.parseSession(r); err == nil {
		h.svc.Logout(withSession(r.Context(), s))
	}
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// me handles GET /api/me and returns the signed-in user.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	if s == nil {
		writeError(w, r, "not authenticated", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}
	type meResponse struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role,omitempty"`
	}
	writeJSON(w, meResponse{Name: s.Name, Email: s.Email, Role: s.Role})
}
