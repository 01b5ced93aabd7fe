package web

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"medequip-admin/internal/app"
	"medequip-admin/internal/config"
	webui "medequip-admin/web"
)

// Handler holds the ApplicationService, the chi router and the session settings.
type Handler struct {
	svc          app.ApplicationService
	router       chi.Router
	tmpl         *renderer
	jwtSecret    string
	sessionTTL   time.Duration
	cookieSecure bool
	currency     string
	fileServer   http.Handler
	now          func() time.Time
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, cfg *config.Config) (http.Handler, error) {
	staticFS, err := fs.Sub(webui.Static, "static")
	if err != nil {
		return nil, fmt.Errorf("web/static embed sub-FS failed: %w", err)
	}

	h := &Handler{
		svc:          svc,
		jwtSecret:    cfg.JWTSecret,
		sessionTTL:   cfg.SessionTTL,
		cookieSecure: cfg.CookieSecure,
		currency:     cfg.Currency,
		fileServer:   http.FileServer(http.FS(staticFS)),
		now:          time.Now,
	}
	if h.sessionTTL <= 0 {
		h.sessionTTL = time.Hour
	}
	h.tmpl, err = newRenderer(h.funcMap())
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(cfg.AllowedOrigins))
	r.NotFound(notFoundPage)

	// ── Health (public) ───────────────────────────────────────────────────────
	r.Get("/healthz", h.health)

	// ── Static files served at /static/* ─────────────────────────────────────
	r.Get("/static/*", func(w http.ResponseWriter, req *http.Request) {
		http.StripPrefix("/static", h.fileServer).ServeHTTP(w, req)
	})

	// ── Browser login/register/logout (public HTML) ──────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(limitBody(64 << 10))
		r.Get("/login", h.loginPage)
		r.Post("/login", h.loginFormSubmit)
		r.Get("/register", h.registerPage)
		r.Post("/register", h.registerFormSubmit)
		r.Post("/logout", h.logoutPage)
	})

	// ── Protected browser routes (redirect to /login if unauthenticated) ─────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuthBrowser)
		r.Use(limitBody(1 << 20)) // 1 MB

		r.Get("/", h.dashboardPage)

		r.Get("/customers", h.customersPage)
		r.Post("/customers", h.customerCreate)
		r.Post("/customers/{id}", h.customerUpdate)
		r.Post("/customers/{id}/delete", h.customerDelete)

		r.Get("/inventory", h.inventoryPage)
		r.Post("/inventory", h.machineCreate)
		r.Post("/inventory/{id}", h.machineUpdate)
		r.Post("/inventory/{id}/delete", h.machineDelete)
		r.Post("/inventory/{id}/stock", h.machineStock)

		r.Get("/services", h.servicesPage)
		r.Post("/services", h.serviceCreate)
		r.Post("/services/{id}", h.serviceUpdate)
		r.Post("/services/{id}/delete", h.serviceDelete)

		r.Get("/invoices", h.invoicesPage)
		r.Post("/invoices", h.invoiceCreate)
		r.Post("/invoices/{id}", h.invoiceUpdate)
		r.Post("/invoices/{id}/delete", h.invoiceDelete)
		r.Post("/invoices/{id}/payment", h.invoicePayment)
		r.Post("/invoices/{id}/mark-paid", h.invoiceMarkPaid)

		r.Get("/amcs", h.amcsPage)
		r.Post("/amcs", h.amcCreate)
		r.Post("/amcs/{id}", h.amcUpdate)
		r.Post("/amcs/{id}/delete", h.amcDelete)
		r.Post("/amcs/{id}/remind", h.amcRemind)

		r.Get("/reports", h.reportsPage)
		r.Get("/reports/export.xlsx", h.reportsExport)
	})

	// ── Protected API routes (return 401 JSON if unauthenticated) ────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Get("/api/me", h.me)
		r.Get("/api/invoices/stats", h.apiInvoiceStats)
	})

	h.router = r
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// health reports liveness. The backend is not contacted.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
		Time   string `json:"time"`
	}
	writeJSON(w, response{Status: "ok", Time: h.now().UTC().Format(time.RFC3339)})
}

// idParam extracts the {id} URL parameter.
func idParam(r *http.Request) string {
	return chi.URLParam(r, "id")
}
