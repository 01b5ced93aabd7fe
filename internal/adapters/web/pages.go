package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"medequip-admin/internal/core"
	webui "medequip-admin/web"
	"medequip-admin/web/templates/layouts"
)

// renderer holds one parsed template set per page. Each set is a clone of
// the shared layouts and partials with the page file parsed on top.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer(funcs template.FuncMap) (*renderer, error) {
	base, err := template.New("").Funcs(funcs).ParseFS(webui.Templates,
		"templates/layouts/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}
	files, err := fs.Glob(webui.Templates, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	r := &renderer{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(webui.Templates, f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		r.pages[path.Base(f)] = t
	}
	return r, nil
}

// render writes page with data. HTMX navigation requests targeting
// #main-content receive only the page's "content" block.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	t, ok := h.tmpl.pages[page]
	if !ok {
		http.Error(w, "Page not found", http.StatusInternalServerError)
		return
	}
	name := page
	if r.Header.Get("HX-Request") == "true" && r.Header.Get("HX-Target") == "main-content" {
		name = "content"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		requestLog(r).Error().
			Err(err).
			Str("page", page).
			Msg("render failed")
		http.Error(w, "Render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// buildAppLayoutData constructs AppLayoutData from the session and the
// flash_error / flash_success query parameters.
func (h *Handler) buildAppLayoutData(r *http.Request, title, activeNav string) layouts.AppLayoutData {
	d := layouts.AppLayoutData{
		Title:     title,
		ActiveNav: activeNav,
		Nav:       layouts.Sidebar,
	}
	if s := sessionFromContext(r.Context()); s != nil {
		d.Username = s.Name
		d.Email = s.Email
		d.Role = s.Role
	}
	q := r.URL.Query()
	if fe := q.Get("flash_error"); fe != "" {
		d.FlashMsg = fe
		d.FlashKind = "error"
	} else if fs := q.Get("flash_success"); fs != "" {
		d.FlashMsg = fs
		d.FlashKind = "success"
	}
	return d
}

func (h *Handler) funcMap() template.FuncMap {
	return template.FuncMap{
		"money": h.formatMoney,
		"comma": func(v any) string {
			return humanize.Comma(cast.ToInt64(v))
		},
		"date": func(d core.Date) string {
			if d.IsZero() {
				return "—"
			}
			return d.Format("Jan 2, 2006")
		},
		"inputDate": func(d core.Date) string { return d.String() },
		"ago": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return humanize.RelTime(t, h.now(), "ago", "from now")
		},
		"daysLeft": func(d core.Date) int { return core.DaysUntil(d.Time, h.now()) },
		"expiry":   func(d core.Date) string { return string(core.Expiry(d.Time, h.now())) },
		"label":    statusLabel,
		"pct": func(v any) string {
			return strconv.FormatFloat(cast.ToFloat64(v), 'f', 1, 64)
		},
		"width": func(v any) template.CSS {
			f := cast.ToFloat64(v)
			if f < 0 {
				f = 0
			}
			if f > 100 {
				f = 100
			}
			return template.CSS("width:" + strconv.FormatFloat(f, 'f', 1, 64) + "%")
		},
		"same": func(a, b any) bool { return fmt.Sprint(a) == fmt.Sprint(b) },
		"add":  func(a, b int) int { return a + b },
		"sub":  func(a, b int) int { return a - b },
		"dict": func(values ...any) (map[string]any, error) {
			if len(values)%2 != 0 {
				return nil, errors.New("invalid dict call")
			}
			dict := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, errors.New("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
	}
}

// formatMoney renders an amount in the configured currency. Non-decimal
// values are cast to float first.
func (h *Handler) formatMoney(v any) string {
	var d decimal.Decimal
	switch x := v.(type) {
	case decimal.Decimal:
		d = x
	case *decimal.Decimal:
		if x != nil {
			d = *x
		}
	default:
		d = decimal.NewFromFloat(cast.ToFloat64(v))
	}
	if strings.EqualFold(h.currency, "USD") {
		return core.FormatUSD(d)
	}
	return core.FormatINR(d)
}

// statusLabel turns "in_progress" into "In progress". It accepts the typed
// status constants as well as plain strings.
func statusLabel(v any) string {
	s := strings.ReplaceAll(fmt.Sprint(v), "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ── List page query state ─────────────────────────────────────────────────────

// listQuery is the list state carried in the URL: search, status tab and page.
type listQuery struct {
	Search string
	Status string
	Page   int
	Limit  int
}

// parseListQuery reads the list state from the URL, or for a form POST from
// the page URL the form was submitted from.
func parseListQuery(r *http.Request) listQuery {
	q := r.URL.Query()
	if r.Method == http.MethodPost {
		if u, err := url.Parse(r.PostFormValue("return")); err == nil {
			q = u.Query()
		}
	}
	lq := listQuery{
		Search: strings.TrimSpace(q.Get("q")),
		Status: q.Get("status"),
		Page:   cast.ToInt(q.Get("page")),
		Limit:  cast.ToInt(q.Get("limit")),
	}
	if lq.Page < 1 {
		lq.Page = 1
	}
	if lq.Limit < 1 || lq.Limit > 100 {
		lq.Limit = core.DefaultLimit
	}
	return lq
}

func (lq listQuery) options() core.ListOptions {
	return core.ListOptions{Page: lq.Page, Limit: lq.Limit, Search: lq.Search, Status: lq.Status}
}

func (lq listQuery) values() url.Values {
	v := url.Values{}
	if lq.Search != "" {
		v.Set("q", lq.Search)
	}
	if lq.Status != "" {
		v.Set("status", lq.Status)
	}
	if lq.Limit != core.DefaultLimit {
		v.Set("limit", strconv.Itoa(lq.Limit))
	}
	return v
}

// pageValues is values plus the current page, for return links.
func (lq listQuery) pageValues() url.Values {
	v := lq.values()
	if lq.Page > 1 {
		v.Set("page", strconv.Itoa(lq.Page))
	}
	return v
}

// Link is basePath with the current list state plus key=value. Templates use
// it for the links that open a dialog.
func (lq listQuery) Link(basePath, key, value string) string {
	v := lq.pageValues()
	v.Set(key, value)
	return basePath + "?" + v.Encode()
}

// returnURL is basePath with the current list state.
func returnURL(basePath string, lq listQuery) string {
	if enc := lq.pageValues().Encode(); enc != "" {
		return basePath + "?" + enc
	}
	return basePath
}

// Pager is the prev/next/number strip under a list.
type Pager struct {
	Pagination core.Pagination
	Prev       string
	Next       string
	Pages      []PageLink
	// From and To are the 1-based item range shown on this page.
	From, To int
}

type PageLink struct {
	Number  int
	Href    string
	Current bool
}

// pagerWindow is how many page numbers are shown around the current one.
const pagerWindow = 2

func buildPager(basePath string, lq listQuery, p core.Pagination) Pager {
	pg := Pager{Pagination: p}
	if p.TotalPages <= 1 {
		if p.Total > 0 {
			pg.From, pg.To = 1, p.Total
		}
		return pg
	}
	href := func(n int) string {
		v := lq.values()
		v.Set("page", strconv.Itoa(n))
		return basePath + "?" + v.Encode()
	}
	if p.HasPrev() {
		pg.Prev = href(p.Page - 1)
	}
	if p.HasNext() {
		pg.Next = href(p.Page + 1)
	}
	lo, hi := p.Page-pagerWindow, p.Page+pagerWindow
	if lo < 1 {
		lo = 1
	}
	if hi > p.TotalPages {
		hi = p.TotalPages
	}
	for n := lo; n <= hi; n++ {
		pg.Pages = append(pg.Pages, PageLink{Number: n, Href: href(n), Current: n == p.Page})
	}
	limit := p.Limit
	if limit < 1 {
		limit = core.DefaultLimit
	}
	pg.From = (p.Page-1)*limit + 1
	pg.To = pg.From + limit - 1
	if pg.To > p.Total {
		pg.To = p.Total
	}
	return pg
}

// listURL is basePath with the list state, used as a redirect target after mutations.
func listURL(basePath string, r *http.Request) string {
	ref := r.FormValue("return")
	if strings.HasPrefix(ref, basePath) && !strings.Contains(ref, "//") {
		return ref
	}
	return basePath
}

// ── Dialog form state ─────────────────────────────────────────────────────────

// formState is a create/edit dialog: open or closed, its current values and
// any field errors from the last submission.
type formState struct {
	Open   bool
	ID     string
	Values map[string]string
	Errors core.ValidationErrors
}

func (f formState) Editing() bool { return f.ID != "" }

func (f formState) Value(name string) string { return f.Values[name] }

func (f formState) Err(name string) string { return f.Errors.Field(name) }

func newForm(id string, values map[string]string) formState {
	if values == nil {
		values = map[string]string{}
	}
	return formState{Open: true, ID: id, Values: values}
}

// formValues flattens the submitted form for re-rendering.
func formValues(r *http.Request) map[string]string {
	out := make(map[string]string, len(r.PostForm))
	for k, v := range r.PostForm {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
