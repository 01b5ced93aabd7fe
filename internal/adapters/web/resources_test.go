package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// capture answers route with body and records the decoded request JSON.
func (b *backend) capture(route string, status int, body any, into *map[string]any) {
	b.routes[route] = func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(into)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func getPage(t *testing.T, h *Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.AddCookie(signIn(t, h, "tok"))
	return serve(h, req)
}

func TestMachineCreate_PricesRequired(t *testing.T) {
	b := newBackend()
	b.on("GET /machines", http.StatusOK, page([]any{}))
	h := newTestHandler(t, b)

	form := url.Values{"name": {"ECG"}, "stockQuantity": {"1"}, "return": {"/inventory"}}
	rec := serve(h, postForm("/inventory", form, signIn(t, h, "tok")))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	if b.called("POST /machines") {
		t.Error("create call made without prices")
	}
	body := rec.Body.String()
	for _, want := range []string{"Purchase price is required", "Selling price is required"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestMachineStock(t *testing.T) {
	tests := []struct {
		name      string
		quantity  string
		wantQty   float64
		wantCall  bool
		wantFlash string
		flashKey  string
	}{
		{"valid", "7", 7, true, "Stock updated", "flash_success"},
		{"zero", "0", 0, true, "Stock updated", "flash_success"},
		{"negative", "-3", 0, false, "quantity: must not be negative", "flash_error"},
		{"not a number", "lots", 0, false, "quantity: must be a whole number", "flash_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend()
			var sent map[string]any
			b.capture("PATCH /machines/m1/stock", http.StatusOK, envelope(map[string]any{"id": "m1"}), &sent)
			h := newTestHandler(t, b)

			form := url.Values{"quantity": {tt.quantity}, "return": {"/inventory?page=2"}}
			rec := serve(h, postForm("/inventory/m1/stock", form, signIn(t, h, "tok")))
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d", rec.Code)
			}
			if got := b.called("PATCH /machines/m1/stock"); got != tt.wantCall {
				t.Fatalf("backend called = %v, want %v", got, tt.wantCall)
			}
			loc, _ := url.Parse(rec.Header().Get("Location"))
			if loc.Path != "/inventory" || loc.Query().Get("page") != "2" {
				t.Errorf("Location = %s", loc)
			}
			if got := loc.Query().Get(tt.flashKey); !strings.Contains(got, tt.wantFlash) {
				t.Errorf("%s = %q, want %q", tt.flashKey, got, tt.wantFlash)
			}
			if tt.wantCall && sent["quantity"] != tt.wantQty {
				t.Errorf("quantity sent = %v, want %v", sent["quantity"], tt.wantQty)
			}
		})
	}
}

func TestAMCNew_PrefillsDates(t *testing.T) {
	b := newBackend()
	b.on("GET /amcs", http.StatusOK, page([]any{}))
	h := newTestHandler(t, b)

	rec := getPage(t, h, "/amcs?new=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`name="startDate" value="2024-01-15"`,
		`name="endDate" value="2025-01-15"`,
		`name="renewalDate" value="2025-01-15"`,
		"New contract",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestAMCList_ExpiryBadges(t *testing.T) {
	// Now is 2024-01-15 10:00 UTC.
	tests := []struct {
		name    string
		endDate string
		want    []string
		absent  []string
	}{
		{"ends in 20 days", "2024-02-04", []string{"20 days left", `action="/amcs/a1/remind"`}, []string{`badge-unpaid">Expired`}},
		{"ends in 31 days", "2024-02-15", nil, []string{"days left", `badge-unpaid">Expired`, `action="/amcs/a1/remind"`}},
		{"already ended", "2024-01-01", []string{`badge-unpaid">Expired`}, []string{"days left", `action="/amcs/a1/remind"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend()
			b.on("GET /amcs", http.StatusOK, page([]any{map[string]any{
				"id":             "a1",
				"contractNumber": "AMC-001",
				"startDate":      "2023-02-01",
				"endDate":        tt.endDate,
				"contractValue":  12000,
				"status":         "active",
			}}))
			h := newTestHandler(t, b)

			rec := getPage(t, h, "/amcs")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			body := rec.Body.String()
			for _, want := range tt.want {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %q", want)
				}
			}
			for _, bad := range tt.absent {
				if strings.Contains(body, bad) {
					t.Errorf("body should not contain %q", bad)
				}
			}
		})
	}
}

func TestAMCRemind(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     any
		flashKey string
		want     string
	}{
		{"sent", http.StatusOK, envelope(nil), "flash_success", "Renewal reminder sent"},
		{"customer has no email", http.StatusBadRequest, map[string]any{"error": map[string]any{"message": "Customer email not found"}}, "flash_error", "Customer email not found"},
		{"no message", http.StatusInternalServerError, map[string]any{"success": false}, "flash_error", "Request failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend()
			b.on("POST /amcs/a1/renewal-reminder", tt.status, tt.body)
			h := newTestHandler(t, b)

			rec := serve(h, postForm("/amcs/a1/remind", url.Values{"return": {"/amcs?status=active"}}, signIn(t, h, "tok")))
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d", rec.Code)
			}
			loc, _ := url.Parse(rec.Header().Get("Location"))
			if loc.Path != "/amcs" || loc.Query().Get("status") != "active" {
				t.Errorf("Location = %s", loc)
			}
			if got := loc.Query().Get(tt.flashKey); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.flashKey, got, tt.want)
			}
		})
	}
}

func TestServiceCreate(t *testing.T) {
	b := newBackend()
	var sent map[string]any
	b.capture("POST /services", http.StatusCreated, envelope(map[string]any{"id": "s1"}), &sent)
	h := newTestHandler(t, b)

	form := url.Values{
		"customerId":  {"c1"},
		"machineId":   {"m1"},
		"serviceType": {"repair"},
		"status":      {"pending"},
		"serviceDate": {"2024-01-20"},
		"cost":        {"1,500"},
		"description": {"Replace ECG lead cable"},
		"return":      {"/services"},
	}
	rec := serve(h, postForm("/services", form, signIn(t, h, "tok")))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	loc, _ := url.Parse(rec.Header().Get("Location"))
	if loc.Query().Get("flash_success") != "Service scheduled" {
		t.Errorf("Location = %s", loc)
	}
	if sent["customerId"] != "c1" || sent["serviceType"] != "repair" || sent["serviceDate"] != "2024-01-20" {
		t.Errorf("body sent = %v", sent)
	}
	if cost, _ := sent["cost"].(string); cost != "1500" {
		if f, ok := sent["cost"].(float64); !ok || f != 1500 {
			t.Errorf("cost sent = %v", sent["cost"])
		}
	}
}

func TestServiceCreate_ValidationRerendersWithoutCall(t *testing.T) {
	b := newBackend()
	b.on("GET /services", http.StatusOK, page([]any{}))
	h := newTestHandler(t, b)

	form := url.Values{"serviceType": {"repair"}, "serviceDate": {"20/01/2024"}, "return": {"/services"}}
	rec := serve(h, postForm("/services", form, signIn(t, h, "tok")))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	if b.called("POST /services") {
		t.Error("create call made despite validation errors")
	}
	if !strings.Contains(rec.Body.String(), "Date must be a date (YYYY-MM-DD)") {
		t.Error("date error not rendered")
	}
}

func TestServiceUpdate(t *testing.T) {
	b := newBackend()
	var sent map[string]any
	b.capture("PUT /services/s1", http.StatusOK, envelope(map[string]any{"id": "s1"}), &sent)
	h := newTestHandler(t, b)

	form := url.Values{
		"customerId":  {"c1"},
		"serviceType": {"maintenance"},
		"status":      {"completed"},
		"serviceDate": {"2024-01-10"},
		"cost":        {"0"},
		"return":      {"/services?page=3"},
	}
	rec := serve(h, postForm("/services/s1", form, signIn(t, h, "tok")))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	loc, _ := url.Parse(rec.Header().Get("Location"))
	if loc.Query().Get("flash_success") != "Service updated" || loc.Query().Get("page") != "3" {
		t.Errorf("Location = %s", loc)
	}
	if sent["status"] != "completed" {
		t.Errorf("body sent = %v", sent)
	}
}
