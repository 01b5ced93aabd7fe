package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medequip-admin/internal/api"
	"medequip-admin/internal/core"
)

func newBackend(t *testing.T, h http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL+"/api", 5*time.Second)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestDo_UnwrapsEnvelope(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{
			"success": true,
			"data":    map[string]any{"id": "c1", "name": "City Hospital"},
		})
	})

	got, err := c.Customers().Get(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != "c1" || got.Name != "City Hospital" {
		t.Errorf("got %+v", got)
	}
}

func TestDo_DecodesBareBody(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"total": 4, "active": 3, "expired": 1})
	})

	got, err := c.AMCStats(context.Background())
	if err != nil {
		t.Fatalf("AMCStats: %v", err)
	}
	if got.Total != 4 || got.Active != 3 || got.Expired != 1 {
		t.Errorf("got %+v", got)
	}
}

func TestList_PaginationAndParams(t *testing.T) {
	var query map[string][]string
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		writeJSON(w, 200, map[string]any{
			"success":    true,
			"data":       []map[string]any{{"id": "m1", "name": "Analyzer"}},
			"pagination": map[string]any{"page": 2, "limit": 10, "total": 11, "totalPages": 2},
		})
	})

	items, p, err := c.Machines().List(context.Background(), core.ListOptions{Page: 2, Search: "ana"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Analyzer" {
		t.Errorf("items = %+v", items)
	}
	if p.Page != 2 || p.TotalPages != 2 || p.Total != 11 {
		t.Errorf("pagination = %+v", p)
	}
	if got := query["page"]; len(got) != 1 || got[0] != "2" {
		t.Errorf("page param = %v", got)
	}
	if got := query["limit"]; len(got) != 1 || got[0] != "10" {
		t.Errorf("limit param = %v", got)
	}
	if got := query["search"]; len(got) != 1 || got[0] != "ana" {
		t.Errorf("search param = %v", got)
	}
	if _, ok := query["status"]; ok {
		t.Errorf("empty status should be omitted, got %v", query["status"])
	}
}

func TestList_NonArrayDataIsEmpty(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"success": true, "data": map[string]any{"oops": true}})
	})

	items, p, err := c.Invoices().List(context.Background(), core.ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("items = %v, want empty non-nil", items)
	}
	if p != (core.Pagination{}) {
		t.Errorf("pagination = %+v, want zero", p)
	}
}

func TestErrorMessageResolution(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"nested error message", `{"error":{"message":"Customer not found"},"message":"ignored"}`, "Customer not found"},
		{"top-level message", `{"message":"Invalid data"}`, "Invalid data"},
		{"no message", `{"success":false}`, "Request failed"},
		{"not json", `<html>502</html>`, "An error occurred"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			})
			err := c.Customers().Delete(context.Background(), "x")
			var apiErr *api.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v, want *APIError", err)
			}
			if apiErr.Message != tt.want {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.want)
			}
			if apiErr.Status != http.StatusBadRequest {
				t.Errorf("status = %d", apiErr.Status)
			}
			if want := "DELETE /customers/x: 400 " + tt.want; apiErr.Detail() != want {
				t.Errorf("detail = %q, want %q", apiErr.Detail(), want)
			}
		})
	}
}

func TestUnauthorized_ClearsContextStore(t *testing.T) {
	var gotAuth string
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Token expired"})
	})

	store := api.NewMemoryTokenStore("abc")
	ctx := api.WithTokenStore(context.Background(), store)
	_, _, err := c.Services().List(ctx, core.ListOptions{})

	if gotAuth != "Bearer abc" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if !store.Cleared() || store.Token() != "" {
		t.Error("token store was not cleared")
	}
}

func TestNotFound_MatchesSentinel(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "AMC not found"})
	})
	_, err := c.AMCs().Get(context.Background(), "missing")
	if !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if errors.Is(err, api.ErrUnauthorized) {
		t.Error("404 must not match ErrUnauthorized")
	}
}

func TestLogin_StoresToken(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "admin@example.com" {
			t.Errorf("email = %q", body["email"])
		}
		writeJSON(w, 200, map[string]any{
			"success": true,
			"data": map[string]any{
				"token": "jwt-1",
				"user":  map[string]any{"id": "u1", "name": "Admin", "email": "admin@example.com", "role": "admin"},
			},
		})
	})

	store := &api.MemoryTokenStore{}
	ctx := api.WithTokenStore(context.Background(), store)
	res, err := c.Login(ctx, "admin@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.User.Name != "Admin" {
		t.Errorf("user = %+v", res.User)
	}
	if store.Token() != "jwt-1" {
		t.Errorf("stored token = %q", store.Token())
	}

	c.Logout(ctx)
	if store.Token() != "" {
		t.Error("Logout did not clear the token")
	}
}

func TestUpdatePaymentStatus_Body(t *testing.T) {
	var body map[string]any
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/invoices/i1/payment-status" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, 200, map[string]any{"success": true, "data": map[string]any{"id": "i1", "paymentStatus": "paid"}})
	})

	inv, err := c.UpdatePaymentStatus(context.Background(), "i1", core.PaymentPaid, nil)
	if err != nil {
		t.Fatalf("UpdatePaymentStatus: %v", err)
	}
	if inv.PaymentStatus != core.PaymentPaid {
		t.Errorf("status = %s", inv.PaymentStatus)
	}
	if body["paymentStatus"] != "paid" {
		t.Errorf("body = %v", body)
	}
	if _, ok := body["paidAmount"]; ok {
		t.Errorf("paidAmount should be omitted when nil: %v", body)
	}
}

func TestDashboardStats_RangeQuery(t *testing.T) {
	var rawQuery string
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		writeJSON(w, 200, map[string]any{"success": true, "data": map[string]any{"totalCustomers": 7}})
	})

	stats, err := c.DashboardStats(context.Background(), core.DateRange{Start: "2024-01-01", End: "2024-01-31"})
	if err != nil {
		t.Fatalf("DashboardStats: %v", err)
	}
	if stats.TotalCustomers != 7 {
		t.Errorf("TotalCustomers = %d", stats.TotalCustomers)
	}
	if rawQuery != "endDate=2024-01-31&startDate=2024-01-01" {
		t.Errorf("query = %q", rawQuery)
	}
}
