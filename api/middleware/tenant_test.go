package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestTenantFromPath(t *testing.T) {
	var got string
	r := chi.NewRouter()
	r.With(Tenant(nil)).Get("/w/{tenant}/cart", func(w http.ResponseWriter, r *http.Request) {
		got = TenantFromContext(r.Context())
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/w/Acme-Shop/cart", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got != "acme-shop" {
		t.Fatalf("expected lowercased tenant, got %q", got)
	}
}

func TestTenantRejectsInvalidSlug(t *testing.T) {
	r := chi.NewRouter()
	r.With(Tenant(nil)).Get("/w/{tenant}/cart", func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/w/bad%20slug!/cart", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
