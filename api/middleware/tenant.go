package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/superbox-backend/api/responses"
	pkgerrors "github.com/angelmondragon/superbox-backend/pkg/errors"
	"github.com/angelmondragon/superbox-backend/pkg/logger"
)

var tenantPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)

// Tenant resolves the storefront slug from the {tenant} path segment.
func Tenant(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenant := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "tenant")))
			if !tenantPattern.MatchString(tenant) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid storefront").
					WithDetails(map[string]any{"field": "tenant"}))
				return
			}
			ctx := WithTenant(r.Context(), tenant)
			if logg != nil {
				ctx = logg.WithTenant(ctx, tenant)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
