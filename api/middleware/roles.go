package middleware

import (
	"net/http"

	"github.com/angelmondragon/superbox-backend/api/responses"
	"github.com/angelmondragon/superbox-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/superbox-backend/pkg/errors"
	"github.com/angelmondragon/superbox-backend/pkg/logger"
)

// RequireRole admits only the listed actor roles. Sellers hold valid tokens
// but cannot buy from storefronts, so storefront routes list buyers only.
func RequireRole(logg *logger.Logger, roles ...enums.ActorRole) func(http.Handler) http.Handler {
	allowed := make(map[enums.ActorRole]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if !allowed[role] {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role not permitted").
					WithDetails(map[string]string{"role": role.String()}))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
