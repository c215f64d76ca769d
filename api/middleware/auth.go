package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/superbox-backend/api/responses"
	pkgauth "github.com/angelmondragon/superbox-backend/pkg/auth"
	"github.com/angelmondragon/superbox-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/superbox-backend/pkg/errors"
	"github.com/angelmondragon/superbox-backend/pkg/logger"
)

const bearerScheme = "bearer"

// Auth verifies the identity provider's bearer token. The buyer is always the
// token's email claim; nothing in the path or body can override it.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := pkgauth.ParseIdentityToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid identity token"))
				return
			}

			ctx := withIdentity(r.Context(), func(id *requestIdentity) {
				id.buyerEmail = claims.Email
				id.role = claims.Role
			})
			if logg != nil {
				ctx = logg.WithBuyer(ctx, claims.Email, claims.Role.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
