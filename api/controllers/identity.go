package controllers

import (
	"net/http"

	"github.com/angelmondragon/superbox-backend/api/middleware"
	pkgerrors "github.com/angelmondragon/superbox-backend/pkg/errors"
)

// storefrontBuyer returns the tenant and buyer seeded by the Tenant and Auth middleware.
func storefrontBuyer(r *http.Request) (string, string, error) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "storefront context missing")
	}
	email, err := buyer(r)
	if err != nil {
		return "", "", err
	}
	return tenant, email, nil
}

func buyer(r *http.Request) (string, error) {
	email := middleware.BuyerEmailFromContext(r.Context())
	if email == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer identity missing")
	}
	return email, nil
}
