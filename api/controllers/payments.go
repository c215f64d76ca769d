package controllers

import (
	"net/http"

	"github.com/angelmondragon/superbox-backend/api/responses"
	"github.com/angelmondragon/superbox-backend/api/validators"
	"github.com/angelmondragon/superbox-backend/internal/submissions"
	"github.com/angelmondragon/superbox-backend/pkg/logger"
)

// PaymentHistory lists the buyer's recorded payment submissions in the
// storefront, newest first. ?session= narrows to one checkout.
func PaymentHistory(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, email, err := storefrontBuyer(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), submissions.ListParams{
			Tenant:     tenant,
			BuyerEmail: email,
			SessionID:  validators.SanitizeString(r.URL.Query().Get("session"), 128),
			Params:     page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
