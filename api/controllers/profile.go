package controllers

import (
	"net/http"

	"github.com/angelmondragon/superbox-backend/api/responses"
	"github.com/angelmondragon/superbox-backend/api/validators"
	profilesvc "github.com/angelmondragon/superbox-backend/internal/profile"
	"github.com/angelmondragon/superbox-backend/pkg/logger"
)

func ProfileFetch(svc profilesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, err := buyer(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		profile, err := svc.Get(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"profile":  profile,
			"complete": profile.HasPhone(),
		})
	}
}

// ProfileComplete submits the profile-completion form.
func ProfileComplete(svc profilesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, err := buyer(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload profilesvc.CompleteInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Complete(r.Context(), email, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
