package validators

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/angelmondragon/superbox-backend/pkg/errors"
)

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// PathParam returns a trimmed, non-empty chi URL parameter.
func PathParam(r *http.Request, name string) (string, error) {
	value := SanitizeString(chi.URLParam(r, name), 128)
	if value == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, name+" is required").WithDetails(map[string]any{"field": name})
	}
	return value, nil
}
