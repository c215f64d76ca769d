package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/superbox-backend/pkg/errors"
	"github.com/angelmondragon/superbox-backend/pkg/pagination"
)

const maxCursorLen = 256

// ParsePage reads ?limit= and ?cursor= for list endpoints. A missing limit
// falls back to the pagination default; anything outside 1..MaxLimit is
// rejected rather than clamped.
func ParsePage(r *http.Request) (pagination.Params, error) {
	query := r.URL.Query()
	page := pagination.Params{
		Limit:  pagination.DefaultLimit,
		Cursor: SanitizeString(query.Get("cursor"), maxCursorLen),
	}

	raw := strings.TrimSpace(query.Get("limit"))
	if raw == "" {
		return page, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > pagination.MaxLimit {
		return pagination.Params{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid page limit").
			WithDetails(map[string]any{"field": "limit", "min": 1, "max": pagination.MaxLimit})
	}
	page.Limit = limit
	return page, nil
}
