package pricing

import (
	"fmt"

	pkgerrors "github.com/angelmondragon/superbox-backend/pkg/errors"
	"github.com/angelmondragon/superbox-backend/pkg/types"
)

// LineViolation describes a line the engine refuses to price.
type LineViolation struct {
	ItemID   string `json:"itemId"`
	Reason   string `json:"reason"`
	Quantity int    `json:"quantity,omitempty"`
}

// Validate rejects negative unit prices and quantities below one.
func Validate(lines []types.CartLine) error {
	var violations []LineViolation
	for _, line := range lines {
		if line.UnitPrice.IsNegative() {
			violations = append(violations, LineViolation{ItemID: line.ID, Reason: "negative_unit_price"})
		}
		if line.Quantity < 1 {
			violations = append(violations, LineViolation{ItemID: line.ID, Reason: "quantity_below_one", Quantity: line.Quantity})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%d cart line(s) cannot be priced", len(violations))).WithDetails(map[string]any{
		"violations": violations,
	})
}
