package types

import "strings"

// CustomerProfile is the buyer contact record the backend keys by email.
type CustomerProfile struct {
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

// HasPhone reports whether checkout may proceed for this buyer.
func (p CustomerProfile) HasPhone() bool {
	return strings.TrimSpace(p.Phone) != ""
}
