package enums

import "fmt"

// CheckoutStatus is the lifecycle state of a checkout session.
type CheckoutStatus string

const (
	CheckoutStatusOpen       CheckoutStatus = "open"
	CheckoutStatusSubmitted  CheckoutStatus = "submitted"
	CheckoutStatusRedirected CheckoutStatus = "redirected"
)

var validCheckoutStatuses = []CheckoutStatus{
	CheckoutStatusOpen,
	CheckoutStatusSubmitted,
	CheckoutStatusRedirected,
}

// String implements fmt.Stringer.
func (c CheckoutStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutStatus.
func (c CheckoutStatus) IsValid() bool {
	for _, candidate := range validCheckoutStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the session no longer accepts changes.
func (c CheckoutStatus) IsTerminal() bool {
	return c == CheckoutStatusSubmitted || c == CheckoutStatusRedirected
}

// ParseCheckoutStatus converts raw input into a CheckoutStatus.
func ParseCheckoutStatus(value string) (CheckoutStatus, error) {
	for _, candidate := range validCheckoutStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout status %q", value)
}
