package enums

import "fmt"

// PurchaseSource tells where a checkout's purchase set came from.
type PurchaseSource string

const (
	PurchaseSourceCart   PurchaseSource = "cart"
	PurchaseSourceBuyNow PurchaseSource = "buy_now"
)

var validPurchaseSources = []PurchaseSource{
	PurchaseSourceCart,
	PurchaseSourceBuyNow,
}

func (p PurchaseSource) String() string {
	return string(p)
}

func (p PurchaseSource) IsValid() bool {
	for _, candidate := range validPurchaseSources {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePurchaseSource converts raw input into a PurchaseSource.
func ParsePurchaseSource(value string) (PurchaseSource, error) {
	for _, candidate := range validPurchaseSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid purchase source %q", value)
}
