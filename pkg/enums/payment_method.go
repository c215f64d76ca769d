package enums

import "fmt"

// PaymentMethod identifies how a buyer settles a checkout. Values match the
// strings the storefront backend stores on payment records.
type PaymentMethod string

const (
	PaymentMethodCashOnDelivery  PaymentMethod = "cashOnDelivery"
	PaymentMethodMobileBanking   PaymentMethod = "mobileBanking"
	PaymentMethodCardPayment     PaymentMethod = "cardPayment"
	PaymentMethodGatewayRedirect PaymentMethod = "gatewayRedirect"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCashOnDelivery,
	PaymentMethodMobileBanking,
	PaymentMethodCardPayment,
	PaymentMethodGatewayRedirect,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// SettlesDirectly reports whether the method records one payment per item
// instead of handing the buyer to the hosted gateway.
func (p PaymentMethod) SettlesDirectly() bool {
	return p.IsValid() && p != PaymentMethodGatewayRedirect
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
