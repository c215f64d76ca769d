package checkout

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/angelmondragon/superbox-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/superbox-backend/pkg/errors"
	"github.com/angelmondragon/superbox-backend/pkg/validation"
)

// Method is the active payment method together with the input it needs.
// Exactly one variant is active per session.
type Method interface {
	Kind() enums.PaymentMethod
	// Ready reports whether the variant carries everything submission needs.
	Ready() error
}

type CashOnDelivery struct{}

func (CashOnDelivery) Kind() enums.PaymentMethod { return enums.PaymentMethodCashOnDelivery }
func (CashOnDelivery) Ready() error              { return nil }

type MobileBanking struct {
	Provider enums.MobileBankingProvider
}

func (MobileBanking) Kind() enums.PaymentMethod { return enums.PaymentMethodMobileBanking }

func (m MobileBanking) Ready() error {
	if !m.Provider.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "select a mobile banking provider").
			WithDetails(map[string]string{"mobileProvider": "required"})
	}
	return nil
}

// CardPayment only ever holds the masked card; the full number and CVV are
// validated on entry and dropped.
type CardPayment struct {
	Card *CardSummary
}

func (CardPayment) Kind() enums.PaymentMethod { return enums.PaymentMethodCardPayment }

func (c CardPayment) Ready() error {
	if c.Card == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "enter card details").
			WithDetails(map[string]string{"card": "required"})
	}
	return nil
}

type GatewayRedirect struct{}

func (GatewayRedirect) Kind() enums.PaymentMethod { return enums.PaymentMethodGatewayRedirect }
func (GatewayRedirect) Ready() error              { return nil }

// CardInput is the card form as typed by the buyer.
// unknownMethod stands in for a stored method this build does not know. It
// carries no surcharge and can never be submitted.
type unknownMethod struct {
	kind enums.PaymentMethod
}

func (u unknownMethod) Kind() enums.PaymentMethod { return u.kind }

func (u unknownMethod) Ready() error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported payment method %q", u.kind)).
		WithDetails(map[string]string{"action": "select_method"})
}

type CardInput struct {
	Number string `json:"cardNumber" validate:"required,numeric,min=12,max=19"`
	Expiry string `json:"expiry" validate:"required"`
	CVV    string `json:"cvv" validate:"required,numeric,min=3,max=4"`
}

// CardSummary is what a session keeps of a card.
type CardSummary struct {
	Last4  string `json:"last4"`
	Expiry string `json:"expiry"`
}

var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)

// Summarize validates the input and returns its masked form.
func (c CardInput) Summarize() (*CardSummary, error) {
	c.Number = strings.ReplaceAll(strings.TrimSpace(c.Number), " ", "")
	c.Expiry = strings.TrimSpace(c.Expiry)
	c.CVV = strings.TrimSpace(c.CVV)
	if err := validation.Struct(c); err != nil {
		return nil, err
	}
	if !expiryPattern.MatchString(c.Expiry) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"expiry": "must be MM/YY"})
	}
	return &CardSummary{Last4: c.Number[len(c.Number)-4:], Expiry: c.Expiry}, nil
}
