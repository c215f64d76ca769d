package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/superbox-backend/internal/payments"
	"github.com/angelmondragon/superbox-backend/internal/pricing"
	"github.com/angelmondragon/superbox-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/superbox-backend/pkg/errors"
	"github.com/angelmondragon/superbox-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Session is one checkout attempt over an immutable purchase set. Inputs for
// methods other than the active one are remembered but never used.
type Session struct {
	ID             string                      `json:"id"`
	Tenant         string                      `json:"tenant"`
	BuyerEmail     string                      `json:"buyerEmail"`
	SellerEmail    string                      `json:"sellerEmail"`
	Source         enums.PurchaseSource        `json:"source"`
	Items          []types.CartLine            `json:"items"`
	ItemsTotal     types.Money                 `json:"itemsTotal"`
	Method         enums.PaymentMethod         `json:"paymentMethod"`
	MobileProvider enums.MobileBankingProvider `json:"mobileProvider,omitempty"`
	Card           *CardSummary                `json:"card,omitempty"`
	Status         enums.CheckoutStatus        `json:"status"`
	RedirectURL    string                      `json:"redirectUrl,omitempty"`
	CreatedAt      time.Time                   `json:"createdAt"`
	UpdatedAt      time.Time                   `json:"updatedAt"`
}

// Begin guards checkout initiation. A buyer without a phone number must
// complete their profile first; an empty purchase set cannot be checked out.
func Begin(profile *types.CustomerProfile, items []types.CartLine) error {
	if profile == nil || !profile.HasPhone() {
		return pkgerrors.New(pkgerrors.CodeProfileIncomplete, "complete your profile before checkout").
			WithDetails(map[string]string{"action": "complete_profile"})
	}
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeEmptyPurchase, payments.EmptyPurchaseMessage)
	}
	return nil
}

// ActiveMethod returns the variant for the selected method, carrying only
// that method's input.
func (s *Session) ActiveMethod() Method {
	switch s.Method {
	case enums.PaymentMethodMobileBanking:
		return MobileBanking{Provider: s.MobileProvider}
	case enums.PaymentMethodCardPayment:
		return CardPayment{Card: s.Card}
	case enums.PaymentMethodGatewayRedirect:
		return GatewayRedirect{}
	case enums.PaymentMethodCashOnDelivery:
		return CashOnDelivery{}
	default:
		return unknownMethod{kind: s.Method}
	}
}

// SelectMethod overwrites the active method.
func (s *Session) SelectMethod(method enums.PaymentMethod) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if !method.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", method))
	}
	s.Method = method
	return nil
}

func (s *Session) SetMobileBankingProvider(provider enums.MobileBankingProvider) error {
	if err := s.ensureActive(enums.PaymentMethodMobileBanking); err != nil {
		return err
	}
	if !provider.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid mobile banking provider %q", provider))
	}
	s.MobileProvider = provider
	return nil
}

func (s *Session) SetCardDetails(input CardInput) error {
	if err := s.ensureActive(enums.PaymentMethodCardPayment); err != nil {
		return err
	}
	card, err := input.Summarize()
	if err != nil {
		return err
	}
	s.Card = card
	return nil
}

// Totals prices the session for its active method.
func (s *Session) Totals(pricer CheckoutPricer) pricing.CheckoutSummary {
	return pricer.SummarizeCheckout(s.ItemsTotal.Decimal, s.ActiveMethod().Kind())
}

// ReadyToSubmit reports whether the session can be handed to the orchestrator.
func (s *Session) ReadyToSubmit() error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if len(s.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeEmptyPurchase, payments.EmptyPurchaseMessage)
	}
	return s.ActiveMethod().Ready()
}

// PaymentRequest snapshots the session for submission.
func (s *Session) PaymentRequest(total decimal.Decimal, currency enums.Currency) payments.Request {
	items := make([]types.CartLine, len(s.Items))
	copy(items, s.Items)
	return payments.Request{
		SessionID:   s.ID,
		Tenant:      s.Tenant,
		BuyerEmail:  s.BuyerEmail,
		SellerEmail: s.SellerEmail,
		Method:      s.ActiveMethod().Kind(),
		Items:       items,
		Total:       total,
		Currency:    currency,
	}
}

func (s *Session) ownedBy(buyerEmail string) bool {
	return strings.EqualFold(s.BuyerEmail, strings.TrimSpace(buyerEmail))
}

func (s *Session) ensureOpen() error {
	if s.Status.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("checkout session is already %s", s.Status)).
			WithDetails(map[string]string{"status": s.Status.String()})
	}
	return nil
}

func (s *Session) ensureActive(method enums.PaymentMethod) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if s.Method != method {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("%s is not the selected payment method", method)).
			WithDetails(map[string]string{"paymentMethod": s.Method.String()})
	}
	return nil
}
