// Package checkout runs a buyer's checkout session from initiation through
// method selection to submission.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/superbox-backend/internal/payments"
	"github.com/angelmondragon/superbox-backend/internal/pricing"
	"github.com/angelmondragon/superbox-backend/pkg/backend"
	"github.com/angelmondragon/superbox-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/superbox-backend/pkg/errors"
	"github.com/angelmondragon/superbox-backend/pkg/logger"
	"github.com/angelmondragon/superbox-backend/pkg/types"
	"github.com/angelmondragon/superbox-backend/pkg/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutPricer prices purchase sets and checkout totals.
type CheckoutPricer interface {
	CartTotal(lines []types.CartLine) decimal.Decimal
	SummarizeCheckout(itemsTotal decimal.Decimal, method enums.PaymentMethod) pricing.CheckoutSummary
	Currency() enums.Currency
}

type CartSnapshotter interface {
	Snapshot(ctx context.Context, tenant, buyerEmail string) ([]types.CartLine, error)
}

type ProfileReader interface {
	Get(ctx context.Context, email string) (*types.CustomerProfile, error)
}

type StorefrontResolver interface {
	GetStorefront(ctx context.Context, tenant string) (*backend.Storefront, error)
}

type Submitter interface {
	Submit(ctx context.Context, req payments.Request) (*payments.Result, error)
}

type Metrics interface {
	IncSessionStarted(source string)
}

// View is a session priced for its active method.
type View struct {
	Session *Session                 `json:"session"`
	Totals  pricing.CheckoutSummary `json:"totals"`
}

// MethodInput selects a method and optionally supplies its input in one step.
type MethodInput struct {
	Method         enums.PaymentMethod         `json:"paymentMethod"`
	MobileProvider enums.MobileBankingProvider `json:"mobileProvider,omitempty"`
	Card           *CardInput                  `json:"card,omitempty"`
}

// Service is the checkout surface used by the HTTP layer. Every operation
// receives the tenant and buyer explicitly.
type Service interface {
	StartFromCart(ctx context.Context, tenant, buyerEmail string) (*View, error)
	StartBuyNow(ctx context.Context, tenant, buyerEmail string, items []types.CartLine) (*View, error)
	Get(ctx context.Context, tenant, buyerEmail, sessionID string) (*View, error)
	SelectMethod(ctx context.Context, tenant, buyerEmail, sessionID string, input MethodInput) (*View, error)
	SetMobileBanking(ctx context.Context, tenant, buyerEmail, sessionID string, provider enums.MobileBankingProvider) (*View, error)
	SetCard(ctx context.Context, tenant, buyerEmail, sessionID string, input CardInput) (*View, error)
	Submit(ctx context.Context, tenant, buyerEmail, sessionID string) (*payments.Result, error)
}

type ServiceParams struct {
	Store       SessionStore
	Carts       CartSnapshotter
	Profiles    ProfileReader
	Storefronts StorefrontResolver
	Pricer      CheckoutPricer
	Submitter   Submitter
	Metrics     Metrics
	Logger      *logger.Logger
	Now         func() time.Time
}

type service struct {
	store       SessionStore
	carts       CartSnapshotter
	profiles    ProfileReader
	storefronts StorefrontResolver
	pricer      CheckoutPricer
	submitter   Submitter
	metrics     Metrics
	logg        *logger.Logger
	now         func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Store == nil:
		return nil, fmt.Errorf("session store required")
	case params.Carts == nil:
		return nil, fmt.Errorf("cart service required")
	case params.Profiles == nil:
		return nil, fmt.Errorf("profile service required")
	case params.Storefronts == nil:
		return nil, fmt.Errorf("storefront resolver required")
	case params.Pricer == nil:
		return nil, fmt.Errorf("pricer required")
	case params.Submitter == nil:
		return nil, fmt.Errorf("submitter required")
	case params.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		store:       params.Store,
		carts:       params.Carts,
		profiles:    params.Profiles,
		storefronts: params.Storefronts,
		pricer:      params.Pricer,
		submitter:   params.Submitter,
		metrics:     params.Metrics,
		logg:        params.Logger,
		now:         now,
	}, nil
}

func (s *service) StartFromCart(ctx context.Context, tenant, buyerEmail string) (*View, error) {
	if err := checkIdentity(tenant, buyerEmail); err != nil {
		return nil, err
	}
	items, err := s.carts.Snapshot(ctx, tenant, buyerEmail)
	if err != nil {
		return nil, err
	}
	return s.start(ctx, tenant, buyerEmail, enums.PurchaseSourceCart, items)
}

func (s *service) StartBuyNow(ctx context.Context, tenant, buyerEmail string, items []types.CartLine) (*View, error) {
	if err := checkIdentity(tenant, buyerEmail); err != nil {
		return nil, err
	}
	lines := make([]types.CartLine, 0, len(items))
	for _, item := range items {
		line := types.NormalizeLine(item)
		if line.Quantity == 0 {
			line.Quantity = 1
		}
		if err := validation.Struct(line); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := pricing.Validate(lines); err != nil {
		return nil, err
	}
	return s.start(ctx, tenant, buyerEmail, enums.PurchaseSourceBuyNow, lines)
}

// start checks emptiness before fetching anything remote, then applies the
// profile guard and snapshots the purchase set into a new session.
func (s *service) start(ctx context.Context, tenant, buyerEmail string, source enums.PurchaseSource, items []types.CartLine) (*View, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyPurchase, payments.EmptyPurchaseMessage)
	}
	profile, err := s.profiles.Get(ctx, buyerEmail)
	if err != nil {
		return nil, err
	}
	if err := Begin(profile, items); err != nil {
		return nil, err
	}
	storefront, err := s.storefronts.GetStorefront(ctx, tenant)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	session := &Session{
		ID:          uuid.NewString(),
		Tenant:      tenant,
		BuyerEmail:  buyerEmail,
		SellerEmail: storefront.Email,
		Source:      source,
		Items:       items,
		ItemsTotal:  types.NewMoney(s.pricer.CartTotal(items)),
		Method:      enums.PaymentMethodCashOnDelivery,
		Status:      enums.CheckoutStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncSessionStarted(source.String())
	}
	s.logg.Info(s.logg.WithCheckoutSession(ctx, session.ID), fmt.Sprintf("checkout started from %s with %d items", source, len(items)))
	return s.view(session), nil
}

func (s *service) Get(ctx context.Context, tenant, buyerEmail, sessionID string) (*View, error) {
	session, err := s.load(ctx, tenant, buyerEmail, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(session), nil
}

func (s *service) SelectMethod(ctx context.Context, tenant, buyerEmail, sessionID string, input MethodInput) (*View, error) {
	return s.mutate(ctx, tenant, buyerEmail, sessionID, func(session *Session) error {
		if err := session.SelectMethod(input.Method); err != nil {
			return err
		}
		switch input.Method {
		case enums.PaymentMethodMobileBanking:
			if input.MobileProvider != "" {
				return session.SetMobileBankingProvider(input.MobileProvider)
			}
		case enums.PaymentMethodCardPayment:
			if input.Card != nil {
				return session.SetCardDetails(*input.Card)
			}
		}
		return nil
	})
}

func (s *service) SetMobileBanking(ctx context.Context, tenant, buyerEmail, sessionID string, provider enums.MobileBankingProvider) (*View, error) {
	return s.mutate(ctx, tenant, buyerEmail, sessionID, func(session *Session) error {
		return session.SetMobileBankingProvider(provider)
	})
}

func (s *service) SetCard(ctx context.Context, tenant, buyerEmail, sessionID string, input CardInput) (*View, error) {
	return s.mutate(ctx, tenant, buyerEmail, sessionID, func(session *Session) error {
		return session.SetCardDetails(input)
	})
}

// Submit hands the session to the orchestrator. The session becomes terminal
// once any item settled or the gateway returned a redirect. When every item
// fails the session stays open so the buyer can retry.
func (s *service) Submit(ctx context.Context, tenant, buyerEmail, sessionID string) (*payments.Result, error) {
	session, err := s.load(ctx, tenant, buyerEmail, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.ReadyToSubmit(); err != nil {
		return nil, err
	}

	totals := session.Totals(s.pricer)
	result, err := s.submitter.Submit(ctx, session.PaymentRequest(totals.Total.Decimal, s.pricer.Currency()))
	if err != nil {
		return nil, err
	}

	switch {
	case result.RedirectURL != "":
		session.Status = enums.CheckoutStatusRedirected
		session.RedirectURL = result.RedirectURL
	case result.Summary.Succeeded > 0:
		session.Status = enums.CheckoutStatusSubmitted
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeSubmission, result.Err(), "all payment submissions failed").
			WithDetails(map[string]any{"items": result.Items})
	}

	session.UpdatedAt = s.now().UTC()
	if err := s.store.Save(context.WithoutCancel(ctx), session); err != nil {
		s.logg.Error(s.logg.WithCheckoutSession(ctx, session.ID), "save submitted checkout session", err)
	}
	return result, nil
}

func (s *service) mutate(ctx context.Context, tenant, buyerEmail, sessionID string, fn func(*Session) error) (*View, error) {
	session, err := s.load(ctx, tenant, buyerEmail, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	session.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return s.view(session), nil
}

// load hides sessions owned by other buyers behind the same not-found error.
func (s *service) load(ctx context.Context, tenant, buyerEmail, sessionID string) (*Session, error) {
	if err := checkIdentity(tenant, buyerEmail); err != nil {
		return nil, err
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, sessionNotFound()
	}
	session, err := s.store.Load(ctx, tenant, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.ownedBy(buyerEmail) {
		return nil, sessionNotFound()
	}
	return session, nil
}

func (s *service) view(session *Session) *View {
	return &View{Session: session, Totals: session.Totals(s.pricer)}
}

func checkIdentity(tenant, buyerEmail string) error {
	if strings.TrimSpace(tenant) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "tenant is required")
	}
	if strings.TrimSpace(buyerEmail) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer identity required")
	}
	return nil
}
