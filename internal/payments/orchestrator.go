// Package payments submits a checkout's purchase set to the storefront
// backend, either one record per item or as a single gateway initiation.
package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/superbox-backend/internal/pricing"
	"github.com/angelmondragon/superbox-backend/internal/submissions"
	"github.com/angelmondragon/superbox-backend/pkg/backend"
	"github.com/angelmondragon/superbox-backend/pkg/db/models"
	"github.com/angelmondragon/superbox-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/superbox-backend/pkg/errors"
	"github.com/angelmondragon/superbox-backend/pkg/logger"
	"github.com/angelmondragon/superbox-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// EmptyPurchaseMessage is shown when checkout is attempted with nothing to buy.
const EmptyPurchaseMessage = "Your cart is empty. Please add items before proceeding to checkout."

// Backend is the payment surface of the storefront backend.
type Backend interface {
	SubmitPayment(ctx context.Context, record backend.PaymentRecord, idempotencyKey string) (string, error)
	InitGateway(ctx context.Context, req backend.GatewayRequest) (string, error)
}

// Ledger records submission outcomes.
type Ledger interface {
	Record(ctx context.Context, input submissions.RecordInput) (*models.PaymentSubmission, error)
}

// Metrics observes submissions.
type Metrics interface {
	ObserveSubmission(method, outcome string, duration time.Duration)
	IncGateway(result string)
}

// Request is a snapshot of everything a submission needs. Identity and
// tenant are explicit so the orchestrator holds no ambient state.
type Request struct {
	SessionID   string
	Tenant      string
	BuyerEmail  string
	SellerEmail string
	Method      enums.PaymentMethod
	Items       []types.CartLine
	Total       decimal.Decimal
	Currency    enums.Currency
}

// Orchestrator sequences backend payment calls.
type Orchestrator struct {
	backend     Backend
	ledger      Ledger
	metrics     Metrics
	logg        *logger.Logger
	callTimeout time.Duration
	now         func() time.Time
}

// Option configures optional orchestrator collaborators.
type Option func(*Orchestrator)

func WithLedger(l Ledger) Option {
	return func(o *Orchestrator) { o.ledger = l }
}

func WithMetrics(m Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithCallTimeout bounds each backend call.
func WithCallTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.callTimeout = d }
}

func NewOrchestrator(b Backend, logg *logger.Logger, opts ...Option) (*Orchestrator, error) {
	if b == nil {
		return nil, fmt.Errorf("payment backend required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	o := &Orchestrator{backend: b, logg: logg, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o, nil
}

// IdempotencyKey identifies one item's submission within a checkout session.
func IdempotencyKey(sessionID, itemID string) string {
	return sessionID + ":" + itemID
}

// NavigationTarget is the storefront root a buyer returns to after paying.
func NavigationTarget(tenant string) string {
	return "/w/" + tenant
}

// Submit runs the protocol for req.Method. An empty purchase set returns
// CodeEmptyPurchase before any backend call. Submissions keep running if the
// caller's context is cancelled; each call is bounded by the call timeout.
func (o *Orchestrator) Submit(ctx context.Context, req Request) (*Result, error) {
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyPurchase, EmptyPurchaseMessage)
	}
	if !req.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", req.Method))
	}

	ctx = context.WithoutCancel(ctx)
	ctx = o.logg.WithFields(ctx, map[string]any{
		"checkout_session_id": req.SessionID,
		"tenant":              req.Tenant,
		"payment_method":      req.Method.String(),
	})

	if req.Method.SettlesDirectly() {
		return o.submitDirect(ctx, req), nil
	}
	return o.submitGateway(ctx, req)
}

// submitDirect posts one record per item, in order, awaiting each call. A
// failed item is reported and the loop moves on; nothing is retried or rolled back.
func (o *Orchestrator) submitDirect(ctx context.Context, req Request) *Result {
	status := enums.PaymentStatusFor(req.Method)
	results := make([]ItemResult, 0, len(req.Items))

	for _, item := range req.Items {
		key := IdempotencyKey(req.SessionID, item.ID)
		record := backend.PaymentRecord{
			ProductID:     item.ID,
			Name:          item.Name,
			Price:         item.UnitPrice,
			Image:         item.Image,
			Quantity:      item.Quantity,
			PaymentStatus: status,
			BuyerEmail:    req.BuyerEmail,
			SellerEmail:   req.SellerEmail,
			PaymentMethod: req.Method,
		}

		callCtx, cancel := o.callContext(ctx)
		started := o.now()
		ack, err := o.backend.SubmitPayment(callCtx, record, key)
		elapsed := o.now().Sub(started)
		cancel()

		result := ItemResult{ItemID: item.ID, Name: item.Name}
		itemCtx := o.logg.WithField(ctx, "item_id", item.ID)
		if err != nil {
			err = pkgerrors.Wrap(pkgerrors.CodeSubmission, err, fmt.Sprintf("payment for product %s failed", item.Name))
			result.Outcome = enums.SubmissionFailed
			result.Message = fmt.Sprintf("Payment for product %s failed", item.Name)
			result.ErrorCode = string(pkgerrors.CodeSubmission)
			result.Error = err.Error()
			result.err = err
			o.logg.Error(itemCtx, "payment submission failed", err)
		} else {
			result.Outcome = enums.SubmissionSucceeded
			result.Message = fmt.Sprintf("Payment for product %s succeeded", item.Name)
			o.logg.Info(itemCtx, "payment submitted")
		}
		o.observe(req.Method, result.Outcome, elapsed)

		o.record(ctx, submissions.RecordInput{
			SessionID:      req.SessionID,
			Tenant:         req.Tenant,
			ItemID:         item.ID,
			ItemName:       item.Name,
			BuyerEmail:     req.BuyerEmail,
			SellerEmail:    req.SellerEmail,
			Method:         req.Method,
			Status:         status,
			Outcome:        result.Outcome,
			Amount:         pricing.LineSubtotal(item),
			Currency:       req.Currency.String(),
			IdempotencyKey: key,
			Message:        strings.TrimSpace(ack),
			Err:            result.err,
		})
		results = append(results, result)
	}

	res := &Result{
		SessionID: req.SessionID,
		Method:    req.Method,
		Items:     results,
		Summary:   summarize(results),
	}
	if res.Summary.Succeeded > 0 {
		res.NavigateTo = NavigationTarget(req.Tenant)
	}
	if res.Summary.Partial {
		o.logg.Warn(ctx, fmt.Sprintf("checkout partially paid: %d of %d items failed", res.Summary.Failed, res.Summary.Total))
	}
	return res
}

// submitGateway opens a single hosted gateway session for the whole purchase
// set. A missing redirect URL is a retryable gateway error.
func (o *Orchestrator) submitGateway(ctx context.Context, req Request) (*Result, error) {
	gatewayReq := backend.GatewayRequest{
		Amount:     req.Total.StringFixed(2),
		Currency:   req.Currency.String(),
		ProductIDs: types.ProductIDs(req.Items),
	}

	callCtx, cancel := o.callContext(ctx)
	started := o.now()
	redirectURL, err := o.backend.InitGateway(callCtx, gatewayReq)
	elapsed := o.now().Sub(started)
	cancel()

	retry := map[string]any{"retry": true}
	switch {
	case err != nil:
		err = pkgerrors.Wrap(pkgerrors.CodeGateway, err, "payment gateway initiation failed").WithDetails(retry)
		o.gatewayResult("error")
	case redirectURL == "":
		err = pkgerrors.New(pkgerrors.CodeGateway, "payment gateway returned no redirect url").WithDetails(retry)
		o.gatewayResult("empty_url")
	default:
		o.gatewayResult("redirected")
	}

	outcome := enums.SubmissionRedirected
	if err != nil {
		outcome = enums.SubmissionFailed
		o.logg.Error(ctx, "gateway initiation failed", err)
	}
	o.observe(req.Method, outcome, elapsed)
	o.record(ctx, submissions.RecordInput{
		SessionID:   req.SessionID,
		Tenant:      req.Tenant,
		BuyerEmail:  req.BuyerEmail,
		SellerEmail: req.SellerEmail,
		Method:      req.Method,
		Outcome:     outcome,
		Amount:      req.Total,
		Currency:    gatewayReq.Currency,
		Message:     redirectURL,
		Err:         err,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		SessionID:   req.SessionID,
		Method:      req.Method,
		Summary:     Summary{Total: len(req.Items), Succeeded: len(req.Items)},
		RedirectURL: redirectURL,
	}, nil
}

func (o *Orchestrator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, o.callTimeout)
}

// record appends to the ledger. Ledger failures are logged and never change
// the submission result.
func (o *Orchestrator) record(ctx context.Context, input submissions.RecordInput) {
	if o.ledger == nil {
		return
	}
	if _, err := o.ledger.Record(ctx, input); err != nil {
		o.logg.Error(ctx, "record payment submission", err)
	}
}

func (o *Orchestrator) observe(method enums.PaymentMethod, outcome enums.SubmissionOutcome, elapsed time.Duration) {
	if o.metrics != nil {
		o.metrics.ObserveSubmission(method.String(), outcome.String(), elapsed)
	}
}

func (o *Orchestrator) gatewayResult(result string) {
	if o.metrics != nil {
		o.metrics.IncGateway(result)
	}
}
