package submissions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/superbox-backend/pkg/db/models"
	"github.com/angelmondragon/superbox-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/superbox-backend/pkg/errors"
	"github.com/angelmondragon/superbox-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service records payment submission outcomes.
type Service interface {
	Record(ctx context.Context, input RecordInput) (*models.PaymentSubmission, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

// ListParams scopes a history listing to one buyer in one storefront,
// optionally narrowed to a single checkout session.
type ListParams struct {
	Tenant     string
	BuyerEmail string
	SessionID  string
	pagination.Params
}

type ListResult struct {
	Items  []models.PaymentSubmission `json:"items"`
	Cursor string                     `json:"cursor,omitempty"`
}

// RecordInput is one submission outcome. ItemID is empty for gateway initiations.
type RecordInput struct {
	SessionID      string
	Tenant         string
	ItemID         string
	ItemName       string
	BuyerEmail     string
	SellerEmail    string
	Method         enums.PaymentMethod
	Status         enums.PaymentStatus
	Outcome        enums.SubmissionOutcome
	Amount         decimal.Decimal
	Currency       string
	IdempotencyKey string
	Message        string
	Err            error
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires a submission service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("submission repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Record(ctx context.Context, input RecordInput) (*models.PaymentSubmission, error) {
	if strings.TrimSpace(input.SessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(input.Tenant) == "" {
		return nil, fmt.Errorf("tenant is required")
	}
	if !input.Method.IsValid() {
		return nil, fmt.Errorf("invalid payment method %q", input.Method)
	}
	if !input.Outcome.IsValid() {
		return nil, fmt.Errorf("invalid submission outcome %q", input.Outcome)
	}
	if input.Amount.IsNegative() {
		return nil, fmt.Errorf("amount must be non-negative")
	}

	row := &models.PaymentSubmission{
		ID:             uuid.New(),
		SessionID:      input.SessionID,
		Tenant:         input.Tenant,
		ItemID:         optional(input.ItemID),
		ItemName:       optional(input.ItemName),
		BuyerEmail:     input.BuyerEmail,
		SellerEmail:    input.SellerEmail,
		PaymentMethod:  input.Method,
		Outcome:        input.Outcome,
		Amount:         input.Amount.Round(2),
		Currency:       input.Currency,
		IdempotencyKey: optional(input.IdempotencyKey),
		Message:        optional(input.Message),
		CreatedAt:      s.now().UTC(),
	}
	if input.Status.IsValid() {
		status := input.Status
		row.PaymentStatus = &status
	}
	if input.Err != nil {
		code := string(pkgerrors.CodeInternal)
		if typed := pkgerrors.As(input.Err); typed != nil {
			code = string(typed.Code())
		}
		row.ErrorCode = &code
		row.ErrorMessage = optional(input.Err.Error())
	}

	if err := s.repo.Create(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	tenant := strings.TrimSpace(params.Tenant)
	email := strings.TrimSpace(params.BuyerEmail)
	if tenant == "" || email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant and buyer are required")
	}

	query := listQuery{
		Tenant:     tenant,
		BuyerEmail: email,
		SessionID:  strings.TrimSpace(params.SessionID),
		Limit:      pagination.LimitWithBuffer(params.Limit),
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	query.Cursor = cursor

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payment submissions")
	}

	page, next := pagination.Trim(rows, params.Limit, func(row models.PaymentSubmission) pagination.Cursor {
		return pagination.Cursor{CreatedAt: row.CreatedAt, ID: row.ID}
	})
	if page == nil {
		page = []models.PaymentSubmission{}
	}
	result := &ListResult{Items: page}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
