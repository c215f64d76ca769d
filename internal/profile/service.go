package profile

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/superbox-backend/pkg/errors"
	"github.com/angelmondragon/superbox-backend/pkg/types"
	"github.com/angelmondragon/superbox-backend/pkg/validation"
)

// Backend is the customer surface of the storefront backend.
type Backend interface {
	GetCustomer(ctx context.Context, email string) (*types.CustomerProfile, error)
	UpdateCustomer(ctx context.Context, email, phone string, address types.Address) (string, error)
}

// CompleteInput is the profile-completion form.
type CompleteInput struct {
	Phone   string        `json:"phone" validate:"required,min=6,max=20"`
	Address types.Address `json:"address"`
}

// CompleteResult echoes the backend acknowledgement.
type CompleteResult struct {
	Message string                `json:"message"`
	Profile types.CustomerProfile `json:"profile"`
}

type Service interface {
	Get(ctx context.Context, email string) (*types.CustomerProfile, error)
	Complete(ctx context.Context, email string, input CompleteInput) (*CompleteResult, error)
}

type service struct {
	backend Backend
}

func NewService(backend Backend) (Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("customer backend required")
	}
	return &service{backend: backend}, nil
}

// Get returns the buyer profile. A buyer the backend has never seen gets an
// empty profile so the completion form can be shown.
func (s *service) Get(ctx context.Context, email string) (*types.CustomerProfile, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer identity required")
	}
	profile, err := s.backend.GetCustomer(ctx, email)
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return &types.CustomerProfile{Email: email}, nil
	}
	if err != nil {
		return nil, err
	}
	profile.Email = email
	return profile, nil
}

func (s *service) Complete(ctx context.Context, email string, input CompleteInput) (*CompleteResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer identity required")
	}
	input.Phone = strings.TrimSpace(input.Phone)
	input.Address = input.Address.Normalize()
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	msg, err := s.backend.UpdateCustomer(ctx, email, input.Phone, input.Address)
	if err != nil {
		return nil, err
	}
	return &CompleteResult{
		Message: msg,
		Profile: types.CustomerProfile{Email: email, Phone: input.Phone, Address: input.Address},
	}, nil
}
