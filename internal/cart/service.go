package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/superbox-backend/internal/pricing"
	"github.com/angelmondragon/superbox-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/superbox-backend/pkg/errors"
	"github.com/angelmondragon/superbox-backend/pkg/types"
)

type summarizer interface {
	Summarize(lines []types.CartLine) pricing.CartSummary
}

// View is a cart snapshot together with its priced summary.
type View struct {
	Tenant  string              `json:"tenant"`
	Items   []types.CartLine    `json:"items"`
	Summary pricing.CartSummary `json:"summary"`
}

// Service exposes cart operations for one storefront buyer at a time.
type Service interface {
	Get(ctx context.Context, tenant, buyerEmail string) (*View, error)
	Replace(ctx context.Context, tenant, buyerEmail string, items []types.CartLine) (*View, error)
	ChangeQuantity(ctx context.Context, tenant, buyerEmail, itemID string, direction enums.QuantityDirection) (*View, error)
	RemoveLine(ctx context.Context, tenant, buyerEmail, itemID string) (*View, error)
	Snapshot(ctx context.Context, tenant, buyerEmail string) ([]types.CartLine, error)
}

type service struct {
	store  Store
	pricer summarizer
}

// NewService builds a cart service backed by the provided store and pricer.
func NewService(store Store, pricer summarizer) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if pricer == nil {
		return nil, fmt.Errorf("pricer required")
	}
	return &service{store: store, pricer: pricer}, nil
}

func (s *service) Get(ctx context.Context, tenant, buyerEmail string) (*View, error) {
	m, err := s.load(ctx, tenant, buyerEmail)
	if err != nil {
		return nil, err
	}
	return s.view(tenant, m), nil
}

func (s *service) Replace(ctx context.Context, tenant, buyerEmail string, items []types.CartLine) (*View, error) {
	return s.mutate(ctx, tenant, buyerEmail, func(m *Manager) error {
		return m.SetCart(items)
	})
}

func (s *service) ChangeQuantity(ctx context.Context, tenant, buyerEmail, itemID string, direction enums.QuantityDirection) (*View, error) {
	if !direction.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid quantity direction %q", direction))
	}
	return s.mutate(ctx, tenant, buyerEmail, func(m *Manager) error {
		return m.ChangeQuantity(strings.TrimSpace(itemID), direction)
	})
}

func (s *service) RemoveLine(ctx context.Context, tenant, buyerEmail, itemID string) (*View, error) {
	return s.mutate(ctx, tenant, buyerEmail, func(m *Manager) error {
		return m.RemoveLine(strings.TrimSpace(itemID))
	})
}

// Snapshot returns the current lines for checkout. Callers receive a copy;
// later cart edits do not affect it.
func (s *service) Snapshot(ctx context.Context, tenant, buyerEmail string) ([]types.CartLine, error) {
	m, err := s.load(ctx, tenant, buyerEmail)
	if err != nil {
		return nil, err
	}
	return m.Snapshot(), nil
}

func (s *service) mutate(ctx context.Context, tenant, buyerEmail string, apply func(*Manager) error) (*View, error) {
	m, err := s.load(ctx, tenant, buyerEmail)
	if err != nil {
		return nil, err
	}
	if err := apply(m); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, tenant, buyerEmail, m.State()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return s.view(tenant, m), nil
}

func (s *service) load(ctx context.Context, tenant, buyerEmail string) (*Manager, error) {
	if strings.TrimSpace(tenant) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant is required")
	}
	if strings.TrimSpace(buyerEmail) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer identity required")
	}
	state, err := s.store.Load(ctx, tenant, buyerEmail)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return Restore(state), nil
}

func (s *service) view(tenant string, m *Manager) *View {
	lines := m.Snapshot()
	return &View{
		Tenant:  tenant,
		Items:   lines,
		Summary: s.pricer.Summarize(lines),
	}
}
