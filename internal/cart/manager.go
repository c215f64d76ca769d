package cart

import (
	"fmt"

	"github.com/angelmondragon/superbox-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/superbox-backend/pkg/errors"
	"github.com/angelmondragon/superbox-backend/pkg/types"
)

// State is the persisted form of a cart. Quantities may hold entries for ids
// that were removed; they are never read.
type State struct {
	Items      []types.CartLine `json:"items"`
	Quantities map[string]int   `json:"quantities"`
}

// Manager owns line quantities for one cart and keeps every quantity at or
// above one.
type Manager struct {
	items      []types.CartLine
	quantities map[string]int
}

func NewManager() *Manager {
	return &Manager{quantities: map[string]int{}}
}

// Restore rebuilds a manager from persisted state. Lines without a quantity
// entry are treated as quantity one.
func Restore(state State) *Manager {
	m := NewManager()
	m.items = append(m.items, state.Items...)
	for id, qty := range state.Quantities {
		m.quantities[id] = qty
	}
	for _, item := range m.items {
		if m.quantities[item.ID] < 1 {
			m.quantities[item.ID] = 1
		}
	}
	return m
}

// State returns a copy suitable for persistence.
func (m *Manager) State() State {
	state := State{
		Items:      make([]types.CartLine, len(m.items)),
		Quantities: make(map[string]int, len(m.quantities)),
	}
	copy(state.Items, m.items)
	for id, qty := range m.quantities {
		state.Quantities[id] = qty
	}
	return state
}

// SetCart replaces the item set and resets every quantity to one, including
// ids that were already in the cart.
func (m *Manager) SetCart(items []types.CartLine) error {
	next := make([]types.CartLine, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, raw := range items {
		item := types.NormalizeLine(raw)
		if item.ID == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")
		}
		if item.UnitPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("cart item %s has a negative price", item.ID))
		}
		if _, dup := seen[item.ID]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("cart item %s appears more than once", item.ID))
		}
		seen[item.ID] = struct{}{}
		item.Quantity = 0
		next = append(next, item)
	}

	m.items = next
	m.quantities = make(map[string]int, len(next))
	for _, item := range next {
		m.quantities[item.ID] = 1
	}
	return nil
}

// ChangeQuantity steps a line's quantity. Increment is unbounded; decrement
// stops at one and never removes the line.
func (m *Manager) ChangeQuantity(id string, direction enums.QuantityDirection) error {
	if !m.has(id) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found").WithDetails(map[string]any{"itemId": id})
	}
	switch direction {
	case enums.QuantityIncrement:
		m.quantities[id]++
	case enums.QuantityDecrement:
		if m.quantities[id] > 1 {
			m.quantities[id]--
		}
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid quantity direction %q", direction))
	}
	return nil
}

// RemoveLine deletes a line. Other quantities are untouched.
func (m *Manager) RemoveLine(id string) error {
	for i, item := range m.items {
		if item.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found").WithDetails(map[string]any{"itemId": id})
}

// Snapshot returns the ordered lines with quantities applied.
func (m *Manager) Snapshot() []types.CartLine {
	lines := make([]types.CartLine, 0, len(m.items))
	for _, item := range m.items {
		item.Quantity = m.quantities[item.ID]
		lines = append(lines, item)
	}
	return lines
}

func (m *Manager) has(id string) bool {
	for _, item := range m.items {
		if item.ID == id {
			return true
		}
	}
	return false
}
