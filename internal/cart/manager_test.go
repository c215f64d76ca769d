package cart

import (
	"testing"

	"github.com/angelmondragon/superbox-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/superbox-backend/pkg/errors"
	"github.com/angelmondragon/superbox-backend/pkg/types"
	"github.com/shopspring/decimal"
)

func item(id string, price int64) types.CartLine {
	return types.CartLine{ID: id, Name: "Item " + id, UnitPrice: types.NewMoney(decimal.NewFromInt(price))}
}

func quantities(lines []types.CartLine) map[string]int {
	out := make(map[string]int, len(lines))
	for _, line := range lines {
		out[line.ID] = line.Quantity
	}
	return out
}

func TestSetCartResetsEveryQuantity(t *testing.T) {
	t.Parallel()

	m := NewManager()
	if err := m.SetCart([]types.CartLine{item("a", 100), item("b", 50)}); err != nil {
		t.Fatalf("set cart: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := m.ChangeQuantity("a", enums.QuantityIncrement); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	if got := quantities(m.Snapshot())["a"]; got != 4 {
		t.Fatalf("expected a=4 before reset, got %d", got)
	}

	if err := m.SetCart([]types.CartLine{item("a", 100), item("b", 50), item("c", 5)}); err != nil {
		t.Fatalf("set cart: %v", err)
	}
	for id, qty := range quantities(m.Snapshot()) {
		if qty != 1 {
			t.Fatalf("expected %s reset to 1, got %d", id, qty)
		}
	}
}

func TestDecrementFloorsAtOne(t *testing.T) {
	t.Parallel()

	m := NewManager()
	if err := m.SetCart([]types.CartLine{item("a", 1)}); err != nil {
		t.Fatalf("set cart: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := m.ChangeQuantity("a", enums.QuantityDecrement); err != nil {
			t.Fatalf("decrement: %v", err)
		}
	}
	lines := m.Snapshot()
	if len(lines) != 1 || lines[0].Quantity != 1 {
		t.Fatalf("expected single line at quantity 1, got %+v", lines)
	}
}

func TestChangeQuantityLeavesOtherLinesAlone(t *testing.T) {
	t.Parallel()

	m := NewManager()
	if err := m.SetCart([]types.CartLine{item("a", 1), item("b", 2)}); err != nil {
		t.Fatalf("set cart: %v", err)
	}
	if err := m.ChangeQuantity("b", enums.QuantityIncrement); err != nil {
		t.Fatalf("increment: %v", err)
	}
	got := quantities(m.Snapshot())
	if got["a"] != 1 || got["b"] != 2 {
		t.Fatalf("unexpected quantities %v", got)
	}
}

func TestChangeQuantityErrors(t *testing.T) {
	t.Parallel()

	m := NewManager()
	if err := m.SetCart([]types.CartLine{item("a", 1)}); err != nil {
		t.Fatalf("set cart: %v", err)
	}
	if err := m.ChangeQuantity("missing", enums.QuantityIncrement); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := m.ChangeQuantity("a", "sideways"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRemoveLinePreservesOrderAndQuantities(t *testing.T) {
	t.Parallel()

	m := NewManager()
	if err := m.SetCart([]types.CartLine{item("a", 1), item("b", 2), item("c", 3)}); err != nil {
		t.Fatalf("set cart: %v", err)
	}
	if err := m.ChangeQuantity("c", enums.QuantityIncrement); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := m.RemoveLine("b"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	lines := m.Snapshot()
	if len(lines) != 2 || lines[0].ID != "a" || lines[1].ID != "c" {
		t.Fatalf("unexpected lines %+v", lines)
	}
	if lines[1].Quantity != 2 {
		t.Fatalf("expected c to keep quantity 2, got %d", lines[1].Quantity)
	}
	if err := m.RemoveLine("b"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found on second remove, got %v", err)
	}
}

func TestSetCartRejectsInvalidItems(t *testing.T) {
	t.Parallel()

	cases := map[string][]types.CartLine{
		"missing id":     {{Name: "x"}},
		"negative price": {item("a", -1)},
		"duplicate id":   {item("a", 1), item("a", 2)},
	}
	for name, items := range cases {
		m := NewManager()
		if err := m.SetCart(items); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestRestoreToleratesStaleAndMissingQuantities(t *testing.T) {
	t.Parallel()

	m := Restore(State{
		Items:      []types.CartLine{item("a", 1), item("b", 1)},
		Quantities: map[string]int{"a": 3, "gone": 9},
	})
	got := quantities(m.Snapshot())
	if got["a"] != 3 || got["b"] != 1 {
		t.Fatalf("unexpected quantities %v", got)
	}
	if _, ok := got["gone"]; ok {
		t.Fatalf("stale quantity leaked into snapshot")
	}
}
