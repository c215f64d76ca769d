// Package pricing computes cart and checkout totals. Every function is pure;
// amounts stay at full precision and are rounded only when rendered.
package pricing

import (
	"fmt"

	"github.com/angelmondragon/superbox-backend/pkg/config"
	"github.com/angelmondragon/superbox-backend/pkg/enums"
	"github.com/angelmondragon/superbox-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Surcharges maps a payment method to the flat fee added at checkout.
// Methods missing from the table carry no fee.
type Surcharges map[enums.PaymentMethod]decimal.Decimal

// Engine holds the storefront fee table.
type Engine struct {
	shippingPerItem decimal.Decimal
	surcharges      Surcharges
	currency        enums.Currency
}

// NewEngine builds an engine from explicit fees. Negative fees are rejected
// so that a checkout total never drops below its items total.
func NewEngine(shippingPerItem decimal.Decimal, surcharges Surcharges, currency enums.Currency) (*Engine, error) {
	if shippingPerItem.IsNegative() {
		return nil, fmt.Errorf("shipping per item must be non-negative")
	}
	table := make(Surcharges, len(surcharges))
	for method, fee := range surcharges {
		if !method.IsValid() {
			return nil, fmt.Errorf("surcharge for unknown payment method %q", method)
		}
		if fee.IsNegative() {
			return nil, fmt.Errorf("surcharge for %s must be non-negative", method)
		}
		table[method] = fee
	}
	if !currency.IsValid() {
		return nil, fmt.Errorf("invalid currency %q", currency)
	}
	return &Engine{shippingPerItem: shippingPerItem, surcharges: table, currency: currency}, nil
}

// NewEngineFromConfig wires the configured fee table.
func NewEngineFromConfig(cfg config.PricingConfig) (*Engine, error) {
	currency, err := enums.ParseCurrency(cfg.GatewayCurrency)
	if err != nil {
		return nil, err
	}
	return NewEngine(cfg.ShippingPerItemAmount(), Surcharges{
		enums.PaymentMethodCashOnDelivery: cfg.CashOnDeliveryFeeAmount(),
	}, currency)
}

func (e *Engine) Currency() enums.Currency {
	return e.currency
}

func (e *Engine) ShippingPerItem() decimal.Decimal {
	return e.shippingPerItem
}

// LineSubtotal is unit price times quantity.
func LineSubtotal(line types.CartLine) decimal.Decimal {
	return line.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// CartSubtotal sums every line subtotal.
func CartSubtotal(lines []types.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(LineSubtotal(line))
	}
	return total
}

// ShippingEstimate charges once per distinct line, not per unit.
func (e *Engine) ShippingEstimate(lines []types.CartLine) decimal.Decimal {
	return e.shippingPerItem.Mul(decimal.NewFromInt(int64(len(lines))))
}

func (e *Engine) CartTotal(lines []types.CartLine) decimal.Decimal {
	return CartSubtotal(lines).Add(e.ShippingEstimate(lines))
}

// ExtraCharge looks up the method's surcharge.
func (e *Engine) ExtraCharge(method enums.PaymentMethod) decimal.Decimal {
	if fee, ok := e.surcharges[method]; ok {
		return fee
	}
	return decimal.Zero
}

func (e *Engine) CheckoutTotal(itemsTotal decimal.Decimal, method enums.PaymentMethod) decimal.Decimal {
	return itemsTotal.Add(e.ExtraCharge(method))
}

// CartSummary is the priced view of a cart.
type CartSummary struct {
	LineCount int         `json:"lineCount"`
	Subtotal  types.Money `json:"subtotal"`
	Shipping  types.Money `json:"shipping"`
	Total     types.Money `json:"total"`
	Currency  string      `json:"currency"`
}

// CheckoutSummary is the priced view of a checkout session.
type CheckoutSummary struct {
	ItemsTotal  types.Money         `json:"itemsTotal"`
	ExtraCharge types.Money         `json:"extraCharge"`
	Total       types.Money         `json:"total"`
	Method      enums.PaymentMethod `json:"paymentMethod"`
	Currency    string              `json:"currency"`
}

func (e *Engine) Summarize(lines []types.CartLine) CartSummary {
	subtotal := CartSubtotal(lines)
	shipping := e.ShippingEstimate(lines)
	return CartSummary{
		LineCount: len(lines),
		Subtotal:  types.NewMoney(subtotal),
		Shipping:  types.NewMoney(shipping),
		Total:     types.NewMoney(subtotal.Add(shipping)),
		Currency:  e.currency.String(),
	}
}

func (e *Engine) SummarizeCheckout(itemsTotal decimal.Decimal, method enums.PaymentMethod) CheckoutSummary {
	extra := e.ExtraCharge(method)
	return CheckoutSummary{
		ItemsTotal:  types.NewMoney(itemsTotal),
		ExtraCharge: types.NewMoney(extra),
		Total:       types.NewMoney(itemsTotal.Add(extra)),
		Method:      method,
		Currency:    e.currency.String(),
	}
}
