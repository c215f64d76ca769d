package checkout

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/angelmondragon/superbox-backend/internal/pricing"
	"github.com/angelmondragon/superbox-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/superbox-backend/pkg/errors"
	"github.com/angelmondragon/superbox-backend/pkg/types"
	"github.com/shopspring/decimal"
)

func testEngine(t *testing.T) *pricing.Engine {
	t.Helper()
	engine, err := pricing.NewEngine(decimal.RequireFromString("4.99"), pricing.Surcharges{
		enums.PaymentMethodCashOnDelivery: decimal.NewFromInt(10),
	}, enums.CurrencyBDT)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func line(id string, price int64) types.CartLine {
	return types.CartLine{ID: id, Name: "Item " + id, UnitPrice: types.NewMoney(decimal.NewFromInt(price)), Quantity: 1}
}

func openSession() *Session {
	return &Session{
		ID:         "sess-1",
		Tenant:     "acme",
		BuyerEmail: "buyer@example.com",
		Items:      []types.CartLine{line("a", 100), line("b", 50)},
		ItemsTotal: types.NewMoney(decimal.RequireFromString("159.98")),
		Method:     enums.PaymentMethodCashOnDelivery,
		Status:     enums.CheckoutStatusOpen,
	}
}

func TestBeginRequiresPhone(t *testing.T) {
	err := Begin(&types.CustomerProfile{Email: "buyer@example.com"}, []types.CartLine{line("a", 1)})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeProfileIncomplete {
		t.Fatalf("expected profile incomplete, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["action"] != "complete_profile" {
		t.Fatalf("expected complete_profile action, got %#v", typed.Details())
	}
}

func TestBeginRejectsEmptyPurchase(t *testing.T) {
	err := Begin(&types.CustomerProfile{Phone: "01700000000"}, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeEmptyPurchase {
		t.Fatalf("expected empty purchase, got %v", err)
	}
	if !strings.HasPrefix(typed.Message(), "Your cart is empty.") {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestTotalsFollowActiveMethod(t *testing.T) {
	engine := testEngine(t)
	session := openSession()

	if got := session.Totals(engine).Total.StringFixed(2); got != "169.98" {
		t.Fatalf("expected cod total 169.98, got %s", got)
	}
	if err := session.SelectMethod(enums.PaymentMethodCardPayment); err != nil {
		t.Fatalf("select card: %v", err)
	}
	totals := session.Totals(engine)
	if totals.Total.StringFixed(2) != "159.98" || !totals.ExtraCharge.IsZero() {
		t.Fatalf("expected card total 159.98 without surcharge, got %+v", totals)
	}
	if err := session.SelectMethod(enums.PaymentMethodCashOnDelivery); err != nil {
		t.Fatalf("select cod: %v", err)
	}
	if got := session.Totals(engine).ExtraCharge.StringFixed(2); got != "10.00" {
		t.Fatalf("expected cod surcharge restored, got %s", got)
	}
}

func TestUnknownStoredMethodIsNotChargedOrSubmitted(t *testing.T) {
	engine := testEngine(t)
	session := openSession()
	session.Method = enums.PaymentMethod("bankTransfer")

	if _, ok := session.ActiveMethod().(CashOnDelivery); ok {
		t.Fatalf("unknown method must not fall back to cash on delivery")
	}
	if got := session.Totals(engine).ExtraCharge; !got.IsZero() {
		t.Fatalf("expected no surcharge for unknown method, got %s", got)
	}
	if err := session.ReadyToSubmit(); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProviderIsRememberedButNotActive(t *testing.T) {
	session := openSession()
	if err := session.SelectMethod(enums.PaymentMethodMobileBanking); err != nil {
		t.Fatalf("select mobile banking: %v", err)
	}
	if err := session.SetMobileBankingProvider(enums.MobileBankingNogod); err != nil {
		t.Fatalf("set provider: %v", err)
	}
	if err := session.SelectMethod(enums.PaymentMethodCashOnDelivery); err != nil {
		t.Fatalf("select cod: %v", err)
	}
	if _, ok := session.ActiveMethod().(CashOnDelivery); !ok {
		t.Fatalf("expected cash on delivery variant, got %T", session.ActiveMethod())
	}
	if err := session.SelectMethod(enums.PaymentMethodMobileBanking); err != nil {
		t.Fatalf("reselect mobile banking: %v", err)
	}
	mb, ok := session.ActiveMethod().(MobileBanking)
	if !ok || mb.Provider != enums.MobileBankingNogod {
		t.Fatalf("expected remembered provider, got %#v", session.ActiveMethod())
	}
}

func TestMethodInputRequiresActiveMethod(t *testing.T) {
	session := openSession()
	if err := session.SetMobileBankingProvider(enums.MobileBankingBikash); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if err := session.SetCardDetails(CardInput{Number: "4111111111111111", Expiry: "12/29", CVV: "123"}); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestCardDetailsAreMasked(t *testing.T) {
	session := openSession()
	_ = session.SelectMethod(enums.PaymentMethodCardPayment)

	if err := session.SetCardDetails(CardInput{Number: "4111 1111 1111 1234", Expiry: "13/29", CVV: "123"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected invalid expiry, got %v", err)
	}
	if err := session.SetCardDetails(CardInput{Number: "4111 1111 1111 1234", Expiry: "12/29", CVV: "12a"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected invalid cvv, got %v", err)
	}
	if err := session.SetCardDetails(CardInput{Number: "4111 1111 1111 1234", Expiry: "12/29", CVV: "123"}); err != nil {
		t.Fatalf("set card: %v", err)
	}
	if session.Card.Last4 != "1234" {
		t.Fatalf("expected last4 1234, got %q", session.Card.Last4)
	}

	raw, err := json.Marshal(session)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "4111") || strings.Contains(string(raw), "cvv") {
		t.Fatalf("card data leaked: %s", raw)
	}
}

func TestReadyToSubmit(t *testing.T) {
	session := openSession()
	if err := session.ReadyToSubmit(); err != nil {
		t.Fatalf("cod should be ready: %v", err)
	}

	_ = session.SelectMethod(enums.PaymentMethodMobileBanking)
	if err := session.ReadyToSubmit(); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected provider required, got %v", err)
	}

	_ = session.SelectMethod(enums.PaymentMethodCardPayment)
	if err := session.ReadyToSubmit(); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected card required, got %v", err)
	}

	session.Status = enums.CheckoutStatusSubmitted
	if err := session.ReadyToSubmit(); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected terminal session conflict, got %v", err)
	}
	if err := session.SelectMethod(enums.PaymentMethodCashOnDelivery); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected terminal session conflict, got %v", err)
	}
}

func TestPaymentRequestUsesActiveMethod(t *testing.T) {
	session := openSession()
	session.SellerEmail = "owner@acme.test"
	req := session.PaymentRequest(decimal.RequireFromString("169.98"), enums.CurrencyBDT)
	if req.Method != enums.PaymentMethodCashOnDelivery || req.SellerEmail != "owner@acme.test" {
		t.Fatalf("unexpected request %+v", req)
	}
	req.Items[0].Name = "changed"
	if session.Items[0].Name == "changed" {
		t.Fatal("payment request must not alias session items")
	}
}
