package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/angelmondragon/superbox-backend/pkg/config"
	"github.com/angelmondragon/superbox-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/superbox-backend/pkg/errors"
	"github.com/angelmondragon/superbox-backend/pkg/types"
	"github.com/shopspring/decimal"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func testConfig() config.BackendConfig {
	return config.BackendConfig{
		BaseURL:             "http://backend.test/",
		Timeout:             time.Second,
		BreakerMaxRequests:  1,
		BreakerInterval:     time.Minute,
		BreakerOpenTimeout:  time.Minute,
		BreakerFailureRatio: 0.5,
		BreakerMinRequests:  2,
	}
}

func newTestClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient(testConfig(), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestSubmitPaymentRequest(t *testing.T) {
	var captured *http.Request
	var payload map[string]any

	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		return jsonResponse(http.StatusOK, `{"message":"payment saved"}`), nil
	})

	msg, err := client.SubmitPayment(context.Background(), PaymentRecord{
		ProductID:     "p-1",
		Name:          "Kurta",
		Price:         types.NewMoney(decimal.RequireFromString("12.5")),
		Quantity:      2,
		PaymentStatus: enums.PaymentStatusPending,
		BuyerEmail:    "buyer@example.com",
		SellerEmail:   "seller@example.com",
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
	}, "sess-1:p-1")
	if err != nil {
		t.Fatalf("submit payment: %v", err)
	}
	if msg != "payment saved" {
		t.Fatalf("unexpected message %q", msg)
	}
	if captured.Method != http.MethodPost || captured.URL.String() != "http://backend.test/payment" {
		t.Fatalf("unexpected request %s %s", captured.Method, captured.URL)
	}
	if got := captured.Header.Get("Idempotency-Key"); got != "sess-1:p-1" {
		t.Fatalf("unexpected idempotency key %q", got)
	}
	if payload["_id"] != "p-1" || payload["paymentStatus"] != "pending" || payload["paymentMethod"] != "cashOnDelivery" {
		t.Fatalf("unexpected payload %v", payload)
	}
	if payload["price"] != "12.50" || payload["sellerEmail"] != "seller@example.com" {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestInitGatewayRequest(t *testing.T) {
	var payload map[string]any
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/paymentSSL" {
			t.Fatalf("unexpected path %s", req.URL.Path)
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		return jsonResponse(http.StatusOK, `{"sslCommerzResponse":{"GatewayPageURL":"https://pay.test/session/1"}}`), nil
	})

	url, err := client.InitGateway(context.Background(), GatewayRequest{
		Amount:     "169.98",
		Currency:   "BDT",
		ProductIDs: []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("init gateway: %v", err)
	}
	if url != "https://pay.test/session/1" {
		t.Fatalf("unexpected url %q", url)
	}
	if payload["Amount"] != "169.98" || payload["Currency"] != "BDT" {
		t.Fatalf("unexpected payload %v", payload)
	}
	ids, ok := payload["productId"].([]any)
	if !ok || len(ids) != 2 || ids[0] != "a" {
		t.Fatalf("unexpected product ids %v", payload["productId"])
	}
}

func TestInitGatewayEmptyURL(t *testing.T) {
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"sslCommerzResponse":{}}`), nil
	})
	url, err := client.InitGateway(context.Background(), GatewayRequest{Amount: "1.00", Currency: "BDT"})
	if err != nil {
		t.Fatalf("init gateway: %v", err)
	}
	if url != "" {
		t.Fatalf("expected empty url, got %q", url)
	}
}

func TestCustomerRoundTrip(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.EscapedPath() != "/customer/buyer@example.com" {
			t.Fatalf("unexpected path %s", req.URL.EscapedPath())
		}
		switch req.Method {
		case http.MethodGet:
			return jsonResponse(http.StatusOK, `{"phone":"017","address":{"city":"Dhaka"}}`), nil
		case http.MethodPut:
			var body customerUpdate
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Phone != "018" || body.Address.PostalCode != "1207" {
				t.Fatalf("unexpected update %+v", body)
			}
			return jsonResponse(http.StatusOK, `{"message":"customer updated"}`), nil
		}
		t.Fatalf("unexpected method %s", req.Method)
		return nil, nil
	})

	profile, err := client.GetCustomer(context.Background(), "buyer@example.com")
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if profile.Email != "buyer@example.com" || profile.Phone != "017" || profile.Address.City != "Dhaka" {
		t.Fatalf("unexpected profile %+v", profile)
	}

	msg, err := client.UpdateCustomer(context.Background(), "buyer@example.com", "018", types.Address{PostalCode: "1207"})
	if err != nil {
		t.Fatalf("update customer: %v", err)
	}
	if msg != "customer updated" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		code   pkgerrors.Code
	}{
		{http.StatusNotFound, pkgerrors.CodeNotFound},
		{http.StatusBadRequest, pkgerrors.CodeValidation},
		{http.StatusConflict, pkgerrors.CodeConflict},
		{http.StatusBadGateway, pkgerrors.CodeDependency},
	}
	for _, tc := range cases {
		client := newTestClient(t, func(*http.Request) (*http.Response, error) {
			return jsonResponse(tc.status, `{"error":"nope"}`), nil
		})
		_, err := client.GetStorefront(context.Background(), "acme")
		if !pkgerrors.IsCode(err, tc.code) {
			t.Fatalf("status %d: expected %s, got %v", tc.status, tc.code, err)
		}
		var statusErr *StatusError
		if !errors.As(err, &statusErr) || statusErr.StatusCode != tc.status {
			t.Fatalf("status %d: expected StatusError in chain, got %v", tc.status, err)
		}
	}
}

func TestTransportErrorIsDependency(t *testing.T) {
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	_, err := client.SubmitPayment(context.Background(), PaymentRecord{ProductID: "p"}, "")
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.BaseURL = srv.URL
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := client.GetStorefront(context.Background(), "acme"); err == nil {
			t.Fatalf("expected failure on call %d", i)
		}
	}
	if client.BreakerState() != "open" {
		t.Fatalf("expected breaker open, got %s", client.BreakerState())
	}

	_, err = client.GetStorefront(context.Background(), "acme")
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error while open, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected open breaker to short-circuit, got %d calls", calls.Load())
	}
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.BaseURL = srv.URL
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	for i := 0; i < 5; i++ {
		_, _ = client.GetCustomer(context.Background(), "nobody@example.com")
	}
	if client.BreakerState() != "closed" {
		t.Fatalf("expected breaker to stay closed, got %s", client.BreakerState())
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient(config.BackendConfig{}); err == nil {
		t.Fatal("expected missing base url to fail")
	}
}
