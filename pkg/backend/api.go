package backend

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/superbox-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/superbox-backend/pkg/errors"
	"github.com/angelmondragon/superbox-backend/pkg/types"
)

// MessageResponse is the acknowledgement body returned by write endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// Storefront is the seller site that owns a tenant slug.
type Storefront struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PaymentRecord is the per-item payment written on direct settlement.
type PaymentRecord struct {
	ProductID     string              `json:"_id"`
	Name          string              `json:"name"`
	Price         types.Money         `json:"price"`
	Image         string              `json:"image,omitempty"`
	Quantity      int                 `json:"quantity"`
	PaymentStatus enums.PaymentStatus `json:"paymentStatus"`
	BuyerEmail    string              `json:"buyerEmail"`
	SellerEmail   string              `json:"sellerEmail"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
}

// GatewayRequest starts a hosted gateway payment for the whole purchase set.
type GatewayRequest struct {
	Amount     string   `json:"Amount"`
	Currency   string   `json:"Currency"`
	ProductIDs []string `json:"productId"`
}

type gatewayResponse struct {
	SSLCommerzResponse struct {
		GatewayPageURL string `json:"GatewayPageURL"`
	} `json:"sslCommerzResponse"`
}

type customerUpdate struct {
	Phone   string        `json:"phone"`
	Address types.Address `json:"address"`
}

// GetCustomer loads the buyer profile keyed by email.
func (c *Client) GetCustomer(ctx context.Context, email string) (*types.CustomerProfile, error) {
	if strings.TrimSpace(email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	var profile types.CustomerProfile
	if err := c.do(ctx, request{method: http.MethodGet, path: "/customer/" + escape(email)}, &profile); err != nil {
		return nil, err
	}
	if profile.Email == "" {
		profile.Email = email
	}
	return &profile, nil
}

// UpdateCustomer stores the phone and address collected by the profile form.
func (c *Client) UpdateCustomer(ctx context.Context, email, phone string, address types.Address) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	var resp MessageResponse
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/customer/" + escape(email),
		body:   customerUpdate{Phone: phone, Address: address},
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// GetStorefront resolves a tenant slug to its seller site.
func (c *Client) GetStorefront(ctx context.Context, tenant string) (*Storefront, error) {
	if strings.TrimSpace(tenant) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant is required")
	}
	var site Storefront
	if err := c.do(ctx, request{method: http.MethodGet, path: "/website/" + escape(tenant)}, &site); err != nil {
		return nil, err
	}
	if site.Name == "" {
		site.Name = tenant
	}
	return &site, nil
}

// SubmitPayment posts one payment record. The idempotency key lets the
// backend drop a replay of the same item submission.
func (c *Client) SubmitPayment(ctx context.Context, record PaymentRecord, idempotencyKey string) (string, error) {
	var resp MessageResponse
	err := c.do(ctx, request{
		method:         http.MethodPost,
		path:           "/payment",
		body:           record,
		idempotencyKey: idempotencyKey,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// InitGateway asks the backend to open a hosted gateway session and returns
// the page URL. An empty URL is returned as-is.
func (c *Client) InitGateway(ctx context.Context, req GatewayRequest) (string, error) {
	var resp gatewayResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/paymentSSL", body: req}, &resp); err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.SSLCommerzResponse.GatewayPageURL), nil
}
