package controllers

import (
	"net/http"

	"github.com/angelmondragon/superbox-backend/api/responses"
	"github.com/angelmondragon/superbox-backend/api/validators"
	checkoutsvc "github.com/angelmondragon/superbox-backend/internal/checkout"
	"github.com/angelmondragon/superbox-backend/pkg/enums"
	"github.com/angelmondragon/superbox-backend/pkg/logger"
	"github.com/angelmondragon/superbox-backend/pkg/types"
)

type startCheckoutRequest struct {
	Type  enums.PurchaseSource `json:"type" validate:"required,oneof=cart buy_now"`
	Items []types.CartLine     `json:"items,omitempty" validate:"dive"`
}

type selectMethodRequest struct {
	Method         enums.PaymentMethod         `json:"paymentMethod" validate:"required,oneof=cashOnDelivery mobileBanking cardPayment gatewayRedirect"`
	MobileProvider enums.MobileBankingProvider `json:"mobileProvider,omitempty" validate:"omitempty,oneof=bikash nogod upay"`
	Card           *checkoutsvc.CardInput      `json:"card,omitempty" validate:"-"`
}

// CheckoutStart opens a session from the cart or from a buy-now item list.
func CheckoutStart(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, email, err := storefrontBuyer(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload startCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var view *checkoutsvc.View
		if payload.Type == enums.PurchaseSourceBuyNow {
			view, err = svc.StartBuyNow(r.Context(), tenant, email, payload.Items)
		} else {
			view, err = svc.StartFromCart(r.Context(), tenant, email)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func CheckoutFetch(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, email, err := storefrontBuyer(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sessionID, err := validators.PathParam(r, "sessionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Get(r.Context(), tenant, email, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CheckoutSelectMethod switches the active payment method, optionally with
// its provider or card input, and returns the repriced session.
func CheckoutSelectMethod(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, email, err := storefrontBuyer(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sessionID, err := validators.PathParam(r, "sessionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload selectMethodRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.SelectMethod(r.Context(), tenant, email, sessionID, checkoutsvc.MethodInput{
			Method:         payload.Method,
			MobileProvider: payload.MobileProvider,
			Card:           payload.Card,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CheckoutSubmit runs the payment submission. Partial failures still answer
// 200 with per-item outcomes and summary.partial set.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, email, err := storefrontBuyer(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sessionID, err := validators.PathParam(r, "sessionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCheckoutSession(ctx, sessionID)
		}
		result, err := svc.Submit(ctx, tenant, email, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
