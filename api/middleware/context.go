package middleware

import (
	"context"

	"github.com/angelmondragon/superbox-backend/pkg/enums"
)

// requestIdentity is everything the auth, tenant and request-id middleware
// learn about a caller. It is stored once per request and copied on write.
type requestIdentity struct {
	requestID  string
	buyerEmail string
	role       enums.ActorRole
	tenant     string
}

type identityKey struct{}

func identityFrom(ctx context.Context) requestIdentity {
	if ctx == nil {
		return requestIdentity{}
	}
	id, _ := ctx.Value(identityKey{}).(requestIdentity)
	return id
}

func withIdentity(ctx context.Context, set func(*requestIdentity)) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	id := identityFrom(ctx)
	set(&id)
	return context.WithValue(ctx, identityKey{}, id)
}

func BuyerEmailFromContext(ctx context.Context) string { return identityFrom(ctx).buyerEmail }

func RoleFromContext(ctx context.Context) enums.ActorRole { return identityFrom(ctx).role }

func TenantFromContext(ctx context.Context) string { return identityFrom(ctx).tenant }

func RequestIDFromContext(ctx context.Context) string { return identityFrom(ctx).requestID }

// WithBuyerEmail injects the authenticated buyer into the context.
func WithBuyerEmail(ctx context.Context, email string) context.Context {
	return withIdentity(ctx, func(id *requestIdentity) { id.buyerEmail = email })
}

func WithRole(ctx context.Context, role enums.ActorRole) context.Context {
	return withIdentity(ctx, func(id *requestIdentity) { id.role = role })
}

// WithTenant injects the storefront slug for downstream handlers.
func WithTenant(ctx context.Context, tenant string) context.Context {
	return withIdentity(ctx, func(id *requestIdentity) { id.tenant = tenant })
}

func withRequestID(ctx context.Context, requestID string) context.Context {
	return withIdentity(ctx, func(id *requestIdentity) { id.requestID = requestID })
}
