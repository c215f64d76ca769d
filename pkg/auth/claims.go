package auth

import (
	"github.com/angelmondragon/superbox-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// IdentityPayload captures the data available when minting an identity token.
type IdentityPayload struct {
	Email string
	Role  enums.ActorRole
}

// IdentityClaims is the typed JWT issued by the identity provider.
type IdentityClaims struct {
	Email string          `json:"email"`
	Role  enums.ActorRole `json:"role"`
	jwt.RegisteredClaims
}
