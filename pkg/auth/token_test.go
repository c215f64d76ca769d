package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/superbox-backend/pkg/config"
	"github.com/angelmondragon/superbox-backend/pkg/enums"
)

func TestMintAndParseIdentityToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "superbox-identity"}
	now := time.Now().UTC()

	token, err := MintIdentityToken(cfg, now, 30*time.Minute, IdentityPayload{
		Email: "  Buyer@Example.com ",
		Role:  enums.ActorRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint identity token: %v", err)
	}

	claims, err := ParseIdentityToken(cfg, token)
	if err != nil {
		t.Fatalf("parse identity token: %v", err)
	}
	if claims.Email != "buyer@example.com" {
		t.Fatalf("expected normalized email, got %q", claims.Email)
	}
	if claims.Role != enums.ActorRoleCustomer {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}
}

func TestParseIdentityTokenInvalidSignature(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "superbox-identity"}
	token, err := MintIdentityToken(cfg, time.Now(), time.Minute, IdentityPayload{
		Email: "buyer@example.com",
		Role:  enums.ActorRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint identity token: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseIdentityToken(other, token); err == nil {
		t.Fatal("expected signature validation to fail")
	}
}

func TestParseIdentityTokenExpired(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "superbox-identity"}
	token, err := MintIdentityToken(cfg, time.Now().Add(-2*time.Hour), time.Minute, IdentityPayload{
		Email: "buyer@example.com",
		Role:  enums.ActorRoleSeller,
	})
	if err != nil {
		t.Fatalf("mint identity token: %v", err)
	}
	if _, err := ParseIdentityToken(cfg, token); err == nil || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected expired error, got %v", err)
	}
}

func TestMintIdentityTokenRejectsBadPayload(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "superbox-identity"}
	if _, err := MintIdentityToken(cfg, time.Now(), time.Minute, IdentityPayload{Role: enums.ActorRoleCustomer}); err == nil {
		t.Fatal("expected missing email to fail")
	}
	if _, err := MintIdentityToken(cfg, time.Now(), time.Minute, IdentityPayload{Email: "a@b.c", Role: "root"}); err == nil {
		t.Fatal("expected invalid role to fail")
	}
}
