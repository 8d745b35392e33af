package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewTokenIssuerRejectsBadConfiguration(t *testing.T) {
	if _, err := NewTokenIssuer("", "HS256", time.Minute); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewTokenIssuer("secret", "RS256", time.Minute); err == nil {
		t.Fatalf("expected error for unsupported algorithm")
	}
	if _, err := NewTokenIssuer("secret", "hs256", time.Minute); err != nil {
		t.Fatalf("algorithm should be case-insensitive: %v", err)
	}
}

func TestIssueAndParseRoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", "HS256", 30*time.Minute)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	token, err := issuer.Issue("user-123", "jane@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Fatalf("unexpected user id claim: %q", claims.UserID)
	}
	if claims.Subject != "jane@example.com" {
		t.Fatalf("unexpected subject claim: %q", claims.Subject)
	}
	if !claims.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected expiry in the future, got %v", claims.ExpiresAt)
	}
}

func TestParseZeroTTLTokenIsExpired(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", "HS256", 0)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	token, err := issuer.Issue("user-123", "jane@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Parse(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseTamperedTokenIsInvalid(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", "HS256", time.Minute)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	token, err := issuer.Issue("user-123", "jane@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := issuer.Parse(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for tampered signature, got %v", err)
	}

	if _, err := issuer.Parse("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for malformed encoding, got %v", err)
	}
}

func TestParseRejectsForeignSecret(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", "HS256", time.Minute)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	other, err := NewTokenIssuer("other-secret", "HS256", time.Minute)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	token, err := other.Issue("user-123", "jane@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for foreign secret, got %v", err)
	}
}

func TestParseRequiresUserIDClaim(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", "HS256", time.Minute)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	token, err := issuer.Issue("", "jane@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for missing user_id, got %v", err)
	}
}
