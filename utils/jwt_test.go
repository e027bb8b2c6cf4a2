package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestTokens(t *testing.T, ttl time.Duration) *TokenService {
	t.Helper()
	s, err := NewTokenService("test-secret", ttl)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	return s
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	if _, err := NewTokenService("", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewTokenService("s", 0); err == nil {
		t.Fatalf("expected error for zero ttl")
	}
}

func TestTokenTTLBoundary(t *testing.T) {
	issuedAt := time.Unix(1_700_000_000, 0)
	s := newTestTokens(t, time.Hour)
	s.now = fixedClock(issuedAt)

	token, err := s.Issue("a@x.com", nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	s.now = fixedClock(issuedAt.Add(time.Hour - time.Second))
	claims, err := s.Verify(token)
	if err != nil {
		t.Fatalf("verify before expiry: %v", err)
	}
	if claims.Email != "a@x.com" {
		t.Fatalf("unexpected email: %q", claims.Email)
	}
	if !claims.ExpiresAt.Equal(issuedAt.Add(time.Hour)) {
		t.Fatalf("unexpected expiry: %v", claims.ExpiresAt)
	}

	s.now = fixedClock(issuedAt.Add(time.Hour + time.Second))
	if _, err := s.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	other, err := NewTokenService("another-secret", time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	token, err := other.Issue("a@x.com", nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	s := newTestTokens(t, time.Hour)
	if _, err := s.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsMalformedAndUnsigned(t *testing.T) {
	s := newTestTokens(t, time.Hour)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"email": "a@x.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	for _, token := range []string{"", "not-a-token", "a.b.c", unsigned} {
		if _, err := s.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestVerifyRequiresEmailAndExpiry(t *testing.T) {
	s := newTestTokens(t, time.Hour)

	noEmail, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(s.secret)
	if _, err := s.Verify(noEmail); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("missing email: expected ErrInvalidToken, got %v", err)
	}

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "a@x.com",
	}).SignedString(s.secret)
	if _, err := s.Verify(noExp); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("missing exp: expected ErrInvalidToken, got %v", err)
	}
}

func TestIssueKeepsExtraClaimsButNotReservedOnes(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := newTestTokens(t, 24*time.Hour)
	s.now = fixedClock(now)

	token, err := s.Issue("a@x.com", map[string]any{
		"name":  "Ada",
		"exp":   float64(1),
		"nbf":   float64(now.Add(48 * time.Hour).Unix()),
		"email": "someone-else@x.com",
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := s.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Email != "a@x.com" {
		t.Fatalf("email claim overridden: %q", claims.Email)
	}
	if claims.Raw["name"] != "Ada" {
		t.Fatalf("extra claim lost: %v", claims.Raw)
	}
	if _, ok := claims.Raw["nbf"]; ok {
		t.Fatalf("nbf should be dropped")
	}
	if !claims.ExpiresAt.Equal(now.Add(24 * time.Hour)) {
		t.Fatalf("exp not overridden: %v", claims.ExpiresAt)
	}
}

func TestIssueRequiresEmail(t *testing.T) {
	s := newTestTokens(t, time.Hour)
	if _, err := s.Issue("", nil); err == nil {
		t.Fatalf("expected error for empty email")
	}
}
