package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	s := NewTokenService([]byte("super-secret"), 10*time.Hour)

	tok, err := s.Issue("user-123", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := s.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Fatalf("userID mismatch: got %q want %q", claims.UserID, "user-123")
	}
	if claims.Role != models.RoleAdmin {
		t.Fatalf("role mismatch: got %q want %q", claims.Role, models.RoleAdmin)
	}
	if claims.ExpiresAt.Sub(claims.IssuedAt.Time) != 10*time.Hour {
		t.Fatalf("unexpected lifetime: %v", claims.ExpiresAt.Sub(claims.IssuedAt.Time))
	}
}

func TestVerify_ExpiredAfterTTL(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	s := NewTokenService([]byte("secret"), 10*time.Hour)
	s.now = fixedClock(issuedAt)

	tok, err := s.Issue("u1", models.RoleStudent)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	s.now = fixedClock(issuedAt.Add(10*time.Hour - time.Minute))
	if _, err := s.Verify(tok); err != nil {
		t.Fatalf("token must still be valid just before TTL, got %v", err)
	}

	s.now = fixedClock(issuedAt.Add(10*time.Hour + time.Second))
	_, err = s.Verify(tok)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenService([]byte("right-secret"), time.Hour).Issue("u2", models.RoleStudent)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = NewTokenService([]byte("wrong-secret"), time.Hour).Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService([]byte("k"), time.Hour).Verify("not.a.jwt")
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "u3",
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	_, err = NewTokenService([]byte("k"), time.Hour).Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken for alg=none, got %v", err)
	}
}

func TestVerify_RequiresUserIDAndExpiry(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	s := NewTokenService(secret, time.Hour)

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}
	if _, err := s.Verify(noID); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken without id, got %v", err)
	}

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u4"}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}
	if _, err := s.Verify(noExp); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken without exp, got %v", err)
	}
}
