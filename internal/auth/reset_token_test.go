package auth

import (
	"testing"
	"time"
)

func TestResetTokenLifecycle(t *testing.T) {
	issuer := NewResetTokenIssuer("test-secret", 30*time.Minute)

	token, expiresAt, err := issuer.Issue("staff-123")
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Fatal("expected future expiry")
	}

	staffID, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("unexpected error verifying token: %v", err)
	}
	if staffID != "staff-123" {
		t.Fatalf("expected staff-123, got %s", staffID)
	}
}

func TestResetTokenRejectsExpired(t *testing.T) {
	issuer := NewResetTokenIssuer("test-secret", time.Hour)
	issuer.ttl = -time.Minute

	token, _, err := issuer.Issue("staff-123")
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}
	if _, err := issuer.Verify(token); err == nil {
		t.Fatal("expected expired token to fail verification")
	}
}

func TestResetTokenRejectsForeignSignature(t *testing.T) {
	issuer := NewResetTokenIssuer("secret-a", time.Hour)
	other := NewResetTokenIssuer("secret-b", time.Hour)

	token, _, err := issuer.Issue("staff-123")
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}
	if _, err := other.Verify(token); err == nil {
		t.Fatal("expected token signed with a different secret to fail")
	}
}

func TestResetTokenRejectsGarbage(t *testing.T) {
	issuer := NewResetTokenIssuer("secret", time.Hour)
	if _, err := issuer.Verify("not-a-token"); err == nil {
		t.Fatal("expected malformed token to fail verification")
	}
}
