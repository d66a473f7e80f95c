package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/antiq-app/antiq/internal/models"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("test-secret", time.Hour)
	user := &models.User{ID: uuid.New(), Email: "mia@example.ch"}

	token, sessionID, expiresAt, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	if token == "" || sessionID == "" {
		t.Fatal("Issue() returned empty token or session ID")
	}
	if time.Until(expiresAt) > time.Hour || time.Until(expiresAt) < 59*time.Minute {
		t.Errorf("Unexpected expiry: %v", expiresAt)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("UserID = %v, want %v", claims.UserID, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("Email = %q, want %q", claims.Email, user.Email)
	}
	if claims.SessionID != sessionID {
		t.Errorf("SessionID = %q, want %q", claims.SessionID, sessionID)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Email: "mia@example.ch"}
	token, _, _, err := NewTokenIssuer("secret-a", time.Hour).Issue(user)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := NewTokenIssuer("secret-b", time.Hour).Verify(token); err == nil {
		t.Error("Expected verification to fail with a different secret")
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Email: "mia@example.ch"}
	issuer := NewTokenIssuer("test-secret", -time.Minute)
	token, _, _, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := issuer.Verify(token); err == nil {
		t.Error("Expected verification of an expired token to fail")
	}
}

func TestVerify_Garbage(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("test-secret", time.Hour)
	if _, err := issuer.Verify("not.a.token"); err == nil {
		t.Error("Expected verification of garbage input to fail")
	}
}
