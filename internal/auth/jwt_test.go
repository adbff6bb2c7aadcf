package auth

import (
	"testing"
	"time"
)

const testSecret = "test-secret-at-least-32-chars-long-abcdef"

func TestManager_GenerateAndValidate(t *testing.T) {
	m := NewManager(testSecret, "bettertasks-test", time.Hour)

	token, err := m.GenerateToken("user-123", "u@example.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	userID, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("expected userID %q, got %q", "user-123", userID)
	}
}

func TestManager_ValidateToken_Expired(t *testing.T) {
	m := NewManager(testSecret, "bettertasks-test", -time.Minute)

	token, err := m.GenerateToken("user-123", "u@example.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := m.ValidateToken(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestManager_ValidateToken_WrongSecret(t *testing.T) {
	m := NewManager(testSecret, "bettertasks-test", time.Hour)
	other := NewManager("another-secret-also-32-chars-long-xyzxyz", "bettertasks-test", time.Hour)

	token, err := m.GenerateToken("user-123", "u@example.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("expected error for token signed with another secret")
	}
}

func TestManager_ValidateToken_WrongIssuer(t *testing.T) {
	m := NewManager(testSecret, "someone-else", time.Hour)
	validator := NewManager(testSecret, "bettertasks-test", time.Hour)

	token, err := m.GenerateToken("user-123", "u@example.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := validator.ValidateToken(token); err == nil {
		t.Fatal("expected error for wrong issuer")
	}
}

func TestManager_ValidateToken_Garbage(t *testing.T) {
	m := NewManager(testSecret, "bettertasks-test", time.Hour)

	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.ValidateToken(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
