package auth

import (
	"testing"

	"github.com/quickseat/portal/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", 60)

	token, expiresAt, err := manager.GenerateToken("user-1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" || expiresAt.IsZero() {
		t.Fatal("token and expiry must be set")
	}

	claims, err := manager.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.SubjectID != "user-1" {
		t.Fatalf("subject = %s, want user-1", claims.SubjectID)
	}
	if claims.Role != domain.RoleAdmin {
		t.Fatalf("role = %s, want ADMIN", claims.Role)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", 60)
	verifier := NewTokenManager("secret-b", 60)

	token, _, err := issuer.GenerateToken("user-1", domain.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatal("token signed with a different secret was accepted")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	manager := NewTokenManager("test-secret", 60)
	if _, err := manager.ParseToken("not-a-token"); err == nil {
		t.Fatal("garbage token was accepted")
	}
}

func TestTokenManagerDefaultsTTL(t *testing.T) {
	manager := NewTokenManager("test-secret", 0)
	_, expiresAt, err := manager.GenerateToken("user-1", domain.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if expiresAt.IsZero() {
		t.Fatal("expiry must still be set with a defaulted TTL")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := ComparePassword(hash, "s3cret-pass"); err != nil {
		t.Fatalf("ComparePassword: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatal("wrong password accepted")
	}
}
