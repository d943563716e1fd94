package jwt

import (
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(&Payload{Username: "alice", Admin: true}, testSecret, IdentityExpiration)
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	claims, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseToken() error: %v", err)
	}

	if claims.Username != "alice" {
		t.Errorf("Username = %q, want alice", claims.Username)
	}
	if !claims.Admin {
		t.Error("Admin flag lost in round trip")
	}
	if claims.Issuer != TokenIssuer {
		t.Errorf("Issuer = %q, want %q", claims.Issuer, TokenIssuer)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(&Payload{Username: "alice"}, testSecret, IdentityExpiration)
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	if _, err := ParseToken(token, "other-secret"); err == nil {
		t.Fatal("ParseToken() with wrong secret succeeded, want error")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken(&Payload{Username: "alice"}, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	if _, err := ParseToken(token, testSecret); err == nil {
		t.Fatal("ParseToken() with expired token succeeded, want error")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken("not.a.token", testSecret); err == nil {
		t.Fatal("ParseToken() with garbage succeeded, want error")
	}
}
