package auth

import (
	"testing"
	"time"
)

func newTestAuth() *JWTAuthenticator {
	return NewJWTAuthenticator("access-secret", "refresh-secret", "backoffice", "backoffice", time.Minute, time.Hour)
}

func TestGenerateAndValidate(t *testing.T) {
	a := newTestAuth()

	access, refresh, err := a.GenerateTokens(42, "admin")
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}

	tok, err := a.ValidateAccessToken(access)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	id, err := UserID(tok)
	if err != nil || id != 42 {
		t.Fatalf("UserID = %d, %v", id, err)
	}

	rtok, err := a.ValidateRefreshToken(refresh)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if id, _ := UserID(rtok); id != 42 {
		t.Fatalf("refresh sub = %d", id)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	a := newTestAuth()
	access, refresh, err := a.GenerateTokens(7, "staff")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.ValidateAccessToken(refresh); err == nil {
		t.Fatal("refresh token accepted as access token")
	}
	if _, err := a.ValidateRefreshToken(access); err == nil {
		t.Fatal("access token accepted as refresh token")
	}
}

func TestRejectsOtherSecret(t *testing.T) {
	other := NewJWTAuthenticator("x", "y", "backoffice", "backoffice", time.Minute, time.Hour)
	access, _, err := other.GenerateTokens(1, "admin")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := newTestAuth().ValidateAccessToken(access); err == nil {
		t.Fatal("token signed with a different secret was accepted")
	}
}
