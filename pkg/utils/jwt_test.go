package utils

import (
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	SetSecret("round-trip-secret")

	token, err := GenerateToken("rep@example.com")
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Email != "rep@example.com" {
		t.Errorf("email = %q, want rep@example.com", claims.Email)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	SetSecret("first-secret")
	token, err := GenerateToken("rep@example.com")
	if err != nil {
		t.Fatal(err)
	}

	SetSecret("second-secret")
	if _, err := ValidateToken(token); err == nil {
		t.Error("token signed with a different secret validated")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	SetSecret("any-secret")
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Error("garbage token validated")
	}
}
