package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndVerifyJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if err := InitJWTSecret(); err != nil {
		t.Fatalf("InitJWTSecret returned error: %v", err)
	}

	tokenString, err := GenerateJWT(42, "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}

	token, err := VerifyJWT(tokenString)
	if err != nil {
		t.Fatalf("VerifyJWT returned error: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected MapClaims")
	}

	if id, ok := claims["user_id"].(float64); !ok || uint(id) != 42 {
		t.Errorf("expected user_id 42, got %v", claims["user_id"])
	}
	if claims["email"] != "alice@example.com" {
		t.Errorf("expected email claim, got %v", claims["email"])
	}
}

func TestVerifyJWT_RejectsTampering(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if err := InitJWTSecret(); err != nil {
		t.Fatalf("InitJWTSecret returned error: %v", err)
	}

	tokenString, err := GenerateJWT(42, "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}

	if _, err := VerifyJWT(tokenString + "x"); err == nil {
		t.Error("expected tampered token to be rejected")
	}

	// Tokens signed with a different secret do not verify.
	jwtSecret = "other-secret"
	other, err := GenerateJWT(42, "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}
	jwtSecret = "test-secret"

	if _, err := VerifyJWT(other); err == nil {
		t.Error("expected token from a different secret to be rejected")
	}
}

func TestInitJWTSecret_Missing(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if err := InitJWTSecret(); err == nil {
		t.Error("expected an error when JWT_SECRET is unset")
	}
}
