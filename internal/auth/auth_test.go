package auth

import (
	"testing"
	"time"
)

func TestCreateAndVerifyToken(t *testing.T) {
	service := NewService("test-secret-key", time.Hour)

	token, err := service.CreateToken("user-123", "alice")
	if err != nil {
		t.Fatalf("Failed to create token: %v", err)
	}
	if token == "" {
		t.Fatal("Token should not be empty")
	}

	claims, err := service.VerifyToken(token)
	if err != nil {
		t.Fatalf("Failed to verify token: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("Expected UserID user-123, got %s", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("Expected Username alice, got %s", claims.Username)
	}
}

func TestVerifyToken_Invalid(t *testing.T) {
	service := NewService("test-secret-key", time.Hour)

	_, err := service.VerifyToken("invalid-token")
	if err != ErrTokenInvalid {
		t.Errorf("Expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	service := NewService("test-secret-key", -time.Hour) // already expired

	token, err := service.CreateToken("user-123", "alice")
	if err != nil {
		t.Fatalf("Failed to create token: %v", err)
	}

	_, err = service.VerifyToken(token)
	if err != ErrTokenExpired {
		t.Errorf("Expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyToken_WrongSecretKey(t *testing.T) {
	service1 := NewService("secret-key-1", time.Hour)
	service2 := NewService("secret-key-2", time.Hour)

	token, err := service1.CreateToken("user-123", "alice")
	if err != nil {
		t.Fatalf("Failed to create token: %v", err)
	}

	_, err = service2.VerifyToken(token)
	if err != ErrTokenInvalid {
		t.Errorf("Expected ErrTokenInvalid, got %v", err)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if !CheckPassword(hash, "hunter22") {
		t.Error("Expected password to match its hash")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("Expected wrong password to fail")
	}
}
