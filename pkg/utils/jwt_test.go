package utils

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateAndValidateToken(t *testing.T) {
	SetSecret("test-secret")

	userID := primitive.NewObjectID()
	roleID := primitive.NewObjectID()

	token, err := GenerateToken(userID, roleID, "Sales")
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error: %v", err)
	}

	if claims.UserID != userID.Hex() {
		t.Errorf("user id = %q, want %q", claims.UserID, userID.Hex())
	}
	if claims.RoleID != roleID.Hex() {
		t.Errorf("role id = %q, want %q", claims.RoleID, roleID.Hex())
	}
	if claims.RoleName != "Sales" {
		t.Errorf("role name = %q, want Sales", claims.RoleName)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	SetSecret("first-secret")
	token, err := GenerateToken(primitive.NewObjectID(), primitive.NewObjectID(), "Sales")
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	SetSecret("second-secret")
	if _, err := ValidateToken(token); err == nil {
		t.Error("token signed with another secret must not validate")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	SetSecret("test-secret")
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Error("malformed token must not validate")
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if hash == "s3cret!" {
		t.Fatal("password must not be stored in plain text")
	}

	if !CheckPassword(hash, "s3cret!") {
		t.Error("correct password should verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password should fail")
	}
}
