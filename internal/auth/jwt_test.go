package auth

import (
	"testing"
)

func TestIssuer_RoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret")

	token, err := issuer.GenerateParticipantToken("student-1", "cm101")
	if err != nil {
		t.Fatalf("GenerateParticipantToken failed: %v", err)
	}

	claims, err := issuer.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	if claims.StudentID != "student-1" {
		t.Errorf("Expected student-1, got %s", claims.StudentID)
	}
	if claims.CourseID != "cm101" {
		t.Errorf("Expected cm101, got %s", claims.CourseID)
	}
}

func TestIssuer_RejectsWrongSecret(t *testing.T) {
	token, err := NewIssuer("secret-a").GenerateParticipantToken("student-1", "")
	if err != nil {
		t.Fatalf("GenerateParticipantToken failed: %v", err)
	}

	if _, err := NewIssuer("secret-b").ValidateToken(token); err == nil {
		t.Error("Expected validation to fail with a different secret")
	}
}

func TestIssuer_RejectsGarbage(t *testing.T) {
	if _, err := NewIssuer("secret").ValidateToken("not-a-token"); err == nil {
		t.Error("Expected validation of garbage to fail")
	}
}
