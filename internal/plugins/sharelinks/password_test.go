package sharelinks

import (
	"strings"
	"testing"
)

func TestHashPasswordFormat(t *testing.T) {
	stored, err := HashPassword("field-review-2024")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	salt, key, ok := strings.Cut(stored, ":")
	if !ok {
		t.Fatalf("expected salt:derivedKey format, got %q", stored)
	}
	if len(salt) != 32 {
		t.Errorf("expected 32 hex chars of salt, got %d", len(salt))
	}
	if len(key) != 128 {
		t.Errorf("expected 128 hex chars of derived key, got %d", len(key))
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	first, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password must differ by salt")
	}
}

func TestVerifyPassword(t *testing.T) {
	stored, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !VerifyPassword("correct horse", stored) {
		t.Error("correct password must verify")
	}
	if VerifyPassword("wrong horse", stored) {
		t.Error("wrong password must not verify")
	}
	if VerifyPassword("", stored) {
		t.Error("empty password against a protected record must not verify")
	}
}

func TestVerifyPasswordUnprotected(t *testing.T) {
	// An empty stored record means no password was set, so anything passes.
	if !VerifyPassword("", "") {
		t.Error("empty input against an unprotected record must verify")
	}
	if !VerifyPassword("anything at all", "") {
		t.Error("any input against an unprotected record must verify")
	}
}

func TestVerifyPasswordMalformedFailsClosed(t *testing.T) {
	malformed := []string{
		"no-separator",
		"nothex:nothex",
		"abcd:abcd", // valid hex, wrong lengths
		":",
		"deadbeef:",
		":deadbeef",
	}
	for _, stored := range malformed {
		if VerifyPassword("anything", stored) {
			t.Errorf("malformed record %q must not verify", stored)
		}
	}
}

func TestIsPasswordProtected(t *testing.T) {
	if IsPasswordProtected("") {
		t.Error("empty record is not protected")
	}
	stored, err := HashPassword("pw")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !IsPasswordProtected(stored) {
		t.Error("non-empty record is protected")
	}
}
