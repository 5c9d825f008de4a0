package security

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("longenough", "pepper-1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(string(hash), "$argon2id$") {
		t.Fatalf("unexpected hash encoding: %s", hash)
	}

	ok, err := VerifyPassword("longenough", "pepper-1", hash)
	if err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}
	if !ok {
		t.Fatal("correct password did not verify")
	}
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("longenough", "pepper-1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	ok, err := VerifyPassword("wrongpassword", "pepper-1", hash)
	if err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}
	if ok {
		t.Fatal("wrong password verified")
	}
}

func TestVerifyPassword_WrongPepper(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("longenough", "pepper-1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	ok, err := VerifyPassword("longenough", "pepper-2", hash)
	if err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}
	if ok {
		t.Fatal("hash verified under a different pepper")
	}
}

func TestVerifyPassword_SaltedPerCall(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("longenough", "pepper-1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	b, err := HashPassword("longenough", "pepper-1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if string(a) == string(b) {
		t.Fatal("two hashes of the same password are identical, salt missing")
	}
}

func TestVerifyPassword_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := VerifyPassword("x", "p", []byte("not-a-hash")); err == nil {
		t.Fatal("expected error for malformed hash")
	}
	if _, err := VerifyPassword("x", "p", []byte("$bcrypt$v=19$t=1,m=2,p=3$a$b")); err == nil {
		t.Fatal("expected error for foreign hash scheme")
	}
}
