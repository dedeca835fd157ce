package helpers

import "testing"

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("senha123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "senha123" {
		t.Fatal("hash must differ from the plaintext")
	}
	if !CompareHashAndPassword(hash, "senha123") {
		t.Fatal("expected hash to match original password")
	}
	if CompareHashAndPassword(hash, "wrong") {
		t.Fatal("expected mismatch for wrong password")
	}
}
