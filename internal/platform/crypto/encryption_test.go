package crypto

import (
	"bytes"
	"strings"
	"testing"
)

func TestSealerRoundTrip(t *testing.T) {
	sealer, err := New(strings.Repeat("ab", 32))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !sealer.Configured() {
		t.Fatal("expected configured sealer")
	}

	sealed, err := sealer.EncryptString("JBSWY3DPEHPK3PXP")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Contains(sealed, []byte("JBSWY3DPEHPK3PXP")) {
		t.Fatal("expected ciphertext to hide the secret")
	}
	plain, err := sealer.DecryptString(sealed)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if plain != "JBSWY3DPEHPK3PXP" {
		t.Fatalf("unexpected plain text %q", plain)
	}

	if _, err := sealer.Decrypt([]byte("short")); err == nil {
		t.Fatal("expected error for truncated ciphertext")
	}
}

func TestSealerWithoutKeyPassesThrough(t *testing.T) {
	sealer, err := New("")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	sealed, err := sealer.EncryptString("secret")
	if err != nil || string(sealed) != "secret" {
		t.Fatalf("expected pass-through, got %q %v", sealed, err)
	}
}

func TestNewRejectsShortKey(t *testing.T) {
	if _, err := New("too-short"); err == nil {
		t.Fatal("expected key length error")
	}
}
