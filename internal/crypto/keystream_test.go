package crypto_test

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"pqchat/internal/crypto"
	"pqchat/internal/domain"
)

func TestKeystream_RoundTrip(t *testing.T) {
	for _, secretLen := range []int{1, 7, 32, 64} {
		secret := make([]byte, secretLen)
		if _, err := rand.Read(secret); err != nil {
			t.Fatalf("rand: %v", err)
		}
		for _, msgLen := range []int{0, 1, 31, 32, 33, 100, 4096} {
			plain := make([]byte, msgLen)
			if _, err := rand.Read(plain); err != nil {
				t.Fatalf("rand: %v", err)
			}
			ct, err := crypto.Encrypt(plain, secret)
			if err != nil {
				t.Fatalf("Encrypt(%d/%d): %v", msgLen, secretLen, err)
			}
			if len(ct) != len(plain) {
				t.Fatalf("ciphertext length %d, want %d", len(ct), len(plain))
			}
			got, err := crypto.Decrypt(ct, secret)
			if err != nil {
				t.Fatalf("Decrypt(%d/%d): %v", msgLen, secretLen, err)
			}
			if !bytes.Equal(got, plain) {
				t.Fatalf("round trip mismatch for msg=%d secret=%d", msgLen, secretLen)
			}
		}
	}
}

func TestKeystream_TilesSecret(t *testing.T) {
	secret := []byte{0x01, 0x02}
	ct, err := crypto.Encrypt([]byte{0, 0, 0, 0, 0}, secret)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	want := []byte{1, 2, 1, 2, 1}
	if !bytes.Equal(ct, want) {
		t.Fatalf("got %x want %x", ct, want)
	}
}

func TestKeystream_EmptySecret(t *testing.T) {
	if _, err := crypto.Encrypt([]byte("hi"), nil); !errors.Is(err, domain.ErrCrypto) {
		t.Fatalf("expected ErrCrypto, got %v", err)
	}
}
