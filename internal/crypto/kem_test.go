package crypto_test

import (
	"bytes"
	"errors"
	"testing"

	"pqchat/internal/crypto"
	"pqchat/internal/domain"
)

func TestKEM_EncapsulateDecapsulate(t *testing.T) {
	for _, name := range []string{crypto.SchemeMLKEM768, crypto.SchemeXwing} {
		t.Run(name, func(t *testing.T) {
			k, err := crypto.NewKEM(name)
			if err != nil {
				t.Fatalf("NewKEM: %v", err)
			}
			pub, priv, err := k.GenerateKeyPair()
			if err != nil {
				t.Fatalf("GenerateKeyPair: %v", err)
			}
			if len(pub) != k.PublicKeySize() {
				t.Fatalf("public key is %d bytes, want %d", len(pub), k.PublicKeySize())
			}
			ct, ss, err := k.Encapsulate(pub)
			if err != nil {
				t.Fatalf("Encapsulate: %v", err)
			}
			got, err := k.Decapsulate(priv, ct)
			if err != nil {
				t.Fatalf("Decapsulate: %v", err)
			}
			if !bytes.Equal(got, ss) {
				t.Fatalf("shared secrets differ")
			}
		})
	}
}

func TestKEM_DefaultAndCaseInsensitive(t *testing.T) {
	k, err := crypto.NewKEM("")
	if err != nil {
		t.Fatalf("NewKEM: %v", err)
	}
	if k.Name() != crypto.SchemeMLKEM768 {
		t.Fatalf("default scheme %q", k.Name())
	}
	x, err := crypto.NewKEM("Xwing")
	if err != nil {
		t.Fatalf("NewKEM(Xwing): %v", err)
	}
	if x.Name() != crypto.SchemeXwing {
		t.Fatalf("scheme %q", x.Name())
	}
	if _, err := crypto.NewKEM("kyber1"); !errors.Is(err, domain.ErrCrypto) {
		t.Fatalf("expected ErrCrypto, got %v", err)
	}
}

func TestKEM_MalformedInputs(t *testing.T) {
	k, err := crypto.NewKEM(crypto.SchemeMLKEM768)
	if err != nil {
		t.Fatalf("NewKEM: %v", err)
	}
	pub, priv, err := k.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	if _, err := k.Decapsulate(priv, []byte("short")); !errors.Is(err, domain.ErrCrypto) {
		t.Fatalf("short ciphertext: expected ErrCrypto, got %v", err)
	}
	if _, err := k.Decapsulate([]byte("bad key"), make([]byte, k.CiphertextSize())); !errors.Is(err, domain.ErrCrypto) {
		t.Fatalf("bad private key: expected ErrCrypto, got %v", err)
	}
	if _, _, err := k.Encapsulate([]byte("bad key")); !errors.Is(err, domain.ErrCrypto) {
		t.Fatalf("bad public key: expected ErrCrypto, got %v", err)
	}
	if err := k.ValidatePublicKey(nil); !errors.Is(err, domain.ErrCrypto) {
		t.Fatalf("empty public key: expected ErrCrypto, got %v", err)
	}
	if err := k.ValidatePublicKey(bytes.Repeat([]byte{0xff}, k.PublicKeySize())); !errors.Is(err, domain.ErrCrypto) {
		t.Fatalf("out of range public key: expected ErrCrypto, got %v", err)
	}
	if err := k.ValidatePublicKey(pub); err != nil {
		t.Fatalf("valid public key: %v", err)
	}
}
