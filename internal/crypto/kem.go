package crypto

import (
	"fmt"
	"strings"

	"github.com/katzenpost/hpqc/kem"
	"github.com/katzenpost/hpqc/kem/mlkem768"
	"github.com/katzenpost/hpqc/kem/xwing"

	"pqchat/internal/domain"
)

// Scheme names accepted by NewKEM.
const (
	SchemeMLKEM768 = "MLKEM768"
	SchemeXwing    = "XWING"

	DefaultScheme = SchemeMLKEM768
)

// KEM adapts an hpqc scheme to domain.KEM, trading in marshalled key bytes
// so keys can be stored and sent on the wire as-is.
type KEM struct {
	scheme kem.Scheme
}

var _ domain.KEM = (*KEM)(nil)

// NewKEM returns the scheme registered under name. Matching ignores case and
// an empty name selects DefaultScheme.
func NewKEM(name string) (*KEM, error) {
	if name == "" {
		name = DefaultScheme
	}
	switch strings.ToUpper(name) {
	case SchemeMLKEM768:
		return &KEM{scheme: mlkem768.Scheme()}, nil
	case SchemeXwing:
		return &KEM{scheme: xwing.Scheme()}, nil
	default:
		return nil, fmt.Errorf("%w: unknown KEM scheme %q", domain.ErrCrypto, name)
	}
}

// Name returns the canonical scheme name.
func (k *KEM) Name() string { return k.scheme.Name() }

func (k *KEM) PublicKeySize() int { return k.scheme.PublicKeySize() }

func (k *KEM) CiphertextSize() int { return k.scheme.CiphertextSize() }

// GenerateKeyPair creates a fresh key pair and returns both halves marshalled.
func (k *KEM) GenerateKeyPair() ([]byte, []byte, error) {
	pk, sk, err := k.scheme.GenerateKeyPair()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: generate key pair: %v", domain.ErrCrypto, err)
	}
	pub, err := pk.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: marshal public key: %v", domain.ErrCrypto, err)
	}
	priv, err := sk.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: marshal private key: %v", domain.ErrCrypto, err)
	}
	// The scheme may hand back slices that alias its internal key buffers.
	return clone(pub), clone(priv), nil
}

// Encapsulate derives a fresh shared secret for the holder of publicKey and
// returns the ciphertext that lets them recover it.
func (k *KEM) Encapsulate(publicKey []byte) ([]byte, []byte, error) {
	pk, err := k.scheme.UnmarshalBinaryPublicKey(clone(publicKey))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: public key: %v", domain.ErrCrypto, err)
	}
	ct, ss, err := k.scheme.Encapsulate(pk)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: encapsulate: %v", domain.ErrCrypto, err)
	}
	return ct, ss, nil
}

// Decapsulate recovers the shared secret carried by ciphertext.
func (k *KEM) Decapsulate(privateKey, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) != k.scheme.CiphertextSize() {
		return nil, fmt.Errorf("%w: ciphertext is %d bytes, want %d",
			domain.ErrCrypto, len(ciphertext), k.scheme.CiphertextSize())
	}
	sk, err := k.scheme.UnmarshalBinaryPrivateKey(clone(privateKey))
	if err != nil {
		return nil, fmt.Errorf("%w: private key: %v", domain.ErrCrypto, err)
	}
	ss, err := k.scheme.Decapsulate(sk, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: decapsulate: %v", domain.ErrCrypto, err)
	}
	return ss, nil
}

// ValidatePublicKey reports whether b is a usable public key of this scheme.
// Unmarshalling only checks the length, so a trial encapsulation is run to
// catch malformed encodings.
func (k *KEM) ValidatePublicKey(b []byte) error {
	_, _, err := k.Encapsulate(b)
	return err
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
