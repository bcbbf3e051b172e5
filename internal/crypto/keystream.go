package crypto

import (
	"fmt"

	"pqchat/internal/domain"
)

// Encrypt XORs plain with secret repeated to len(plain). See the package
// documentation for the weaknesses of this construction.
func Encrypt(plain, secret []byte) ([]byte, error) {
	return xorKeystream(plain, secret)
}

// Decrypt inverts Encrypt. The operation is its own inverse.
func Decrypt(ciphertext, secret []byte) ([]byte, error) {
	return xorKeystream(ciphertext, secret)
}

func xorKeystream(in, secret []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: empty shared secret", domain.ErrCrypto)
	}
	out := make([]byte, len(in))
	for i := range in {
		out[i] = in[i] ^ secret[i%len(secret)]
	}
	return out, nil
}
