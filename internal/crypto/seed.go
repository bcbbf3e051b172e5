package crypto

import (
	"crypto/sha512"
	"fmt"

	"github.com/tyler-smith/go-bip39"

	"pqchat/internal/domain"
)

// seedEntropyBits yields a 12-word English mnemonic.
const seedEntropyBits = 128

// GenerateSeedPhrase returns a fresh BIP39 mnemonic and its hash. The relay
// keeps only the hash; the phrase is shown once to the new account holder.
func GenerateSeedPhrase() (string, []byte, error) {
	entropy, err := bip39.NewEntropy(seedEntropyBits)
	if err != nil {
		return "", nil, fmt.Errorf("%w: seed entropy: %v", domain.ErrCrypto, err)
	}
	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", nil, fmt.Errorf("%w: mnemonic: %v", domain.ErrCrypto, err)
	}
	return phrase, HashSeedPhrase(phrase), nil
}

// HashSeedPhrase is SHA-512 over the UTF-8 phrase.
func HashSeedPhrase(phrase string) []byte {
	sum := sha512.Sum512([]byte(phrase))
	return sum[:]
}
