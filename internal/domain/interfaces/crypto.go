package interfaces

// KEM is a key-encapsulation mechanism over marshalled key bytes.
type KEM interface {
	Name() string
	PublicKeySize() int
	ValidatePublicKey(publicKey []byte) error
	GenerateKeyPair() (publicKey, privateKey []byte, err error)
	Encapsulate(publicKey []byte) (ciphertext, secret []byte, err error)
	Decapsulate(privateKey, ciphertext []byte) (secret []byte, err error)
}
