package types

// Identity is the single local identity of a client installation. It is
// created once, when the relay answers the first registration.
type Identity struct {
	UUID       UUID   `cbor:"uuid"`
	Name       string `cbor:"name"`
	KEMScheme  string `cbor:"kem_scheme"`
	PublicKey  []byte `cbor:"public_key"`
	PrivateKey []byte `cbor:"private_key"`
	SeedHash   []byte `cbor:"seed_hash"`
}
