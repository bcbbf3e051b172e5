package types

import "time"

// Account is the relay's persisted directory entry for a registered identity.
type Account struct {
	UUID      UUID      `cbor:"uuid"`
	Name      string    `cbor:"name"`
	PublicKey []byte    `cbor:"public_key"`
	SeedHash  []byte    `cbor:"seed_hash"`
	Created   time.Time `cbor:"created"`
}
