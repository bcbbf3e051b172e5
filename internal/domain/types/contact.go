package types

// ContactOrigin records which side of the KEM transaction this client was.
type ContactOrigin uint8

const (
	// OriginLookup means this side encapsulated after a successful lookup.
	OriginLookup ContactOrigin = iota + 1
	// OriginInbound means this side decapsulated the ciphertext attached to
	// a message from a previously unknown sender.
	OriginInbound
)

// String returns a short label for logs.
func (o ContactOrigin) String() string {
	switch o {
	case OriginLookup:
		return "lookup"
	case OriginInbound:
		return "inbound"
	default:
		return "unknown"
	}
}

// Contact is a counterpart identity plus the secret established with it.
// A contact is never re-keyed.
type Contact struct {
	UUID             UUID          `cbor:"uuid"`
	Name             string        `cbor:"name"`
	PublicKey        []byte        `cbor:"public_key"`
	SharedCiphertext []byte        `cbor:"shared_ciphertext"`
	SharedSecret     []byte        `cbor:"shared_secret"`
	Origin           ContactOrigin `cbor:"origin"`
}

// ContactLookup is the outcome of a contact connection request.
type ContactLookup struct {
	UUID    UUID
	Exists  bool
	Contact *Contact
}
