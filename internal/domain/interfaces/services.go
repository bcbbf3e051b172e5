package interfaces

import domaintypes "pqchat/internal/domain/types"

// IdentityService owns the local identity and the key pair awaiting
// registration.
type IdentityService interface {
	Load() (domaintypes.Identity, bool, error)
	Current() (domaintypes.Identity, bool)
	PrepareRegistration(name string) (publicKey []byte, err error)
	Assign(id domaintypes.UUID, seedHash []byte) (domaintypes.Identity, error)
	Close()
}

// ContactService owns the contact cache and the KEM side of pairing.
type ContactService interface {
	Load() error
	Get(id domaintypes.UUID) (domaintypes.Contact, bool)
	List() []domaintypes.Contact
	EstablishFromLookup(id domaintypes.UUID, name string, publicKey []byte) (domaintypes.Contact, bool, error)
	ResolveInbound(id domaintypes.UUID, name string, publicKey, ciphertext, privateKey []byte) (domaintypes.Contact, bool, error)
}

// MessageService applies the symmetric stage and records history.
type MessageService interface {
	Seal(to domaintypes.UUID, body string) (msg domaintypes.ChatMessage, payload, kemCiphertext []byte, err error)
	Open(from domaintypes.Contact, payload []byte) (domaintypes.ChatMessage, error)
	History(contact domaintypes.UUID) ([]domaintypes.ChatMessage, error)
	AllHistory() ([]domaintypes.ChatMessage, error)
}
