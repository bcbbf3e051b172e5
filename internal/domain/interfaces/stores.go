package interfaces

import domaintypes "pqchat/internal/domain/types"

// IdentityStore persists the single local identity.
type IdentityStore interface {
	// SaveIdentity stores id. It fails with ErrIdentityExists when an
	// identity is already present.
	SaveIdentity(id domaintypes.Identity) error
	LoadIdentity() (domaintypes.Identity, bool, error)
}

// ContactStore persists contacts keyed by UUID.
type ContactStore interface {
	SaveContact(contact domaintypes.Contact) error
	ListContacts() ([]domaintypes.Contact, error)
}

// HistoryStore is the append-only chat log.
type HistoryStore interface {
	// AppendMessage stores msg and returns it with its sequence number set.
	AppendMessage(msg domaintypes.ChatMessage) (domaintypes.ChatMessage, error)
	LoadHistory() ([]domaintypes.ChatMessage, error)
	LoadConversation(contact domaintypes.UUID) ([]domaintypes.ChatMessage, error)
}
