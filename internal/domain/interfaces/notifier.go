package interfaces

import domaintypes "pqchat/internal/domain/types"

// Notifier is the front-end collaborator that receives push notifications
// from the client's receive loop. Implementations must not block for long.
type Notifier interface {
	IdentityAssigned(id domaintypes.Identity, seedPhrase string)
	ContactLookupResult(result domaintypes.ContactLookup)
	MessageReceived(msg domaintypes.ChatMessage, from domaintypes.Contact)
}
