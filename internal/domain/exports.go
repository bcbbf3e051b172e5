package domain

import (
	interfaces "pqchat/internal/domain/interfaces"
	types "pqchat/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	UUID          = types.UUID
	Identity      = types.Identity
	Account       = types.Account
	Contact       = types.Contact
	ContactOrigin = types.ContactOrigin
	ContactLookup = types.ContactLookup
	ChatMessage   = types.ChatMessage
	Direction     = types.Direction
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	IdentityStore = interfaces.IdentityStore
	ContactStore  = interfaces.ContactStore
	HistoryStore  = interfaces.HistoryStore
	AccountStore  = interfaces.AccountStore
	KEM           = interfaces.KEM
	Notifier      = interfaces.Notifier

	IdentityService = interfaces.IdentityService
	ContactService  = interfaces.ContactService
	MessageService  = interfaces.MessageService
)

// Re-exported enum values.
const (
	DirectionSent     = types.DirectionSent
	DirectionReceived = types.DirectionReceived

	OriginLookup  = types.OriginLookup
	OriginInbound = types.OriginInbound
)
