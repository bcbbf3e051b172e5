package interfaces

import domaintypes "pqchat/internal/domain/types"

// AccountStore is the relay's persisted account directory.
type AccountStore interface {
	CreateAccount(account domaintypes.Account) error
	LookupAccount(id domaintypes.UUID) (domaintypes.Account, bool, error)
}
