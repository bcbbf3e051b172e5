package store

import (
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"pqchat/internal/domain"
)

// AccountsFilename is the relay's database file inside its data directory.
const AccountsFilename = "accounts.db"

const accountsBucket = "accounts"

// AccountDB is the relay's persisted account directory.
type AccountDB struct {
	db *bolt.DB
}

// OpenAccountDB opens (or creates) the account directory under dir.
func OpenAccountDB(dir string) (*AccountDB, error) {
	db, err := openDB(filepath.Join(dir, AccountsFilename), accountsBucket)
	if err != nil {
		return nil, err
	}
	return &AccountDB{db: db}, nil
}

// Close flushes and closes the database.
func (a *AccountDB) Close() error {
	return a.db.Close()
}

// CreateAccount persists a new account. UUIDs are never reused.
func (a *AccountDB) CreateAccount(account domain.Account) error {
	raw, err := marshal(account)
	if err != nil {
		return fmt.Errorf("store: encode account: %w", err)
	}
	return a.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(accountsBucket))
		if bkt.Get(account.UUID[:]) != nil {
			return fmt.Errorf("store: account %s already exists", account.UUID)
		}
		return bkt.Put(account.UUID[:], raw)
	})
}

// LookupAccount returns the account for id, or ok=false when none exists.
func (a *AccountDB) LookupAccount(id domain.UUID) (domain.Account, bool, error) {
	var (
		account domain.Account
		found   bool
	)
	err := a.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(accountsBucket)).Get(id[:])
		if v == nil {
			return nil
		}
		found = true
		return unmarshal(v, &account)
	})
	if err != nil {
		return domain.Account{}, false, fmt.Errorf("store: lookup %s: %w", id, err)
	}
	return account, found, nil
}

// Count returns the number of registered accounts.
func (a *AccountDB) Count() (int, error) {
	var n int
	err := a.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(accountsBucket)).Stats().KeyN
		return nil
	})
	return n, err
}

var _ domain.AccountStore = (*AccountDB)(nil)
