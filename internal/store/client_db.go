package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"pqchat/internal/domain"
)

// ClientFilename is the database file inside a client's home directory.
const ClientFilename = "client.db"

const (
	identityBucket = "identity"
	contactsBucket = "contacts"
	historyBucket  = "history"

	identityKey = "self"
)

// ClientDB persists a client's identity, contacts and chat history.
type ClientDB struct {
	db         *bolt.DB
	passphrase string
	params     ScryptParams
}

// ClientOption configures a ClientDB.
type ClientOption func(*ClientDB)

// WithScryptParams overrides DefaultScryptParams for newly sealed identities.
func WithScryptParams(p ScryptParams) ClientOption {
	return func(c *ClientDB) { c.params = p }
}

// OpenClientDB opens the database under dir. passphrase seals the identity
// record and may be empty.
func OpenClientDB(dir, passphrase string, opts ...ClientOption) (*ClientDB, error) {
	c := &ClientDB{passphrase: passphrase, params: DefaultScryptParams}
	for _, o := range opts {
		o(c)
	}
	db, err := openDB(filepath.Join(dir, ClientFilename), identityBucket, contactsBucket, historyBucket)
	if err != nil {
		return nil, err
	}
	c.db = db
	return c, nil
}

// Close flushes and closes the database.
func (c *ClientDB) Close() error {
	return c.db.Close()
}

// SaveIdentity seals and stores id. An identity can be saved only once.
func (c *ClientDB) SaveIdentity(id domain.Identity) error {
	raw, err := marshal(id)
	if err != nil {
		return fmt.Errorf("store: encode identity: %w", err)
	}
	sealed, err := sealRecord(c.passphrase, raw, c.params)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(identityBucket))
		if bkt.Get([]byte(identityKey)) != nil {
			return domain.ErrIdentityExists
		}
		return bkt.Put([]byte(identityKey), sealed)
	})
}

// LoadIdentity returns the stored identity, or ok=false when none exists.
func (c *ClientDB) LoadIdentity() (domain.Identity, bool, error) {
	var sealed []byte
	if err := c.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(identityBucket)).Get([]byte(identityKey)); v != nil {
			sealed = bytes.Clone(v)
		}
		return nil
	}); err != nil {
		return domain.Identity{}, false, err
	}
	if sealed == nil {
		return domain.Identity{}, false, nil
	}

	raw, err := openRecord(c.passphrase, sealed)
	if err != nil {
		return domain.Identity{}, false, err
	}
	var id domain.Identity
	if err := unmarshal(raw, &id); err != nil {
		return domain.Identity{}, false, fmt.Errorf("store: decode identity: %w", err)
	}
	return id, true, nil
}

// SaveContact stores contact unless a record for its UUID already exists.
// Contacts are never re-keyed, so an existing record is left untouched.
func (c *ClientDB) SaveContact(contact domain.Contact) error {
	raw, err := marshal(contact)
	if err != nil {
		return fmt.Errorf("store: encode contact: %w", err)
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(contactsBucket))
		if bkt.Get(contact.UUID[:]) != nil {
			return nil
		}
		return bkt.Put(contact.UUID[:], raw)
	})
}

// ListContacts returns every contact ordered by UUID.
func (c *ClientDB) ListContacts() ([]domain.Contact, error) {
	var out []domain.Contact
	err := c.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(contactsBucket)).ForEach(func(_, v []byte) error {
			var contact domain.Contact
			if err := unmarshal(v, &contact); err != nil {
				return fmt.Errorf("store: decode contact: %w", err)
			}
			out = append(out, contact)
			return nil
		})
	})
	return out, err
}

// AppendMessage adds msg to the history and returns it with Seq assigned.
func (c *ClientDB) AppendMessage(msg domain.ChatMessage) (domain.ChatMessage, error) {
	err := c.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(historyBucket))
		seq, err := bkt.NextSequence()
		if err != nil {
			return err
		}
		msg.Seq = seq
		raw, err := marshal(msg)
		if err != nil {
			return fmt.Errorf("store: encode message: %w", err)
		}
		return bkt.Put(seqKey(seq), raw)
	})
	if err != nil {
		return domain.ChatMessage{}, err
	}
	return msg, nil
}

// LoadHistory returns every message in insertion order.
func (c *ClientDB) LoadHistory() ([]domain.ChatMessage, error) {
	return c.loadMessages(func(domain.ChatMessage) bool { return true })
}

// LoadConversation returns the messages exchanged with contact in insertion
// order.
func (c *ClientDB) LoadConversation(contact domain.UUID) ([]domain.ChatMessage, error) {
	return c.loadMessages(func(m domain.ChatMessage) bool { return m.ContactUUID == contact })
}

func (c *ClientDB) loadMessages(keep func(domain.ChatMessage) bool) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	err := c.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(historyBucket)).ForEach(func(_, v []byte) error {
			var m domain.ChatMessage
			if err := unmarshal(v, &m); err != nil {
				return fmt.Errorf("store: decode message: %w", err)
			}
			if keep(m) {
				out = append(out, m)
			}
			return nil
		})
	})
	return out, err
}

func seqKey(seq uint64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], seq)
	return k[:]
}

// Compile-time assertions that ClientDB implements the client-side stores.
var (
	_ domain.IdentityStore = (*ClientDB)(nil)
	_ domain.ContactStore  = (*ClientDB)(nil)
	_ domain.HistoryStore  = (*ClientDB)(nil)
)
