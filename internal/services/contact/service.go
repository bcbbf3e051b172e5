package contact

import (
	"fmt"
	"sort"
	"sync"

	"pqchat/internal/domain"
)

// Service keeps the contact cache in front of a domain.ContactStore.
//
// Every lookup-or-create runs under one lock so the receive loop and the
// send path never observe a half-built contact, and two pairings for the
// same UUID cannot race.
type Service struct {
	store domain.ContactStore
	kem   domain.KEM

	mu    sync.Mutex
	cache map[domain.UUID]domain.Contact
}

// New constructs a contact service with an empty cache.
func New(store domain.ContactStore, k domain.KEM) *Service {
	return &Service{
		store: store,
		kem:   k,
		cache: make(map[domain.UUID]domain.Contact),
	}
}

// Load fills the cache from the store.
func (s *Service) Load() error {
	contacts, err := s.store.ListContacts()
	if err != nil {
		return fmt.Errorf("load contacts: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range contacts {
		s.cache[c.UUID] = c
	}
	return nil
}

// Get returns the cached contact for id.
func (s *Service) Get(id domain.UUID) (domain.Contact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cache[id]
	return c, ok
}

// List returns all contacts sorted by name, then UUID.
func (s *Service) List() []domain.Contact {
	s.mu.Lock()
	out := make([]domain.Contact, 0, len(s.cache))
	for _, c := range s.cache {
		out = append(out, c)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].UUID.String() < out[j].UUID.String()
	})
	return out
}

// EstablishFromLookup pairs with a contact the relay just returned. An
// existing contact for id is returned unchanged with created=false.
func (s *Service) EstablishFromLookup(id domain.UUID, name string, publicKey []byte) (domain.Contact, bool, error) {
	return s.getOrCreate(id, func() (domain.Contact, error) {
		ct, secret, err := s.kem.Encapsulate(publicKey)
		if err != nil {
			return domain.Contact{}, fmt.Errorf("encapsulate for %s: %w", id, err)
		}
		return domain.Contact{
			UUID:             id,
			Name:             name,
			PublicKey:        append([]byte(nil), publicKey...),
			SharedCiphertext: ct,
			SharedSecret:     secret,
			Origin:           domain.OriginLookup,
		}, nil
	})
}

// ResolveInbound returns the contact for a message sender, pairing with them
// first if they are unknown by decapsulating ciphertext with privateKey.
func (s *Service) ResolveInbound(
	id domain.UUID,
	name string,
	publicKey, ciphertext, privateKey []byte,
) (domain.Contact, bool, error) {
	return s.getOrCreate(id, func() (domain.Contact, error) {
		secret, err := s.kem.Decapsulate(privateKey, ciphertext)
		if err != nil {
			return domain.Contact{}, fmt.Errorf("decapsulate from %s: %w", id, err)
		}
		return domain.Contact{
			UUID:             id,
			Name:             name,
			PublicKey:        append([]byte(nil), publicKey...),
			SharedCiphertext: append([]byte(nil), ciphertext...),
			SharedSecret:     secret,
			Origin:           domain.OriginInbound,
		}, nil
	})
}

func (s *Service) getOrCreate(id domain.UUID, build func() (domain.Contact, error)) (domain.Contact, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.cache[id]; ok {
		return c, false, nil
	}
	c, err := build()
	if err != nil {
		return domain.Contact{}, false, err
	}
	if err := s.store.SaveContact(c); err != nil {
		return domain.Contact{}, false, fmt.Errorf("persist contact %s: %w", id, err)
	}
	s.cache[id] = c
	return c, true, nil
}

var _ domain.ContactService = (*Service)(nil)
