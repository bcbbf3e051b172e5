package identity

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"pqchat/internal/crypto"
	"pqchat/internal/domain"
	"pqchat/internal/util/memzero"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)
)

type pendingKeys struct {
	name       string
	publicKey  []byte
	privateKey []byte
}

// Service manages the identity lifecycle using a backing store.
type Service struct {
	store domain.IdentityStore
	kem   domain.KEM

	mu      sync.Mutex
	current *domain.Identity
	pending *pendingKeys
}

// New returns an identity service backed by the given store and KEM.
func New(s domain.IdentityStore, k domain.KEM) *Service {
	return &Service{store: s, kem: k}
}

// Load reads the stored identity, if any, and caches it. An identity
// registered under a different KEM scheme than the service's is rejected.
func (s *Service) Load() (domain.Identity, bool, error) {
	id, ok, err := s.store.LoadIdentity()
	if err != nil || !ok {
		return domain.Identity{}, ok, err
	}
	if !strings.EqualFold(id.KEMScheme, s.kem.Name()) {
		memzero.Zero(id.PrivateKey)
		return domain.Identity{}, false, fmt.Errorf("%w: identity keys are %s, configured scheme is %s",
			domain.ErrCrypto, id.KEMScheme, s.kem.Name())
	}
	s.mu.Lock()
	s.current = &id
	s.mu.Unlock()
	return id, true, nil
}

// Current returns the persisted identity known to this service.
func (s *Service) Current() (domain.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.Identity{}, false
	}
	return *s.current, true
}

// PrepareRegistration generates the key pair to register under name and
// returns its public half. Repeated calls before Assign reuse the same pair.
func (s *Service) PrepareRegistration(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return nil, domain.ErrIdentityExists
	}
	if s.pending != nil {
		s.pending.name = name
		return s.pending.publicKey, nil
	}
	pub, priv, err := s.kem.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	s.pending = &pendingKeys{name: name, publicKey: pub, privateKey: priv}
	return pub, nil
}

// Assign persists the pending key pair under the UUID the relay assigned.
func (s *Service) Assign(id domain.UUID, seedHash []byte) (domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return *s.current, domain.ErrIdentityExists
	}
	if s.pending == nil {
		return domain.Identity{}, fmt.Errorf("%w: identity assigned without a pending registration", domain.ErrProtocol)
	}

	ident := domain.Identity{
		UUID:       id,
		Name:       s.pending.name,
		KEMScheme:  s.kem.Name(),
		PublicKey:  s.pending.publicKey,
		PrivateKey: s.pending.privateKey,
		SeedHash:   append([]byte(nil), seedHash...),
	}
	if err := s.store.SaveIdentity(ident); err != nil {
		return domain.Identity{}, fmt.Errorf("persist identity: %w", err)
	}
	s.current = &ident
	s.pending = nil
	return ident, nil
}

// Fingerprint returns a short fingerprint of the local KEM public key.
func (s *Service) Fingerprint() (string, error) {
	id, ok := s.Current()
	if !ok {
		return "", domain.ErrNoIdentity
	}
	return crypto.Fingerprint(id.PublicKey), nil
}

// Close wipes private key material held in memory.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		memzero.Zero(s.current.PrivateKey)
		s.current = nil
	}
	if s.pending != nil {
		memzero.Zero(s.pending.privateKey)
		s.pending = nil
	}
}

// IsSecurePassphrase enforces a basic strength policy.
func IsSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
