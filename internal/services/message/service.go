package message

import (
	"fmt"
	"time"

	"pqchat/internal/crypto"
	"pqchat/internal/domain"
)

// Service applies the symmetric stage with the secret shared with a contact.
//
// Outbound text is written to history before it is handed to the transport,
// so a failed send still leaves a record of what the user typed.
type Service struct {
	history  domain.HistoryStore
	contacts domain.ContactService
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides time.Now for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New constructs a message service.
func New(history domain.HistoryStore, contacts domain.ContactService, opts ...Option) *Service {
	s := &Service{history: history, contacts: contacts, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Seal records body as sent to the contact and returns the encrypted payload
// together with the KEM ciphertext the contact needs to pair with us.
func (s *Service) Seal(to domain.UUID, body string) (domain.ChatMessage, []byte, []byte, error) {
	c, ok := s.contacts.Get(to)
	if !ok {
		return domain.ChatMessage{}, nil, nil, fmt.Errorf("%w: %s", domain.ErrContactNotFound, to)
	}

	msg, err := s.history.AppendMessage(domain.ChatMessage{
		ContactUUID: to,
		Body:        body,
		Direction:   domain.DirectionSent,
		Timestamp:   s.now(),
	})
	if err != nil {
		return domain.ChatMessage{}, nil, nil, fmt.Errorf("record sent message: %w", err)
	}

	payload, err := crypto.Encrypt([]byte(body), c.SharedSecret)
	if err != nil {
		return domain.ChatMessage{}, nil, nil, err
	}
	return msg, payload, c.SharedCiphertext, nil
}

// Open decrypts a payload from a contact and records it as received.
func (s *Service) Open(from domain.Contact, payload []byte) (domain.ChatMessage, error) {
	plain, err := crypto.Decrypt(payload, from.SharedSecret)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	msg, err := s.history.AppendMessage(domain.ChatMessage{
		ContactUUID: from.UUID,
		Body:        string(plain),
		Direction:   domain.DirectionReceived,
		Timestamp:   s.now(),
	})
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("record received message: %w", err)
	}
	return msg, nil
}

// History returns the conversation with one contact.
func (s *Service) History(contact domain.UUID) ([]domain.ChatMessage, error) {
	return s.history.LoadConversation(contact)
}

// AllHistory returns every recorded message.
func (s *Service) AllHistory() ([]domain.ChatMessage, error) {
	return s.history.LoadHistory()
}

var _ domain.MessageService = (*Service)(nil)
