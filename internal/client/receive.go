package client

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pqchat/internal/domain"
	"pqchat/internal/protocol/wire"
)

// receive reads and dispatches until the connection fails or the relay
// breaks the protocol. Messages that fail to decrypt are dropped.
func (c *Client) receive(conn *wire.Conn, done chan struct{}) {
	var err error
	for {
		m, rerr := conn.ReadMessage()
		if rerr != nil {
			err = rerr
			break
		}
		if herr := c.handle(m); herr != nil {
			err = herr
			break
		}
	}
	conn.Close()

	c.mu.Lock()
	if c.closing {
		err = nil
	}
	c.err = err
	c.conn = nil
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("receive loop ended", zap.Error(err))
	} else {
		c.log.Debug("connection closed")
	}
	close(done)
}

func (c *Client) handle(m wire.Message) error {
	switch m := m.(type) {
	case *wire.AssignIdentity:
		return c.handleAssignIdentity(m)
	case *wire.ConnectWithContactResponse:
		return c.handleLookupResponse(m)
	case *wire.SendMessageRequest:
		return c.handleIncoming(m)
	default:
		return fmt.Errorf("%w: relay sent %s", domain.ErrProtocol, m.Type())
	}
}

func (c *Client) handleAssignIdentity(m *wire.AssignIdentity) error {
	id, err := uuid.Parse(m.UUID)
	if err != nil {
		return fmt.Errorf("%w: assigned UUID %q: %v", domain.ErrProtocol, m.UUID, err)
	}
	ident, err := c.identity.Assign(id, m.SeedHash)
	if errors.Is(err, domain.ErrIdentityExists) {
		c.log.Warn("ignoring duplicate identity assignment", zap.String("uuid", m.UUID))
		return nil
	}
	if err != nil {
		return err
	}
	c.log.Info("identity assigned", zap.Stringer("uuid", ident.UUID))
	c.markReady()
	c.notifier.IdentityAssigned(ident, m.SeedPhrase)
	return nil
}

func (c *Client) handleLookupResponse(m *wire.ConnectWithContactResponse) error {
	requested := c.popLookup()

	if !m.ContactExists {
		c.log.Info("contact not found", zap.Stringer("uuid", requested))
		c.notifier.ContactLookupResult(domain.ContactLookup{UUID: requested})
		return nil
	}

	id, err := uuid.Parse(m.ContactUUID)
	if err != nil {
		return fmt.Errorf("%w: contact UUID %q: %v", domain.ErrProtocol, m.ContactUUID, err)
	}
	contact, created, err := c.contacts.EstablishFromLookup(id, m.ContactName, m.ContactPublicKey)
	if errors.Is(err, domain.ErrCrypto) {
		c.log.Warn("cannot pair with contact", zap.Stringer("uuid", id), zap.Error(err))
		return nil
	}
	if err != nil {
		return err
	}
	if created {
		c.log.Info("contact added", zap.Stringer("uuid", id), zap.String("name", contact.Name))
	}
	c.notifier.ContactLookupResult(domain.ContactLookup{UUID: id, Exists: true, Contact: &contact})
	return nil
}

func (c *Client) handleIncoming(m *wire.SendMessageRequest) error {
	sender, err := uuid.Parse(m.SenderUUID)
	if err != nil {
		return fmt.Errorf("%w: sender UUID %q: %v", domain.ErrProtocol, m.SenderUUID, err)
	}
	self, ok := c.identity.Current()
	if !ok {
		return fmt.Errorf("message from %s: %w", sender, domain.ErrNoIdentity)
	}

	contact, created, err := c.contacts.ResolveInbound(sender, m.SenderName, m.SenderPublicKey, m.Ciphertext, self.PrivateKey)
	if errors.Is(err, domain.ErrCrypto) {
		c.log.Warn("dropping undecryptable message", zap.Stringer("from", sender), zap.Error(err))
		return nil
	}
	if err != nil {
		return err
	}
	if created {
		c.log.Info("contact added from inbound message", zap.Stringer("uuid", sender), zap.String("name", contact.Name))
	}

	msg, err := c.messages.Open(contact, m.Message)
	if errors.Is(err, domain.ErrCrypto) {
		c.log.Warn("dropping undecryptable message", zap.Stringer("from", sender), zap.Error(err))
		return nil
	}
	if err != nil {
		return err
	}
	c.notifier.MessageReceived(msg, contact)
	return nil
}

func (c *Client) popLookup() domain.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.lookups) == 0 {
		return uuid.Nil
	}
	id := c.lookups[0]
	c.lookups = c.lookups[1:]
	return id
}
