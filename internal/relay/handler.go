package relay

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pqchat/internal/domain"
	"pqchat/internal/protocol/wire"
)

// connection is the per-connection state machine. session is nil until the
// connection registers or logs in.
type connection struct {
	srv     *Server
	raw     net.Conn
	conn    *wire.Conn
	log     *zap.Logger
	session *Session
}

func (c *connection) serve() {
	defer c.close()
	c.log.Debug("connection accepted")

	for {
		m, err := c.conn.ReadMessage()
		if err != nil {
			c.logEnd(err)
			return
		}
		if err := c.dispatch(m); err != nil {
			c.logEnd(err)
			return
		}
	}
}

func (c *connection) logEnd(err error) {
	switch {
	case errors.Is(err, domain.ErrTransport):
		c.log.Debug("connection closed", zap.Error(err))
	case errors.Is(err, domain.ErrAuthentication), errors.Is(err, domain.ErrProtocol):
		c.srv.metrics.ProtocolErrors.Inc()
		c.log.Warn("closing connection", zap.Error(err))
	default:
		c.log.Error("closing connection", zap.Error(err))
	}
}

func (c *connection) close() {
	if c.session != nil && c.srv.sessions.unbind(c.session) {
		c.srv.metrics.ActiveSessions.Dec()
		c.log.Info("session ended")
	}
	c.conn.Close()
}

func (c *connection) dispatch(m wire.Message) error {
	switch m := m.(type) {
	case *wire.NewAccountRequest:
		if c.session != nil {
			return fmt.Errorf("%w: %s on an authenticated connection", domain.ErrProtocol, m.Type())
		}
		return c.handleNewAccount(m)
	case *wire.LoginRequest:
		if c.session != nil {
			return fmt.Errorf("%w: %s on an authenticated connection", domain.ErrProtocol, m.Type())
		}
		return c.handleLogin(m)
	case *wire.ConnectWithContactRequest:
		if c.session == nil {
			return fmt.Errorf("%w: %s before authentication", domain.ErrProtocol, m.Type())
		}
		return c.handleLookup(m)
	case *wire.SendMessageRequest:
		if c.session == nil {
			return fmt.Errorf("%w: %s before authentication", domain.ErrProtocol, m.Type())
		}
		err := c.srv.Route(c.session, m)
		if errors.Is(err, domain.ErrNotDelivered) {
			c.log.Info("message not delivered",
				zap.Stringer("from", c.session.UUID),
				zap.String("to", m.ContactUUID),
				zap.Error(err))
			return nil
		}
		return err
	case *wire.AssignIdentity, *wire.ConnectWithContactResponse:
		return fmt.Errorf("%w: client sent server-only message %s", domain.ErrProtocol, m.Type())
	default:
		return fmt.Errorf("%w: unexpected message %T", domain.ErrProtocol, m)
	}
}

func (c *connection) handleNewAccount(m *wire.NewAccountRequest) error {
	if k := c.srv.cfg.KEM; k != nil {
		if len(m.PublicKey) != k.PublicKeySize() {
			return fmt.Errorf("%w: %s public key is %d bytes, want %d",
				domain.ErrProtocol, k.Name(), len(m.PublicKey), k.PublicKeySize())
		}
		if err := k.ValidatePublicKey(m.PublicKey); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrProtocol, err)
		}
	}

	phrase, hash, err := c.srv.newSeed()
	if err != nil {
		return fmt.Errorf("seed phrase: %w", err)
	}
	account := domain.Account{
		UUID:      uuid.New(),
		Name:      m.Name,
		PublicKey: m.PublicKey,
		SeedHash:  hash,
		Created:   c.srv.now().UTC(),
	}
	if err := c.srv.accounts.CreateAccount(account); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	c.srv.metrics.AccountsCreated.Inc()

	c.bind(account)
	c.log.Info("account created", zap.String("name", account.Name))

	return c.session.Send(&wire.AssignIdentity{
		UUID:       account.UUID.String(),
		SeedPhrase: phrase,
		SeedHash:   hash,
	})
}

func (c *connection) handleLogin(m *wire.LoginRequest) error {
	id, err := uuid.Parse(m.UUID)
	if err != nil {
		c.srv.metrics.Logins.WithLabelValues("failed").Inc()
		return fmt.Errorf("%w: malformed UUID %q", domain.ErrAuthentication, m.UUID)
	}
	account, ok, err := c.srv.accounts.LookupAccount(id)
	if err != nil {
		return fmt.Errorf("lookup account: %w", err)
	}
	if !ok {
		c.srv.metrics.Logins.WithLabelValues("failed").Inc()
		return fmt.Errorf("%w: %w: %s", domain.ErrAuthentication, domain.ErrLookup, id)
	}
	if subtle.ConstantTimeCompare(account.SeedHash, m.SeedHash) != 1 {
		c.srv.metrics.Logins.WithLabelValues("failed").Inc()
		return fmt.Errorf("%w: seed hash mismatch for %s", domain.ErrAuthentication, id)
	}
	c.srv.metrics.Logins.WithLabelValues("ok").Inc()

	c.bind(account)
	c.log.Info("logged in")
	return nil
}

func (c *connection) bind(account domain.Account) {
	c.session = &Session{
		UUID:      account.UUID,
		Name:      account.Name,
		PublicKey: account.PublicKey,
		conn:      c.conn,
	}
	c.log = c.log.With(zap.Stringer("uuid", account.UUID))
	if old := c.srv.sessions.bind(c.session); old != nil {
		c.log.Info("replaced existing session")
	} else {
		c.srv.metrics.ActiveSessions.Inc()
	}
}

func (c *connection) handleLookup(m *wire.ConnectWithContactRequest) error {
	resp := &wire.ConnectWithContactResponse{}

	if id, err := uuid.Parse(m.ContactUUID); err == nil {
		account, ok, err := c.srv.accounts.LookupAccount(id)
		if err != nil {
			return fmt.Errorf("lookup contact: %w", err)
		}
		if ok {
			resp.ContactExists = true
			resp.ContactUUID = account.UUID.String()
			resp.ContactName = account.Name
			resp.ContactPublicKey = account.PublicKey
		}
	}

	result := "missing"
	if resp.ContactExists {
		result = "found"
	}
	c.srv.metrics.Lookups.WithLabelValues(result).Inc()
	c.log.Debug("contact lookup", zap.String("contact", m.ContactUUID), zap.Bool("exists", resp.ContactExists))

	return c.session.Send(resp)
}

// Route forwards a message from one session to the live session of its
// recipient, adding the sender fields. It returns ErrNotDelivered when the
// recipient has no live session or the forward fails.
func (s *Server) Route(from *Session, m *wire.SendMessageRequest) error {
	to, err := uuid.Parse(m.ContactUUID)
	if err != nil {
		s.metrics.Undelivered.Inc()
		return fmt.Errorf("%w: malformed recipient %q", domain.ErrNotDelivered, m.ContactUUID)
	}
	dst, ok := s.sessions.lookup(to)
	if !ok {
		s.metrics.Undelivered.Inc()
		return fmt.Errorf("%w: %s", domain.ErrNotDelivered, to)
	}

	fwd := &wire.SendMessageRequest{
		ContactUUID:     m.ContactUUID,
		Message:         m.Message,
		Ciphertext:      m.Ciphertext,
		SenderUUID:      from.UUID.String(),
		SenderName:      from.Name,
		SenderPublicKey: from.PublicKey,
	}
	if err := dst.Send(fwd); err != nil {
		s.metrics.Undelivered.Inc()
		return fmt.Errorf("%w: %w", domain.ErrNotDelivered, err)
	}
	s.metrics.Delivered.Inc()
	return nil
}
