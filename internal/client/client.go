package client

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"

	"pqchat/internal/domain"
	"pqchat/internal/protocol/wire"
)

// Dialer opens the transport to the relay. *net.Dialer and *tls.Dialer
// satisfy it.
type Dialer interface {
	DialContext(ctx context.Context, network, addr string) (net.Conn, error)
}

// Config holds the connection parameters.
type Config struct {
	// Addr is the relay's host:port.
	Addr string
	// Name is sent with the registration of a new identity.
	Name string
	// TLS configures the default dialer. Ignored when WithDialer is used.
	TLS *tls.Config
	// MaxFrameSize bounds a single wire frame; zero selects the default.
	MaxFrameSize int
}

// Option configures a Client.
type Option func(*Client)

// WithDialer replaces the default TCP or TLS dialer.
func WithDialer(d Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

// WithNotifier sets the collaborator that receives push notifications.
func WithNotifier(n domain.Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// Client talks to the relay on behalf of the local identity.
type Client struct {
	cfg      Config
	dialer   Dialer
	identity domain.IdentityService
	contacts domain.ContactService
	messages domain.MessageService
	notifier domain.Notifier
	log      *zap.Logger

	mu      sync.Mutex
	conn    *wire.Conn
	done    chan struct{}
	err     error
	closing bool
	lookups []domain.UUID
	ready   chan struct{}
	isReady bool

	// lookupMu keeps the lookups queue in the order requests hit the wire.
	lookupMu sync.Mutex
}

// New constructs a Client over the given services.
func New(
	cfg Config,
	identity domain.IdentityService,
	contacts domain.ContactService,
	messages domain.MessageService,
	logger *zap.Logger,
	opts ...Option,
) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	done := make(chan struct{})
	close(done)
	c := &Client{
		cfg:      cfg,
		identity: identity,
		contacts: contacts,
		messages: messages,
		notifier: nopNotifier{},
		log:      logger.Named("client"),
		done:     done,
		ready:    make(chan struct{}),
	}
	for _, o := range opts {
		o(c)
	}
	if c.dialer == nil {
		if cfg.TLS != nil {
			c.dialer = &tls.Dialer{Config: cfg.TLS}
		} else {
			c.dialer = &net.Dialer{}
		}
	}
	return c
}

// Connect dials the relay, registers or logs in, and starts the receive
// loop. Without a stored identity a fresh key pair is generated and a
// NewAccountRequest sent; the identity is persisted when the relay answers.
//
// The relay does not acknowledge a login. A rejected seed hash shows up
// later as the relay closing the connection: Done is closed and Err wraps
// domain.ErrTransport.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		return errors.New("client: already connected")
	}
	c.mu.Unlock()

	id, haveID, err := c.identity.Load()
	if err != nil {
		return fmt.Errorf("load identity: %w", err)
	}
	if err := c.contacts.Load(); err != nil {
		return err
	}

	raw, err := c.dialer.DialContext(ctx, "tcp", c.cfg.Addr)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %w", domain.ErrTransport, c.cfg.Addr, err)
	}
	conn := wire.NewConn(raw, wire.WithMaxFrameSize(c.cfg.MaxFrameSize))

	var hello wire.Message
	if haveID {
		hello = &wire.LoginRequest{UUID: id.UUID.String(), SeedHash: id.SeedHash}
	} else {
		pub, err := c.identity.PrepareRegistration(c.cfg.Name)
		if err != nil {
			conn.Close()
			return fmt.Errorf("prepare registration: %w", err)
		}
		hello = &wire.NewAccountRequest{Name: c.cfg.Name, PublicKey: pub}
	}
	if err := conn.WriteMessage(hello); err != nil {
		conn.Close()
		return err
	}

	done := make(chan struct{})
	c.mu.Lock()
	c.conn = conn
	c.done = done
	c.err = nil
	c.closing = false
	c.lookups = nil
	c.mu.Unlock()
	if haveID {
		c.markReady()
		c.log.Info("logging in", zap.Stringer("uuid", id.UUID))
	} else {
		c.log.Info("registering new identity", zap.String("name", c.cfg.Name))
	}

	go c.receive(conn, done)
	return nil
}

// Close ends the connection and waits for the receive loop to exit.
func (c *Client) Close() error {
	c.mu.Lock()
	conn, done := c.conn, c.done
	if conn != nil {
		c.closing = true
	}
	c.mu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close()
	}
	<-done
	return err
}

// Done is closed when the receive loop exits. Before the first Connect it is
// already closed.
func (c *Client) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Err returns the error that ended the last receive loop, or nil after a
// clean Close.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// WaitForIdentity blocks until the local identity is known: immediately
// after Connect with a stored identity, otherwise once the relay assigns one.
func (c *Client) WaitForIdentity(ctx context.Context) (domain.Identity, error) {
	c.mu.Lock()
	ready, done := c.ready, c.done
	c.mu.Unlock()

	select {
	case <-ready:
	case <-done:
		if err := c.Err(); err != nil {
			return domain.Identity{}, err
		}
		if _, ok := c.identity.Current(); !ok {
			return domain.Identity{}, domain.ErrNoIdentity
		}
	case <-ctx.Done():
		return domain.Identity{}, ctx.Err()
	}
	id, ok := c.identity.Current()
	if !ok {
		return domain.Identity{}, domain.ErrNoIdentity
	}
	return id, nil
}

// ContactConnectionRequest asks the relay for contact. The outcome arrives
// through the notifier.
func (c *Client) ContactConnectionRequest(ctx context.Context, contact domain.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	conn, err := c.connection()
	if err != nil {
		return err
	}
	c.lookupMu.Lock()
	defer c.lookupMu.Unlock()

	c.mu.Lock()
	c.lookups = append(c.lookups, contact)
	c.mu.Unlock()
	if err := conn.WriteMessage(&wire.ConnectWithContactRequest{ContactUUID: contact.String()}); err != nil {
		c.mu.Lock()
		if n := len(c.lookups); n > 0 && c.lookups[n-1] == contact {
			c.lookups = c.lookups[:n-1]
		}
		c.mu.Unlock()
		return err
	}
	return nil
}

// SendMessage encrypts text for contact, records it in history and hands it
// to the relay. Delivery is not confirmed.
func (c *Client) SendMessage(ctx context.Context, contact domain.UUID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	conn, err := c.connection()
	if err != nil {
		return err
	}
	_, payload, kemCiphertext, err := c.messages.Seal(contact, text)
	if err != nil {
		return err
	}
	return conn.WriteMessage(&wire.SendMessageRequest{
		ContactUUID: contact.String(),
		Message:     payload,
		Ciphertext:  kemCiphertext,
	})
}

// Identity returns the local identity once one is persisted.
func (c *Client) Identity() (domain.Identity, bool) {
	return c.identity.Current()
}

// Contacts returns every known contact.
func (c *Client) Contacts() []domain.Contact {
	return c.contacts.List()
}

// History returns the conversation with contact in order.
func (c *Client) History(contact domain.UUID) ([]domain.ChatMessage, error) {
	return c.messages.History(contact)
}

// AllHistory returns every recorded message in order.
func (c *Client) AllHistory() ([]domain.ChatMessage, error) {
	return c.messages.AllHistory()
}

func (c *Client) connection() (*wire.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, fmt.Errorf("%w: not connected", domain.ErrTransport)
	}
	return c.conn, nil
}

func (c *Client) markReady() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isReady {
		c.isReady = true
		close(c.ready)
	}
}

type nopNotifier struct{}

func (nopNotifier) IdentityAssigned(domain.Identity, string) {}

func (nopNotifier) ContactLookupResult(domain.ContactLookup) {}

func (nopNotifier) MessageReceived(domain.ChatMessage, domain.Contact) {}
