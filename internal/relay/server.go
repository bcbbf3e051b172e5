package relay

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"pqchat/internal/crypto"
	"pqchat/internal/domain"
	"pqchat/internal/protocol/wire"
)

// ErrServerClosed is returned by Serve after Shutdown.
var ErrServerClosed = errors.New("relay: server closed")

// Config holds the runtime parameters of a Server.
type Config struct {
	// Addr is the TCP listen address used by ListenAndServe.
	Addr string
	// TLS, when set, wraps the listener created by ListenAndServe.
	TLS *tls.Config
	// MaxFrameSize bounds a single wire frame; zero selects the default.
	MaxFrameSize int
	// KEM checks the size of public keys presented at registration.
	KEM domain.KEM
}

// Option configures a Server.
type Option func(*Server)

// WithSeedGenerator replaces crypto.GenerateSeedPhrase.
func WithSeedGenerator(fn func() (string, []byte, error)) Option {
	return func(s *Server) { s.newSeed = fn }
}

// WithClock overrides time.Now for account creation times.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// Server is the relay. The zero value is not usable; call New.
type Server struct {
	cfg      Config
	accounts domain.AccountStore
	log      *zap.Logger
	metrics  *Metrics
	newSeed  func() (string, []byte, error)
	now      func() time.Time

	sessions *registry

	mu        sync.Mutex
	listeners map[net.Listener]struct{}
	conns     map[*connection]struct{}
	closed    bool
	wg        sync.WaitGroup
}

// New constructs a Server over the given account directory.
func New(cfg Config, accounts domain.AccountStore, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:       cfg,
		accounts:  accounts,
		log:       logger.Named("relay"),
		metrics:   newMetrics(),
		newSeed:   crypto.GenerateSeedPhrase,
		now:       time.Now,
		sessions:  newRegistry(),
		listeners: make(map[net.Listener]struct{}),
		conns:     make(map[*connection]struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

// ActiveSessions returns the number of bound sessions.
func (s *Server) ActiveSessions() int { return s.sessions.len() }

// Connections returns the number of open connections, authenticated or not.
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// ListenAndServe listens on cfg.Addr, with TLS when configured, and serves
// until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var (
		ln  net.Listener
		err error
	)
	if s.cfg.TLS != nil {
		ln, err = tls.Listen("tcp", s.cfg.Addr, s.cfg.TLS)
	} else {
		ln, err = net.Listen("tcp", s.cfg.Addr)
	}
	if err != nil {
		return fmt.Errorf("relay: listen %s: %w", s.cfg.Addr, err)
	}
	s.log.Info("listening", zap.String("addr", ln.Addr().String()), zap.Bool("tls", s.cfg.TLS != nil))

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			s.Shutdown()
		case <-stop:
		}
	}()

	err = s.Serve(ln)
	if errors.Is(err, ErrServerClosed) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Serve accepts connections on ln and handles each in its own goroutine. It
// returns ErrServerClosed after Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return ErrServerClosed
	}
	s.listeners[ln] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.listeners, ln)
		s.mu.Unlock()
	}()

	for {
		raw, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return ErrServerClosed
			}
			return fmt.Errorf("relay: accept: %w", err)
		}
		if !s.track(raw) {
			return ErrServerClosed
		}
	}
}

func (s *Server) track(raw net.Conn) bool {
	c := &connection{
		srv:  s,
		raw:  raw,
		conn: wire.NewConn(raw, wire.WithMaxFrameSize(s.cfg.MaxFrameSize)),
		log:  s.log.With(zap.String("remote", raw.RemoteAddr().String())),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		raw.Close()
		return false
	}
	s.conns[c] = struct{}{}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.conns, c)
			s.mu.Unlock()
		}()
		c.serve()
	}()
	return true
}

// Shutdown stops all listeners, closes every live connection and waits for
// the connection handlers to return.
func (s *Server) Shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.wg.Wait()
		return
	}
	s.closed = true
	for ln := range s.listeners {
		ln.Close()
	}
	for c := range s.conns {
		c.raw.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("shut down")
}
