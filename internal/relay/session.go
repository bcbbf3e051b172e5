package relay

import (
	"sync"

	"pqchat/internal/domain"
	"pqchat/internal/protocol/wire"
)

// Session binds a live connection to an authenticated identity.
type Session struct {
	UUID      domain.UUID
	Name      string
	PublicKey []byte

	conn *wire.Conn
}

// Send writes m to the session's connection. Writes from different
// goroutines never interleave.
func (s *Session) Send(m wire.Message) error {
	return s.conn.WriteMessage(m)
}

// registry maps UUIDs to their live session. The latest login wins.
type registry struct {
	mu       sync.Mutex
	sessions map[domain.UUID]*Session
}

func newRegistry() *registry {
	return &registry{sessions: make(map[domain.UUID]*Session)}
}

// bind registers s and returns the session it replaced, if any.
func (r *registry) bind(s *Session) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.sessions[s.UUID]
	r.sessions[s.UUID] = s
	return old
}

// unbind removes s only if it is still the registered session for its UUID.
func (r *registry) unbind(s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[s.UUID] != s {
		return false
	}
	delete(r.sessions, s.UUID)
	return true
}

func (r *registry) lookup(id domain.UUID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
