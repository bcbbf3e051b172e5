package commands

import (
	"fmt"
	"io"
	"sync"

	"pqchat/internal/crypto"
	"pqchat/internal/domain"
)

// printer writes user-facing output. It implements domain.Notifier so relay
// pushes are printed as they arrive.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

var _ domain.Notifier = (*printer)(nil)

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}

func (p *printer) message(m domain.ChatMessage, contactName string) {
	if contactName == "" {
		contactName = m.ContactUUID.String()
	}
	ts := m.Timestamp.Local().Format("2006-01-02 15:04:05")
	if m.Direction == domain.DirectionSent {
		p.printf("[%s] me -> %s: %s\n", ts, contactName, m.Body)
		return
	}
	p.printf("[%s] %s: %s\n", ts, contactName, m.Body)
}

func (p *printer) IdentityAssigned(id domain.Identity, seedPhrase string) {
	p.printf("Registered as %s (%s)\n", id.Name, id.UUID)
	p.printf("Recovery phrase: %s\n", seedPhrase)
	p.printf("The relay will not show this phrase again.\n")
}

func (p *printer) ContactLookupResult(res domain.ContactLookup) {
	if !res.Exists || res.Contact == nil {
		p.printf("No user with id %s\n", res.UUID)
		return
	}
	c := res.Contact
	p.printf("Connected with %s (%s), fingerprint %s\n", c.Name, c.UUID, crypto.Fingerprint(c.PublicKey))
}

func (p *printer) MessageReceived(msg domain.ChatMessage, from domain.Contact) {
	p.message(msg, from.Name)
}
