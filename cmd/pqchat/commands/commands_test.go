package commands

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pqchat/internal/domain"
)

func TestResolveContact(t *testing.T) {
	alice := domain.Contact{UUID: uuid.New(), Name: "alice"}
	bob1 := domain.Contact{UUID: uuid.New(), Name: "bob"}
	bob2 := domain.Contact{UUID: uuid.New(), Name: "bob"}
	contacts := []domain.Contact{alice, bob1, bob2}

	got, err := resolveContact(contacts, alice.UUID.String())
	require.NoError(t, err)
	assert.Equal(t, alice.UUID, got.UUID)

	got, err = resolveContact(contacts, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.UUID, got.UUID)

	_, err = resolveContact(contacts, "bob")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = resolveContact(contacts, uuid.NewString())
	assert.True(t, errors.Is(err, domain.ErrContactNotFound))

	_, err = resolveContact(contacts, "carol")
	assert.True(t, errors.Is(err, domain.ErrContactNotFound))
}

func TestPrinter_Notifications(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf)
	missing := uuid.New()
	c := domain.Contact{UUID: uuid.New(), Name: "bob", PublicKey: []byte("pk")}

	p.ContactLookupResult(domain.ContactLookup{UUID: missing})
	p.ContactLookupResult(domain.ContactLookup{UUID: c.UUID, Exists: true, Contact: &c})
	p.MessageReceived(domain.ChatMessage{
		ContactUUID: c.UUID,
		Body:        "hi",
		Direction:   domain.DirectionReceived,
		Timestamp:   time.Now(),
	}, c)
	p.message(domain.ChatMessage{
		ContactUUID: c.UUID,
		Body:        "yo",
		Direction:   domain.DirectionSent,
		Timestamp:   time.Now(),
	}, "")

	out := buf.String()
	assert.Contains(t, out, "No user with id "+missing.String())
	assert.Contains(t, out, "Connected with bob ("+c.UUID.String()+")")
	assert.Contains(t, out, "bob: hi")
	assert.Contains(t, out, "me -> "+c.UUID.String()+": yo")
}

func TestExecLine_LocalCommands(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf)

	quit, err := execLine(context.Background(), nil, "/quit", p)
	require.NoError(t, err)
	assert.True(t, quit)

	quit, err = execLine(context.Background(), nil, "", p)
	require.NoError(t, err)
	assert.False(t, quit)

	_, err = execLine(context.Background(), nil, "/help", p)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "/msg <uuid|name> <text>")

	_, err = execLine(context.Background(), nil, "/nope", p)
	assert.ErrorContains(t, err, "unknown command")

	_, err = execLine(context.Background(), nil, "/add not-a-uuid", p)
	assert.ErrorContains(t, err, "invalid id")
}
