package message_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pqchat/internal/crypto"
	"pqchat/internal/domain"
	"pqchat/internal/services/contact"
	"pqchat/internal/services/message"
	"pqchat/internal/store"
)

func TestSealOpen(t *testing.T) {
	db, err := store.OpenClientDB(t.TempDir(), "")
	require.NoError(t, err)
	defer db.Close()
	k, err := crypto.NewKEM("")
	require.NoError(t, err)

	contacts := contact.New(db, k)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := message.New(db, contacts, message.WithClock(func() time.Time { return fixed }))

	_, _, _, err = svc.Seal(uuid.New(), "nobody")
	require.ErrorIs(t, err, domain.ErrContactNotFound)

	pub, _, err := k.GenerateKeyPair()
	require.NoError(t, err)
	bob := uuid.New()
	c, _, err := contacts.EstablishFromLookup(bob, "bob", pub)
	require.NoError(t, err)

	sent, payload, kemCT, err := svc.Seal(bob, "hello")
	require.NoError(t, err)
	assert.Equal(t, domain.DirectionSent, sent.Direction)
	assert.Equal(t, c.SharedCiphertext, kemCT)
	assert.NotEqual(t, []byte("hello"), payload)

	got, err := svc.Open(c, payload)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Body)
	assert.Equal(t, domain.DirectionReceived, got.Direction)

	conv, err := svc.History(bob)
	require.NoError(t, err)
	require.Len(t, conv, 2)
	assert.True(t, conv[0].Timestamp.Equal(fixed))

	all, err := svc.AllHistory()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
