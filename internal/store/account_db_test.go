package store_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pqchat/internal/domain"
	"pqchat/internal/store"
)

func TestAccountDB_CreateLookupReopen(t *testing.T) {
	dir := t.TempDir()
	db, err := store.OpenAccountDB(dir)
	require.NoError(t, err)

	acct := domain.Account{
		UUID:      uuid.New(),
		Name:      "alice",
		PublicKey: []byte("pk"),
		SeedHash:  []byte("hash"),
		Created:   time.Now().UTC(),
	}
	require.NoError(t, db.CreateAccount(acct))
	require.Error(t, db.CreateAccount(acct), "duplicate UUID must be refused")

	_, ok, err := db.LookupAccount(uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.Close())

	db, err = store.OpenAccountDB(dir)
	require.NoError(t, err)
	defer db.Close()

	got, ok, err := db.LookupAccount(acct.UUID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, acct.Name, got.Name)
	assert.Equal(t, acct.PublicKey, got.PublicKey)
	assert.Equal(t, acct.SeedHash, got.SeedHash)
	assert.True(t, acct.Created.Equal(got.Created))

	n, err := db.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
