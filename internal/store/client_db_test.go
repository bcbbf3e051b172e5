package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"pqchat/internal/domain"
	"pqchat/internal/store"
)

var fastScrypt = store.WithScryptParams(store.ScryptParams{N: 1 << 10, R: 8, P: 1})

func openClient(t *testing.T, dir, pass string) *store.ClientDB {
	t.Helper()
	db, err := store.OpenClientDB(dir, pass, fastScrypt)
	if err != nil {
		t.Fatalf("OpenClientDB: %v", err)
	}
	return db
}

func TestIdentity_SaveLoad_OK(t *testing.T) {
	home := t.TempDir()
	db := openClient(t, home, "pass")

	if _, ok, err := db.LoadIdentity(); err != nil || ok {
		t.Fatalf("fresh store: ok=%v err=%v", ok, err)
	}

	id := domain.Identity{
		UUID:       uuid.New(),
		Name:       "alice",
		KEMScheme:  "MLKEM768",
		PublicKey:  []byte{1, 2, 3},
		PrivateKey: []byte{4, 5, 6},
		SeedHash:   []byte{7},
	}
	if err := db.SaveIdentity(id); err != nil {
		t.Fatalf("save identity: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db = openClient(t, home, "pass")
	defer db.Close()
	got, ok, err := db.LoadIdentity()
	if err != nil || !ok {
		t.Fatalf("load identity: ok=%v err=%v", ok, err)
	}
	if got.UUID != id.UUID || got.Name != id.Name || string(got.PrivateKey) != string(id.PrivateKey) {
		t.Fatalf("mismatch after load: %+v", got)
	}
}

func TestIdentity_SavedOnce(t *testing.T) {
	db := openClient(t, t.TempDir(), "")
	defer db.Close()

	id := domain.Identity{UUID: uuid.New(), Name: "a"}
	if err := db.SaveIdentity(id); err != nil {
		t.Fatalf("save identity: %v", err)
	}
	if err := db.SaveIdentity(id); !errors.Is(err, domain.ErrIdentityExists) {
		t.Fatalf("expected ErrIdentityExists, got %v", err)
	}
}

func TestIdentity_WrongPassphrase_Fails(t *testing.T) {
	home := t.TempDir()
	db := openClient(t, home, "correct")
	if err := db.SaveIdentity(domain.Identity{UUID: uuid.New()}); err != nil {
		t.Fatalf("save identity: %v", err)
	}
	db.Close()

	db = openClient(t, home, "wrong")
	defer db.Close()
	if _, _, err := db.LoadIdentity(); !errors.Is(err, store.ErrWrongPassphrase) {
		t.Fatalf("expected ErrWrongPassphrase, got %v", err)
	}
}

func TestContacts_NotRekeyed(t *testing.T) {
	db := openClient(t, t.TempDir(), "")
	defer db.Close()

	c := domain.Contact{UUID: uuid.New(), Name: "bob", SharedSecret: []byte("first"), Origin: domain.OriginLookup}
	if err := db.SaveContact(c); err != nil {
		t.Fatalf("save contact: %v", err)
	}
	c2 := c
	c2.SharedSecret = []byte("second")
	if err := db.SaveContact(c2); err != nil {
		t.Fatalf("save contact again: %v", err)
	}

	all, err := db.ListContacts()
	if err != nil {
		t.Fatalf("list contacts: %v", err)
	}
	if len(all) != 1 || string(all[0].SharedSecret) != "first" {
		t.Fatalf("unexpected contacts: %+v", all)
	}
	if all[0].Origin != domain.OriginLookup {
		t.Fatalf("origin %v", all[0].Origin)
	}
}

func TestHistory_AppendOrder(t *testing.T) {
	db := openClient(t, t.TempDir(), "")
	defer db.Close()

	bob, carol := uuid.New(), uuid.New()
	now := time.Now()
	entries := []domain.ChatMessage{
		{ContactUUID: bob, Body: "hi bob", Direction: domain.DirectionSent, Timestamp: now},
		{ContactUUID: carol, Body: "hi carol", Direction: domain.DirectionSent, Timestamp: now},
		{ContactUUID: bob, Body: "hey", Direction: domain.DirectionReceived, Timestamp: now},
	}
	for i, m := range entries {
		got, err := db.AppendMessage(m)
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		if got.Seq != uint64(i+1) {
			t.Fatalf("seq %d, want %d", got.Seq, i+1)
		}
	}

	all, err := db.LoadHistory()
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(all) != 3 || all[0].Body != "hi bob" || all[2].Body != "hey" {
		t.Fatalf("unexpected history: %+v", all)
	}
	if !all[0].Timestamp.Equal(now) {
		t.Fatalf("timestamp %v, want %v", all[0].Timestamp, now)
	}

	conv, err := db.LoadConversation(bob)
	if err != nil {
		t.Fatalf("load conversation: %v", err)
	}
	if len(conv) != 2 || conv[1].Direction != domain.DirectionReceived {
		t.Fatalf("unexpected conversation: %+v", conv)
	}
}
