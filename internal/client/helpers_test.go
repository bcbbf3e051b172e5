package client_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"pqchat/internal/client"
	"pqchat/internal/crypto"
	"pqchat/internal/domain"
	"pqchat/internal/protocol/wire"
	"pqchat/internal/services/contact"
	"pqchat/internal/services/identity"
	"pqchat/internal/services/message"
	"pqchat/internal/store"
)

const waitFor = 5 * time.Second

type receivedMessage struct {
	msg  domain.ChatMessage
	from domain.Contact
}

type recorder struct {
	identities chan domain.Identity
	lookups    chan domain.ContactLookup
	messages   chan receivedMessage
}

func newRecorder() *recorder {
	return &recorder{
		identities: make(chan domain.Identity, 8),
		lookups:    make(chan domain.ContactLookup, 8),
		messages:   make(chan receivedMessage, 8),
	}
}

func (r *recorder) IdentityAssigned(id domain.Identity, _ string) { r.identities <- id }

func (r *recorder) ContactLookupResult(res domain.ContactLookup) { r.lookups <- res }

func (r *recorder) MessageReceived(msg domain.ChatMessage, from domain.Contact) {
	r.messages <- receivedMessage{msg: msg, from: from}
}

func recv[T any](t *testing.T, ch chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(waitFor):
		t.Fatalf("timed out waiting for %T", *new(T))
	}
	var zero T
	return zero
}

// fakeRelay is the far end of a dialled pipe. Everything the client sends is
// drained into in so client writes never block.
type fakeRelay struct {
	conn *wire.Conn
	in   chan wire.Message
}

func (r *fakeRelay) send(t *testing.T, m wire.Message) {
	t.Helper()
	require.NoError(t, r.conn.WriteMessage(m))
}

func (r *fakeRelay) next(t *testing.T) wire.Message {
	t.Helper()
	select {
	case m, ok := <-r.in:
		require.True(t, ok, "relay connection closed")
		return m
	case <-time.After(waitFor):
		t.Fatalf("timed out waiting for a client message")
	}
	return nil
}

func (r *fakeRelay) expectNothing(t *testing.T) {
	t.Helper()
	select {
	case m, ok := <-r.in:
		if ok {
			t.Fatalf("unexpected client message %s", m.Type())
		}
	case <-time.After(100 * time.Millisecond):
	}
}

type pipeDialer struct {
	t        *testing.T
	accepted chan *fakeRelay
}

func newPipeDialer(t *testing.T) *pipeDialer {
	return &pipeDialer{t: t, accepted: make(chan *fakeRelay, 4)}
}

func (d *pipeDialer) DialContext(context.Context, string, string) (net.Conn, error) {
	c, s := net.Pipe()
	r := &fakeRelay{conn: wire.NewConn(s), in: make(chan wire.Message, 16)}
	d.t.Cleanup(func() { r.conn.Close() })
	go func() {
		defer close(r.in)
		for {
			m, err := r.conn.ReadMessage()
			if err != nil {
				return
			}
			r.in <- m
		}
	}()
	d.accepted <- r
	return c, nil
}

func (d *pipeDialer) accept(t *testing.T) *fakeRelay {
	t.Helper()
	return recv(t, d.accepted)
}

type failingDialer struct{}

func (failingDialer) DialContext(context.Context, string, string) (net.Conn, error) {
	return nil, errors.New("connection refused")
}

type testClient struct {
	*client.Client
	db    *store.ClientDB
	notes *recorder
	kem   *crypto.KEM
}

func pipeConfig(name string) client.Config {
	return client.Config{Addr: "relay.test:33000", Name: name}
}

func openTestClient(t *testing.T, dir string, cfg client.Config, opts ...client.Option) *testClient {
	t.Helper()
	db, err := store.OpenClientDB(dir, "pw", store.WithScryptParams(store.ScryptParams{N: 1 << 10, R: 8, P: 1}))
	require.NoError(t, err)
	k, err := crypto.NewKEM(crypto.SchemeMLKEM768)
	require.NoError(t, err)

	ids := identity.New(db, k)
	contacts := contact.New(db, k)
	msgs := message.New(db, contacts)
	notes := newRecorder()

	opts = append([]client.Option{client.WithNotifier(notes)}, opts...)
	c := client.New(cfg, ids, contacts, msgs, zaptest.NewLogger(t), opts...)
	tc := &testClient{Client: c, db: db, notes: notes, kem: k}
	t.Cleanup(tc.shutdown)
	return tc
}

func (tc *testClient) shutdown() {
	tc.Close()
	tc.db.Close()
}

// register connects a fresh client through d and completes registration
// as UUID id.
func register(t *testing.T, tc *testClient, d *pipeDialer, id domain.UUID) *fakeRelay {
	t.Helper()
	require.NoError(t, tc.Connect(context.Background()))
	relay := d.accept(t)
	_, ok := relay.next(t).(*wire.NewAccountRequest)
	require.True(t, ok)
	relay.send(t, &wire.AssignIdentity{UUID: id.String(), SeedPhrase: "seed words", SeedHash: []byte("hash")})
	recv(t, tc.notes.identities)
	return relay
}
