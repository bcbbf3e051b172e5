package app

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"pqchat/internal/client"
	"pqchat/internal/relay"
	contactsvc "pqchat/internal/services/contact"
	identitysvc "pqchat/internal/services/identity"
	messagesvc "pqchat/internal/services/message"
	"pqchat/internal/store"
)

// ClientApp bundles the chat client with the services behind it.
type ClientApp struct {
	Client   *client.Client
	IDs      *identitysvc.Service
	Contacts *contactsvc.Service
	Messages *messagesvc.Service

	db *store.ClientDB
}

// Close disconnects, wipes key material from memory and closes the database.
func (a *ClientApp) Close() error {
	err := a.Client.Close()
	a.IDs.Close()
	return errors.Join(err, a.db.Close())
}

// RelayApp bundles the relay server with its account directory.
type RelayApp struct {
	Server      *relay.Server
	MetricsAddr string

	accounts *store.AccountDB
}

// Run serves clients, and metrics when configured, until ctx is done.
func (a *RelayApp) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := a.Server.ListenAndServe(ctx)
		if errors.Is(err, relay.ErrServerClosed) {
			return nil
		}
		return err
	})
	if a.MetricsAddr != "" {
		g.Go(func() error { return a.Server.ServeMetrics(ctx, a.MetricsAddr) })
	}
	return g.Wait()
}

// Close closes the account directory. Call after Run returns.
func (a *RelayApp) Close() error {
	return a.accounts.Close()
}
