package app

import (
	"crypto/tls"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"pqchat/internal/client"
	"pqchat/internal/crypto"
	"pqchat/internal/domain"
	"pqchat/internal/relay"
	contactsvc "pqchat/internal/services/contact"
	identitysvc "pqchat/internal/services/identity"
	messagesvc "pqchat/internal/services/message"
	"pqchat/internal/store"
	"pqchat/internal/tlsconf"
)

// NewClient constructs the client dependency graph from cfg. The notifier
// receives pushes from the relay and may be nil.
func NewClient(cfg *ClientConfig, notifier domain.Notifier, logger *zap.Logger) (*ClientApp, error) {
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, err
	}
	kem, err := crypto.NewKEM(cfg.KEMScheme)
	if err != nil {
		return nil, err
	}

	var tlsCfg *tls.Config
	if cfg.CAFile != "" {
		if tlsCfg, err = tlsconf.ClientTLS(cfg.CAFile, cfg.ServerName); err != nil {
			return nil, err
		}
	}

	db, err := store.OpenClientDB(cfg.Home, cfg.Passphrase)
	if err != nil {
		return nil, err
	}

	ids := identitysvc.New(db, kem)
	contacts := contactsvc.New(db, kem)
	messages := messagesvc.New(db, contacts)

	var opts []client.Option
	if notifier != nil {
		opts = append(opts, client.WithNotifier(notifier))
	}
	c := client.New(client.Config{
		Addr:         cfg.Server,
		Name:         cfg.Name,
		TLS:          tlsCfg,
		MaxFrameSize: cfg.MaxFrameSize,
	}, ids, contacts, messages, logger, opts...)

	return &ClientApp{
		Client:   c,
		IDs:      ids,
		Contacts: contacts,
		Messages: messages,
		db:       db,
	}, nil
}

// NewRelay constructs the relay server from cfg.
func NewRelay(cfg *ServerConfig, logger *zap.Logger) (*RelayApp, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, err
	}
	kem, err := crypto.NewKEM(cfg.KEMScheme)
	if err != nil {
		return nil, err
	}

	var tlsCfg *tls.Config
	if cfg.CertFile != "" {
		if tlsCfg, err = tlsconf.ServerTLS(cfg.CertFile, cfg.KeyFile); err != nil {
			return nil, err
		}
	} else {
		logger.Warn("TLS disabled; traffic to the relay is unauthenticated plaintext")
	}

	accounts, err := store.OpenAccountDB(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	n, err := accounts.Count()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("count accounts: %w", err), accounts.Close())
	}
	logger.Info("account directory opened", zap.String("dir", cfg.DataDir), zap.Int("accounts", n))

	srv := relay.New(relay.Config{
		Addr:         cfg.Listen,
		TLS:          tlsCfg,
		MaxFrameSize: cfg.MaxFrameSize,
		KEM:          kem,
	}, accounts, logger)

	return &RelayApp{Server: srv, MetricsAddr: cfg.MetricsAddr, accounts: accounts}, nil
}
