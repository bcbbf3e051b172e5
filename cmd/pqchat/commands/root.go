package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pqchat/internal/app"
	"pqchat/internal/domain"
	"pqchat/internal/logging"
	"pqchat/internal/services/identity"
)

var (
	cfgFile    string
	home       string
	server     string
	caFile     string
	name       string
	passphrase string
	logLevel   string
)

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "pqchat",
		Short:        "Post-quantum encrypted chat client",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "TOML config file")
	pf.StringVar(&home, "home", "", "data dir (default ~/.pqchat)")
	pf.StringVar(&server, "server", "", "relay address host:port (default localhost:"+app.DefaultPort+")")
	pf.StringVar(&caFile, "ca", "", "CA certificate used to verify the relay; empty disables TLS")
	pf.StringVar(&name, "name", "", "display name sent at registration")
	pf.StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the identity key")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(chatCmd(), whoamiCmd(), contactsCmd(), historyCmd(), fingerprintCmd())
	return root
}

// loadConfig reads --config when given and applies flags set on the
// command line over it.
func loadConfig(cmd *cobra.Command) (*app.ClientConfig, error) {
	cfg := new(app.ClientConfig)
	if cfgFile != "" {
		var err error
		if cfg, err = app.LoadClientFile(cfgFile); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("home") {
		cfg.Home = home
	}
	if flags.Changed("server") {
		cfg.Server = server
	}
	if flags.Changed("ca") {
		cfg.CAFile = caFile
	}
	if flags.Changed("name") {
		cfg.Name = name
	}
	if flags.Changed("passphrase") {
		cfg.Passphrase = passphrase
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.FixupAndValidate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openApp builds the client graph. The caller closes the app and syncs the
// logger.
func openApp(cmd *cobra.Command, notifier domain.Notifier) (*app.ClientApp, *zap.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return nil, nil, err
	}
	if !identity.IsSecurePassphrase(cfg.Passphrase) {
		logger.Warn("identity key is weakly protected", zap.Error(identity.ErrWeakPassphrase))
	}
	a, err := app.NewClient(cfg, notifier, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	return a, logger, nil
}

// offline runs fn against the local store without contacting the relay.
func offline(cmd *cobra.Command, fn func(a *app.ClientApp) error) error {
	a, logger, err := openApp(cmd, nil)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if _, _, err := a.IDs.Load(); err != nil {
		return errors.Join(err, a.Close())
	}
	if err := a.Contacts.Load(); err != nil {
		return errors.Join(err, a.Close())
	}
	return errors.Join(fn(a), a.Close())
}

func requireIdentity(a *app.ClientApp) (domain.Identity, error) {
	id, ok := a.IDs.Current()
	if !ok {
		return domain.Identity{}, fmt.Errorf("%w: run `pqchat chat` to register", domain.ErrNoIdentity)
	}
	return id, nil
}
