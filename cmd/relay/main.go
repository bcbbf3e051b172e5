package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pqchat/internal/app"
	"pqchat/internal/logging"
	"pqchat/internal/tlsconf"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "relay",
		Short:        "pqchat relay server",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), gencertCmd())
	return root
}

func serveCmd() *cobra.Command {
	var (
		cfgFile     string
		listen      string
		dataDir     string
		certFile    string
		keyFile     string
		metricsAddr string
		logLevel    string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Accept client connections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := new(app.ServerConfig)
			if cfgFile != "" {
				var err error
				if cfg, err = app.LoadServerFile(cfgFile); err != nil {
					return err
				}
			}
			flags := cmd.Flags()
			if flags.Changed("listen") {
				cfg.Listen = listen
			}
			if flags.Changed("data") {
				cfg.DataDir = dataDir
			}
			if flags.Changed("cert") {
				cfg.CertFile = certFile
			}
			if flags.Changed("key") {
				cfg.KeyFile = keyFile
			}
			if flags.Changed("metrics") {
				cfg.MetricsAddr = metricsAddr
			}
			if flags.Changed("log-level") {
				cfg.Logging.Level = logLevel
			}
			if err := cfg.FixupAndValidate(); err != nil {
				return err
			}

			logger, err := logging.New(cfg.Logging.Level, cfg.Logging.File)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			srv, err := app.NewRelay(cfg, logger)
			if err != nil {
				logger.Error("relay setup failed", zap.Error(err))
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runErr := srv.Run(ctx)
			if runErr != nil {
				logger.Error("relay stopped", zap.Error(runErr))
			} else {
				logger.Info("relay stopped")
			}
			return errors.Join(runErr, srv.Close())
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfgFile, "config", "", "TOML config file")
	f.StringVar(&listen, "listen", "", "listen address (default :"+app.DefaultPort+")")
	f.StringVar(&dataDir, "data", "", "account database dir (default relay-data)")
	f.StringVar(&certFile, "cert", "", "TLS certificate file")
	f.StringVar(&keyFile, "key", "", "TLS private key file")
	f.StringVar(&metricsAddr, "metrics", "", "serve prometheus metrics on this address")
	f.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	return cmd
}

func gencertCmd() *cobra.Command {
	var (
		outDir string
		hosts  string
	)
	cmd := &cobra.Command{
		Use:   "gencert",
		Short: "Write a development CA and server certificate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tlsconf.WriteDevCerts(outDir, splitHosts(hosts)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote ca.crt, ca.key, server.crt and server.key to %s\n", outDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "certs", "output directory")
	cmd.Flags().StringVar(&hosts, "hosts", "localhost,127.0.0.1", "comma separated server names and IPs")
	return cmd
}

func splitHosts(s string) []string {
	var hosts []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}
