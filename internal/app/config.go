package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"pqchat/internal/crypto"
	"pqchat/internal/protocol/wire"
)

// DefaultPort is the relay's well-known TCP port.
const DefaultPort = "33000"

// Logging configures the zap logger.
type Logging struct {
	// Level is one of debug, info, warn, error.
	Level string
	// File, when set, receives log output instead of stderr.
	File string
}

func (l *Logging) fixup() {
	if l.Level == "" {
		l.Level = "info"
	}
}

// ServerConfig is the relay's configuration file.
type ServerConfig struct {
	// Listen is the TCP address to accept clients on.
	Listen string
	// DataDir holds the account database.
	DataDir string
	// CertFile and KeyFile are the relay's TLS certificate and key. Both
	// empty disables TLS, which is only meant for local testing.
	CertFile string
	KeyFile  string
	// MetricsAddr, when set, exposes prometheus metrics over HTTP.
	MetricsAddr string
	// KEMScheme names the scheme clients must register keys for.
	KEMScheme string
	// MaxFrameSize bounds a single wire frame in bytes.
	MaxFrameSize int

	Logging Logging
}

// FixupAndValidate applies defaults and checks the configuration.
func (c *ServerConfig) FixupAndValidate() error {
	if c.Listen == "" {
		c.Listen = ":" + DefaultPort
	}
	if c.DataDir == "" {
		c.DataDir = "relay-data"
	}
	if c.KEMScheme == "" {
		c.KEMScheme = crypto.DefaultScheme
	}
	if c.MaxFrameSize == 0 {
		c.MaxFrameSize = wire.DefaultMaxFrameSize
	}
	c.Logging.fixup()

	if (c.CertFile == "") != (c.KeyFile == "") {
		return errors.New("config: CertFile and KeyFile must be set together")
	}
	if c.MaxFrameSize < 0 {
		return fmt.Errorf("config: invalid MaxFrameSize %d", c.MaxFrameSize)
	}
	if _, err := crypto.NewKEM(c.KEMScheme); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ClientConfig is the chat client's configuration file.
type ClientConfig struct {
	// Home holds the client database.
	Home string
	// Server is the relay's host:port.
	Server string
	// CAFile is the CA certificate the relay's certificate must chain to.
	// Empty disables TLS, which is only meant for local testing.
	CAFile string
	// ServerName overrides the name verified against the relay certificate.
	ServerName string
	// Name is the display name sent when registering.
	Name string
	// Passphrase seals the identity record on disk.
	Passphrase string
	// KEMScheme selects the key pair type generated at registration.
	KEMScheme string
	// MaxFrameSize bounds a single wire frame in bytes.
	MaxFrameSize int

	Logging Logging
}

// FixupAndValidate applies defaults and checks the configuration.
func (c *ClientConfig) FixupAndValidate() error {
	if c.Home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("config: home directory: %w", err)
		}
		c.Home = filepath.Join(dir, ".pqchat")
	}
	if c.Server == "" {
		c.Server = "localhost:" + DefaultPort
	}
	if c.KEMScheme == "" {
		c.KEMScheme = crypto.DefaultScheme
	}
	if c.MaxFrameSize == 0 {
		c.MaxFrameSize = wire.DefaultMaxFrameSize
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "warn"
	}

	if c.MaxFrameSize < 0 {
		return fmt.Errorf("config: invalid MaxFrameSize %d", c.MaxFrameSize)
	}
	if _, err := crypto.NewKEM(c.KEMScheme); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// LoadServer parses and validates a relay configuration.
func LoadServer(b []byte) (*ServerConfig, error) {
	cfg := new(ServerConfig)
	if err := decode(b, cfg); err != nil {
		return nil, err
	}
	if err := cfg.FixupAndValidate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadServerFile loads a relay configuration from f.
func LoadServerFile(f string) (*ServerConfig, error) {
	b, err := os.ReadFile(f)
	if err != nil {
		return nil, err
	}
	return LoadServer(b)
}

// LoadClient parses and validates a client configuration.
func LoadClient(b []byte) (*ClientConfig, error) {
	cfg := new(ClientConfig)
	if err := decode(b, cfg); err != nil {
		return nil, err
	}
	if err := cfg.FixupAndValidate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadClientFile loads a client configuration from f.
func LoadClientFile(f string) (*ClientConfig, error) {
	b, err := os.ReadFile(f)
	if err != nil {
		return nil, err
	}
	return LoadClient(b)
}

func decode(b []byte, cfg any) error {
	md, err := toml.Decode(string(b), cfg)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return fmt.Errorf("config: Undecoded keys in config file: %v", undecoded)
	}
	return nil
}
