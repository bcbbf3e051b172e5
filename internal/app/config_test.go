package app_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pqchat/internal/app"
	"pqchat/internal/protocol/wire"
)

func TestLoadServer_Defaults(t *testing.T) {
	cfg, err := app.LoadServer(nil)
	require.NoError(t, err)
	assert.Equal(t, ":"+app.DefaultPort, cfg.Listen)
	assert.Equal(t, "MLKEM768", cfg.KEMScheme)
	assert.Equal(t, wire.DefaultMaxFrameSize, cfg.MaxFrameSize)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestLoadServer_Values(t *testing.T) {
	cfg, err := app.LoadServer([]byte(`
Listen = "127.0.0.1:4000"
DataDir = "/var/lib/pqchat"
CertFile = "server.crt"
KeyFile = "server.key"
MetricsAddr = ":9100"
KEMScheme = "xwing"

[Logging]
Level = "debug"
`))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:4000", cfg.Listen)
	assert.Equal(t, "/var/lib/pqchat", cfg.DataDir)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
	assert.Equal(t, "xwing", cfg.KEMScheme)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadServer_Rejects(t *testing.T) {
	for name, doc := range map[string]string{
		"undecoded key":  `Listn = ":1"`,
		"cert alone":     `CertFile = "server.crt"`,
		"unknown scheme": `KEMScheme = "kyber1"`,
		"bad frame size": `MaxFrameSize = -1`,
		"bad toml":       `Listen = `,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := app.LoadServer([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestLoadClientFile(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(t.TempDir(), "client.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
Home = "`+filepath.ToSlash(home)+`"
Server = "relay.example:33000"
CAFile = "ca.crt"
Name = "alice"
`), 0o600))

	cfg, err := app.LoadClientFile(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.ToSlash(home), cfg.Home)
	assert.Equal(t, "relay.example:33000", cfg.Server)
	assert.Equal(t, "alice", cfg.Name)
	assert.Equal(t, "MLKEM768", cfg.KEMScheme)
	assert.Equal(t, "warn", cfg.Logging.Level)

	_, err = app.LoadClient([]byte(`Nmae = "alice"`))
	require.ErrorContains(t, err, "Undecoded keys")

	_, err = app.LoadClientFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
