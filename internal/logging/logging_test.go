package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"pqchat/internal/logging"
)

func TestNew_WritesToFileAtLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.log")
	log, err := logging.New("warn", path)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")
	require.NoError(t, log.Sync())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	require.True(t, strings.Contains(out, "shown"))
	require.False(t, strings.Contains(out, "hidden"))
}

func TestNew_BadLevel(t *testing.T) {
	_, err := logging.New("loud", "")
	require.Error(t, err)
}
