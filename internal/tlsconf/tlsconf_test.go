package tlsconf_test

import (
	"crypto/tls"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pqchat/internal/tlsconf"
)

func TestDevCerts_Handshake(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, tlsconf.WriteDevCerts(dir, []string{"localhost", "127.0.0.1"}))

	srvCfg, err := tlsconf.ServerTLS(filepath.Join(dir, tlsconf.ServerCertFile), filepath.Join(dir, tlsconf.ServerKeyFile))
	require.NoError(t, err)
	cliCfg, err := tlsconf.ClientTLS(filepath.Join(dir, tlsconf.CACertFile), "localhost")
	require.NoError(t, err)

	ln, err := tls.Listen("tcp", "127.0.0.1:0", srvCfg)
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		_, _ = io.Copy(c, c)
	}()

	conn, err := tls.Dial("tcp", ln.Addr().String(), cliCfg)
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte("ping"))
	require.NoError(t, err)
	buf := make([]byte, 4)
	_, err = io.ReadFull(conn, buf)
	require.NoError(t, err)
	require.Equal(t, "ping", string(buf))
}

func TestClientTLS_RejectsUnknownCA(t *testing.T) {
	good, bad := t.TempDir(), t.TempDir()
	require.NoError(t, tlsconf.WriteDevCerts(good, []string{"localhost"}))
	require.NoError(t, tlsconf.WriteDevCerts(bad, []string{"localhost"}))

	srvCfg, err := tlsconf.ServerTLS(filepath.Join(good, tlsconf.ServerCertFile), filepath.Join(good, tlsconf.ServerKeyFile))
	require.NoError(t, err)
	cliCfg, err := tlsconf.ClientTLS(filepath.Join(bad, tlsconf.CACertFile), "localhost")
	require.NoError(t, err)

	ln, err := tls.Listen("tcp", "127.0.0.1:0", srvCfg)
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		_ = c.(*tls.Conn).Handshake()
	}()

	_, err = tls.Dial("tcp", ln.Addr().String(), cliCfg)
	require.Error(t, err)
}

func TestClientTLS_MissingFile(t *testing.T) {
	_, err := tlsconf.ClientTLS(filepath.Join(t.TempDir(), "nope.crt"), "")
	require.Error(t, err)
}
