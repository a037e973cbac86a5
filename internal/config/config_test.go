package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  host: 127.0.0.1
  port: 9090
database:
  host: dbhost
  port: 5433
  user: app
  password: secret
  dbname: photos
  sslmode: disable
storage:
  backend: local
  path: /tmp/uploads
session:
  secret: abc
  ttl_hours: 12
log:
  level: debug
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "local", cfg.Storage.Backend)
	require.Equal(t, 12, cfg.Session.TTLHours)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadDefaultsSessionTTL(t *testing.T) {
	cfg, err := Load(writeConfig(t, "session:\n  secret: abc\n"))
	require.NoError(t, err)
	require.Equal(t, 24*7, cfg.Session.TTLHours)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	require.Equal(t,
		"host=dbhost port=5433 user=app password=secret dbname=photos sslmode=disable",
		cfg.Database.DSN())
}
