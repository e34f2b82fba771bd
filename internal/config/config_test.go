package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENLP_DB_URL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CHORDPRO_STRICT", "")
	t.Setenv("CHORDPRO_DIR", "")
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "songs.sqlite", cfg.Database.URL)
	assert.Equal(t, filepath.Join(home, "Downloads"), cfg.ChordPro.Dir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.ChordPro.Strict)
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  url: /srv/openlp/songs.sqlite
chordpro:
  dir: /home/me/Downloads
  strict: true
log:
  level: debug
`), 0o644))

	t.Setenv("OPENLP_DB_URL", "libsql://songs.turso.io")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("CHORDPRO_DIR", "")
	t.Setenv("CHORDPRO_STRICT", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "libsql://songs.turso.io", cfg.Database.URL)
	assert.Equal(t, "/home/me/Downloads", cfg.ChordPro.Dir)
	assert.True(t, cfg.ChordPro.Strict)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
