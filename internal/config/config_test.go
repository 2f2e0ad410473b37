package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Store.Type)
	assert.Equal(t, "memory", cfg.Cache.Type)
	assert.Equal(t, "none", cfg.Events.Type)
	assert.Equal(t, 5, cfg.Feed.PageSize)
	assert.False(t, cfg.Feed.StrictReactions)
	assert.Equal(t, 3*time.Hour, cfg.Auth.AccessExpiry)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeFile(t, "app.yaml", `
server:
  addr: ":9000"
store:
  type: postgres
  postgres:
    host: db
    port: 5433
feed:
  page_size: 10
  session_ttl: 5m
`)
	t.Setenv("PROMPTSCI_FEED_STRICT_REACTIONS", "true")
	t.Setenv("ACCESS_SECRET", "access")
	t.Setenv("REFRESH_SECRET", "refresh")
	t.Setenv("POSTGRES_PASSWORD", "hunter2")

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Store.Type)
	assert.Equal(t, "db", cfg.Store.Postgres.Host)
	assert.Equal(t, 5433, cfg.Store.Postgres.Port)
	assert.Equal(t, "hunter2", cfg.Store.Postgres.Password)
	assert.Equal(t, 10, cfg.Feed.PageSize)
	assert.Equal(t, 5*time.Minute, cfg.Feed.SessionTTL)
	assert.True(t, cfg.Feed.StrictReactions)
	assert.Equal(t, "access", cfg.Auth.AccessSecret)
	assert.NoError(t, cfg.RequireSecrets())
	assert.Equal(t, "postgres://promptsci:hunter2@db:5433/promptsci?sslmode=disable", cfg.Store.Postgres.DSN("postgres"))
}

func TestLoad_EnvFile(t *testing.T) {
	envFile := writeFile(t, ".env", "REFRESH_SECRET=from-dotenv\n")
	t.Cleanup(func() { os.Unsetenv("REFRESH_SECRET") })

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Auth.RefreshSecret)
	assert.Error(t, cfg.RequireSecrets())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown store", content: "store:\n  type: firestore\n"},
		{name: "unknown cache", content: "cache:\n  type: memcached\n"},
		{name: "unknown events", content: "events:\n  type: kafka\n"},
		{name: "zero page size", content: "feed:\n  page_size: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "app.yaml", tt.content), "")
			assert.Error(t, err)
		})
	}
}
