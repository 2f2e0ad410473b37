package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nab23-dev/prompt-sci/internal/config"
)

func TestNewApp_Commands(t *testing.T) {
	app := newApp()

	var names []string
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"serve", "migrate", "rollback", "settings", "posts"}, names)
}

func TestServiceOptions(t *testing.T) {
	cfg := &config.Config{
		Auth: config.AuthConfig{AccessSecret: "a", RefreshSecret: "r", AccessExpiry: time.Hour},
		Feed: config.FeedConfig{PageSize: 7, StrictReactions: true, MaxSessions: 3},
	}

	opts := serviceOptions(cfg)
	assert.Equal(t, []byte("a"), opts.AccessSecret)
	assert.Equal(t, []byte("r"), opts.RefreshSecret)
	assert.Equal(t, time.Hour, opts.AccessExpiry)
	assert.Equal(t, 7, opts.PageSize)
	assert.True(t, opts.StrictReactions)
	assert.Equal(t, 3, opts.MaxSessions)
}

func TestOpenBackends_Memory(t *testing.T) {
	cfg := &config.Config{
		Store:  config.StoreConfig{Type: "memory"},
		Cache:  config.CacheConfig{Type: "memory"},
		Events: config.EventsConfig{Type: "none"},
	}

	b, err := openBackends(context.Background(), zap.NewNop(), cfg)
	require.NoError(t, err)
	require.NotNil(t, b.repo.Redis)
	assert.NoError(t, b.health(context.Background()))
	assert.NoError(t, b.repo.Close(context.Background()))

	publisher, closePublisher, err := openPublisher(context.Background(), zap.NewNop(), cfg)
	require.NoError(t, err)
	assert.Nil(t, publisher)
	assert.NoError(t, closePublisher())
}
