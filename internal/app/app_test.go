package app

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen-ai/backend/internal/config"
)

func TestNewApp(t *testing.T) {
	dbFile, err := os.CreateTemp("", "test-*.db")
	require.NoError(t, err)
	require.NoError(t, dbFile.Close())
	defer func() { require.NoError(t, os.Remove(dbFile.Name())) }()

	cfg := &config.Config{
		AppPort:                8000,
		DatabasePath:           dbFile.Name(),
		LogLevel:               "DEBUG",
		GeminiAPIURL:           "http://localhost:9999",
		ProviderTimeoutSeconds: 5,
	}

	app, err := NewApp(cfg)
	require.NoError(t, err)
	require.NotNil(t, app)

	defer func() { require.NoError(t, app.DB.Close()) }()

	assert.NotNil(t, app.DB)
	assert.NotNil(t, app.Server)
	assert.Equal(t, ":8000", app.Server.Addr)
}

func TestNewApp_RequiresPersistentKey(t *testing.T) {
	cfg := &config.Config{
		DatabasePath:         "/tmp/unused.db",
		RequirePersistentKey: true,
	}

	_, err := NewApp(cfg)
	assert.Error(t, err)
}
