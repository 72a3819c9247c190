package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "*", cfg.CORS.Origins)
	assert.Equal(t, 4, cfg.Demo.MaxKeys)
	assert.Equal(t, 1, cfg.Demo.MaxUsers)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MONGO_URI", "mongodb://example:27017")
	t.Setenv("DEMO_MAX_KEYS", "10")
	t.Setenv("DEMO_MAX_USERS", "3")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "mongodb://example:27017", cfg.Mongo.URI)
	assert.Equal(t, 10, cfg.Demo.MaxKeys)
	assert.Equal(t, 3, cfg.Demo.MaxUsers)
}
