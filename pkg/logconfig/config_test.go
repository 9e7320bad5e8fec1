package logconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logward/logward-go/pkg/logward"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("JSON_LOGS", "")
	t.Setenv("LOG_PATH", "")

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Equal(t, logward.LevelInfo, cfg.Level)
	assert.True(t, cfg.JSONLogs)
	assert.Empty(t, cfg.FilePath)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("JSON_LOGS", "0")
	t.Setenv("LOG_PATH", "/var/log/app.log")

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Equal(t, logward.LevelDebug, cfg.Level)
	assert.False(t, cfg.JSONLogs)
	assert.Equal(t, "/var/log/app.log", cfg.FilePath)
}

func TestFromEnv_LevelAliases(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARNING")

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Equal(t, logward.LevelWarn, cfg.Level)
}

func TestFromEnv_InvalidLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := FromEnv()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}
