package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/remoteforge/scenebridge/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := config.DefaultSettings()
	assert.Equal(t, 6688, s.Port)
	assert.False(t, s.StartNow)
	assert.Equal(t, config.LevelInfo, s.LogLevel)
}

func TestFromEnv_OverridesPort(t *testing.T) {
	t.Setenv("BLD_REMOTE_MCP_PORT", "7000")
	t.Setenv("BLD_REMOTE_MCP_START_NOW", "")
	t.Setenv("BLD_REMOTE_LOG_LEVEL", "")

	s := config.FromEnv()

	assert.Equal(t, 7000, s.Port)
}

func TestFromEnv_TruthyStartNow(t *testing.T) {
	t.Setenv("BLD_REMOTE_MCP_PORT", "")
	t.Setenv("BLD_REMOTE_MCP_START_NOW", "yes")
	t.Setenv("BLD_REMOTE_LOG_LEVEL", "")

	s := config.FromEnv()

	assert.True(t, s.StartNow)
}

func TestFromEnv_IgnoresUnknownLogLevel(t *testing.T) {
	t.Setenv("BLD_REMOTE_MCP_PORT", "")
	t.Setenv("BLD_REMOTE_MCP_START_NOW", "")
	t.Setenv("BLD_REMOTE_LOG_LEVEL", "NOT_A_LEVEL")

	s := config.FromEnv()

	assert.Equal(t, config.LevelInfo, s.LogLevel)
}

func TestLogLevel_Enabled(t *testing.T) {
	assert.True(t, config.LevelWarning.Enabled(config.LevelError))
	assert.False(t, config.LevelError.Enabled(config.LevelWarning))
	assert.True(t, config.LevelDebug.Enabled(config.LevelDebug))
}

func TestLoadOverrideFile_NoFilesReturnsEnvBase(t *testing.T) {
	dir := t.TempDir()

	s, err := config.LoadOverrideFile(dir)

	assert.NoError(t, err)
	assert.Equal(t, config.DefaultSettings().Port, s.Port)
}

func TestLoadOverrideFile_YAMLOverridesPort(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("port: 9999\n"), 0644)
	assert.NoError(t, err)

	s, err := config.LoadOverrideFile(dir)

	assert.NoError(t, err)
	assert.Equal(t, 9999, s.Port)
}

func TestLoadOverrideFile_TOMLTakesPrecedenceOverYAML(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("port = 1234\n"), 0644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("port: 9999\n"), 0644))

	s, err := config.LoadOverrideFile(dir)

	assert.NoError(t, err)
	assert.Equal(t, 1234, s.Port)
}
