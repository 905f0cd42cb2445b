package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Run from a directory with no config.yaml so defaults apply.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Data.BaseDir)
	assert.Equal(t, "input_logs", cfg.Data.InputSubdir)
	assert.Equal(t, "output_logs", cfg.Data.OutputSubdir)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 5.0, cfg.Monitor.MaxAvgInferenceSeconds)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_ConfigFileOverrides(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/config.yaml", []byte("data:\n  base_dir: /srv/logs\nserver:\n  port: 9090\n"), 0o644))
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/logs", cfg.Data.BaseDir)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "input_logs", cfg.Data.InputSubdir)
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shouting", Format: "json"})
	assert.Error(t, err)
}
