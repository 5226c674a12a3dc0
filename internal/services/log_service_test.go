package services

import (
	"Folio/internal/config"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogService_LevelAndFormat(t *testing.T) {
	cfg := &config.Configuration{}
	cfg.Server.LogConfig = config.LogConfig{Level: "debug", Format: "json", Output: "stdout"}

	logService := NewLogService(cfg)

	assert.Equal(t, logrus.DebugLevel, logService.Log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logService.Log.Formatter)
}

func TestNewLogService_UnknownLevelFallsBackToInfo(t *testing.T) {
	cfg := &config.Configuration{}
	cfg.Server.LogConfig = config.LogConfig{Level: "chatty", Format: "text", Output: "stdout"}

	logService := NewLogService(cfg)

	assert.Equal(t, logrus.InfoLevel, logService.Log.GetLevel())
}

func TestNewLogService_FileOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Configuration{}
	cfg.Server.LogConfig = config.LogConfig{Level: "info", Format: "text", Output: "file", LogPath: dir}

	logService := NewLogService(cfg)
	logService.Log.Info("hello")
	if closer, ok := logService.Log.Out.(*os.File); ok {
		t.Cleanup(func() { _ = closer.Close() })
	}

	matches, err := filepath.Glob(filepath.Join(dir, "folio-*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
