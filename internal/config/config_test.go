package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "yt-dlp", cfg.YtDlpPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Duration(0), cfg.DownloadInterval)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PLAYCAST_YTDLP_PATH", "/opt/bin/yt-dlp")
	t.Setenv("PLAYCAST_LOG_LEVEL", "debug")
	t.Setenv("PLAYCAST_DOWNLOAD_INTERVAL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/opt/bin/yt-dlp", cfg.YtDlpPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.DownloadInterval)
}
