package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/tunegrab/internal/audio"
)

func TestDefaultSettings_Valid(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `download:
  threads: 8
  retry_attempts: 0
  smart_search: false
metadata:
  add_tags: false
history:
  backend: none
  ttl: 720h
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, settings.Download.Threads)
	assert.Equal(t, 0, settings.Download.RetryAttempts)
	assert.False(t, settings.Download.SmartSearch)
	assert.False(t, settings.Metadata.AddTags)
	assert.Equal(t, "none", settings.History.Backend)
	assert.Equal(t, 720*time.Hour, settings.History.TTL)

	assert.Equal(t, 320, settings.Download.Quality)
	assert.Equal(t, 600, settings.Download.MaxDuration)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("download:\n  threads: 40\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("download: [oops"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	settings := DefaultSettings()
	settings.Download.Threads = 6
	settings.History.TTL = 48 * time.Hour
	settings.YTDLP.ExtraArgs = []string{"--cookies", "c.txt"}
	require.NoError(t, settings.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"threads zero", func(s *Settings) { s.Download.Threads = 0 }},
		{"threads too many", func(s *Settings) { s.Download.Threads = 16 }},
		{"pause", func(s *Settings) { s.Download.Pause = 10.5 }},
		{"retry attempts", func(s *Settings) { s.Download.RetryAttempts = 11 }},
		{"retry delay", func(s *Settings) { s.Download.RetryDelay = -1 }},
		{"quality", func(s *Settings) { s.Download.Quality = 300 }},
		{"max duration", func(s *Settings) { s.Download.MaxDuration = 59 }},
		{"timeout", func(s *Settings) { s.Download.Timeout = 121 }},
		{"output", func(s *Settings) { s.Paths.Output = "" }},
		{"backend", func(s *Settings) { s.History.Backend = "sqlite" }},
		{"redis addr", func(s *Settings) { s.History.Backend = "redis"; s.History.RedisAddr = "" }},
		{"playlist format", func(s *Settings) { s.Export.PlaylistFormat = "xspf" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)

			err := s.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestValidate_ReportsAll(t *testing.T) {
	s := DefaultSettings()
	s.Download.Threads = 0
	s.Download.Timeout = 1

	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "download.threads")
	assert.Contains(t, err.Error(), "download.timeout")
}

func TestToEngineConfig(t *testing.T) {
	s := DefaultSettings()
	s.Download.Pause = 1.5
	s.Download.RetryDelay = 2
	s.Metadata.DownloadCovers = true
	s.Paths.Output = "/music"

	cfg := s.ToEngineConfig()

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 1500*time.Millisecond, cfg.Pause)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	assert.Equal(t, 320, cfg.BitrateKbps)
	assert.Equal(t, 10*time.Minute, cfg.MaxDuration)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.True(t, cfg.SmartSearch)
	assert.True(t, cfg.AddTags)
	assert.True(t, cfg.DownloadCovers)
	assert.Equal(t, "/music", cfg.OutputDir)
}

func TestToTagConfigAndPlaylist(t *testing.T) {
	s := DefaultSettings()
	s.Metadata.DownloadCovers = true
	s.Metadata.CoverMaxSize = 300
	s.Export.PlaylistFormat = "pls"

	tags := s.ToTagConfig()
	assert.True(t, tags.EmbedCover)
	assert.Equal(t, 300, tags.CoverMaxSize)
	assert.Equal(t, audio.TagModify, tags.Artist)

	assert.Equal(t, audio.FormatPLS, s.ToPlaylistCreator().Format())
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, "config.yaml", filepath.Base(DefaultPath()))
	assert.Equal(t, appName, filepath.Base(filepath.Dir(DefaultPath())))
}
