package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/handiism/tunegrab/internal/audio"
	"github.com/handiism/tunegrab/internal/download"
)

const appName = "tunegrab"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid settings")

// Supported MP3 bitrates in kbps.
var validQualities = []int{128, 192, 256, 320}

// Settings holds all configuration options.
type Settings struct {
	Download DownloadSettings `yaml:"download"`
	Paths    PathSettings     `yaml:"paths"`
	Metadata MetadataSettings `yaml:"metadata"`
	History  HistorySettings  `yaml:"history"`
	Export   ExportSettings   `yaml:"export"`
	YTDLP    YTDLPSettings    `yaml:"ytdlp"`
}

// DownloadSettings configures the download engine. Durations are in
// seconds to keep the file easy to edit by hand.
type DownloadSettings struct {
	Threads       int     `yaml:"threads"`
	Pause         float64 `yaml:"pause"`
	RetryAttempts int     `yaml:"retry_attempts"`
	RetryDelay    float64 `yaml:"retry_delay"`
	Quality       int     `yaml:"quality"`
	MaxDuration   int     `yaml:"max_duration"`
	Timeout       int     `yaml:"timeout"`
	SmartSearch   bool    `yaml:"smart_search"`
}

// PathSettings holds file system locations.
type PathSettings struct {
	Output    string `yaml:"output"`
	FailedLog string `yaml:"failed_log"`
	LogFile   string `yaml:"log_file"`
}

// MetadataSettings controls tagging.
type MetadataSettings struct {
	AddTags        bool `yaml:"add_tags"`
	DownloadCovers bool `yaml:"download_covers"`
	CoverMaxSize   int  `yaml:"cover_max_size"`
}

// HistorySettings selects where download history is kept.
type HistorySettings struct {
	// Backend is one of "bolt", "redis" or "none".
	Backend       string        `yaml:"backend"`
	Path          string        `yaml:"path"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
}

// ExportSettings controls playlist export after a batch.
type ExportSettings struct {
	CreatePlaylist bool   `yaml:"create_playlist"`
	PlaylistFormat string `yaml:"playlist_format"` // m3u, pls, wpl, zpl
	PlaylistName   string `yaml:"playlist_name"`
	M3UExtended    bool   `yaml:"m3u_extended"`
}

// YTDLPSettings locates the yt-dlp binary.
type YTDLPSettings struct {
	Binary    string   `yaml:"binary"`
	ExtraArgs []string `yaml:"extra_args,omitempty"`
}

// DefaultPath returns the settings file location under the XDG config home.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	music := xdg.UserDirs.Music
	if music == "" {
		homeDir, _ := os.UserHomeDir()
		music = filepath.Join(homeDir, "Music")
	}
	dataDir := filepath.Join(xdg.DataHome, appName)

	return &Settings{
		Download: DownloadSettings{
			Threads:       4,
			Pause:         0.5,
			RetryAttempts: 3,
			RetryDelay:    5,
			Quality:       320,
			MaxDuration:   600,
			Timeout:       30,
			SmartSearch:   true,
		},
		Paths: PathSettings{
			Output:    filepath.Join(music, appName),
			FailedLog: filepath.Join(dataDir, "failed_tracks.txt"),
			LogFile:   filepath.Join(xdg.StateHome, appName, "debug.log"),
		},
		Metadata: MetadataSettings{
			AddTags:        true,
			DownloadCovers: false,
			CoverMaxSize:   500,
		},
		History: HistorySettings{
			Backend:   "bolt",
			Path:      filepath.Join(dataDir, "history.db"),
			RedisAddr: "localhost:6379",
		},
		Export: ExportSettings{
			CreatePlaylist: false,
			PlaylistFormat: "m3u",
			PlaylistName:   appName,
			M3UExtended:    true,
		},
		YTDLP: YTDLPSettings{
			Binary: "yt-dlp",
		},
	}
}

// Load reads settings from a YAML file. Keys missing from the file keep
// their default values; a missing or empty file yields the defaults.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a YAML file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate checks every value against its documented range and reports
// all violations at once.
func (s *Settings) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	d := s.Download
	check(d.Threads >= 1 && d.Threads <= 15, "download.threads must be in [1, 15], got %d", d.Threads)
	check(d.Pause >= 0 && d.Pause <= 10, "download.pause must be in [0, 10], got %g", d.Pause)
	check(d.RetryAttempts >= 0 && d.RetryAttempts <= 10, "download.retry_attempts must be in [0, 10], got %d", d.RetryAttempts)
	check(d.RetryDelay >= 0 && d.RetryDelay <= 60, "download.retry_delay must be in [0, 60], got %g", d.RetryDelay)
	check(slices.Contains(validQualities, d.Quality), "download.quality must be one of %v, got %d", validQualities, d.Quality)
	check(d.MaxDuration >= 60 && d.MaxDuration <= 3600, "download.max_duration must be in [60, 3600], got %d", d.MaxDuration)
	check(d.Timeout >= 5 && d.Timeout <= 120, "download.timeout must be in [5, 120], got %d", d.Timeout)

	check(s.Paths.Output != "", "paths.output must not be empty")
	check(s.Metadata.CoverMaxSize >= 0, "metadata.cover_max_size must not be negative")

	switch s.History.Backend {
	case "bolt":
		check(s.History.Path != "", "history.path must not be empty for the bolt backend")
	case "redis":
		check(s.History.RedisAddr != "", "history.redis_addr must not be empty for the redis backend")
	case "none":
	default:
		check(false, "history.backend must be bolt, redis or none, got %q", s.History.Backend)
	}
	check(s.History.TTL >= 0, "history.ttl must not be negative")

	_, err := audio.ParsePlaylistFormat(s.Export.PlaylistFormat)
	check(err == nil, "export.playlist_format must be m3u, pls, wpl or zpl, got %q", s.Export.PlaylistFormat)

	return errors.Join(errs...)
}

// ToEngineConfig converts settings to the download engine configuration.
func (s *Settings) ToEngineConfig() download.Config {
	d := s.Download
	return download.Config{
		Workers:        d.Threads,
		Pause:          seconds(d.Pause),
		RetryAttempts:  d.RetryAttempts,
		RetryDelay:     seconds(d.RetryDelay),
		BitrateKbps:    d.Quality,
		MaxDuration:    time.Duration(d.MaxDuration) * time.Second,
		Timeout:        time.Duration(d.Timeout) * time.Second,
		SmartSearch:    d.SmartSearch,
		AddTags:        s.Metadata.AddTags,
		DownloadCovers: s.Metadata.DownloadCovers,
		OutputDir:      s.Paths.Output,
	}
}

// ToTagConfig converts settings to the tagger configuration.
func (s *Settings) ToTagConfig() *audio.TagConfig {
	cfg := audio.DefaultTagConfig()
	cfg.EmbedCover = s.Metadata.DownloadCovers
	cfg.CoverMaxSize = s.Metadata.CoverMaxSize
	return cfg
}

// ToPlaylistCreator returns the playlist writer for the export settings.
func (s *Settings) ToPlaylistCreator() *audio.PlaylistCreator {
	format, _ := audio.ParsePlaylistFormat(s.Export.PlaylistFormat)
	return audio.NewPlaylistCreator(format, s.Export.M3UExtended)
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
