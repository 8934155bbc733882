package download

import (
	"time"

	"github.com/handiism/tunegrab/internal/model"
)

// Config holds the engine parameters. Values are validated by the config
// package before they reach the engine.
type Config struct {
	// Workers is the number of tracks processed concurrently.
	Workers int

	// Pause throttles a worker after each successful fetch.
	Pause time.Duration

	// RetryAttempts is the number of attempts per fallback query. Zero
	// means no fetch is ever made and every non-skipped track fails.
	RetryAttempts int

	// RetryDelay is multiplied by the attempt number between retries.
	RetryDelay time.Duration

	BitrateKbps int
	MaxDuration time.Duration
	Timeout     time.Duration

	// SmartSearch enables the fallback query ladder.
	SmartSearch bool

	// AddTags writes artist/title tags to finished files with a known artist.
	AddTags bool

	// DownloadCovers asks the fetcher for a cover thumbnail.
	DownloadCovers bool

	OutputDir string
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Workers:       4,
		Pause:         500 * time.Millisecond,
		RetryAttempts: 3,
		RetryDelay:    5 * time.Second,
		BitrateKbps:   320,
		MaxDuration:   10 * time.Minute,
		Timeout:       30 * time.Second,
		SmartSearch:   true,
		AddTags:       true,
		OutputDir:     "downloads",
	}
}

func (c Config) fetchOptions() model.FetchOptions {
	return model.FetchOptions{
		BitrateKbps:    c.BitrateKbps,
		MaxDuration:    c.MaxDuration,
		Timeout:        c.Timeout,
		WriteThumbnail: c.DownloadCovers,
	}
}
