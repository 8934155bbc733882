package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/handiism/tunegrab/internal/model"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown history backend")

// Record is the stored outcome of the latest fetch of one query. Skips only
// create a record when none exists.
type Record struct {
	Query     string       `json:"query"`
	Artist    string       `json:"artist"`
	Title     string       `json:"title"`
	Status    model.Status `json:"status"`
	Attempts  int          `json:"attempts"`
	FilePath  string       `json:"file_path,omitempty"`
	FileSize  int64        `json:"file_size,omitempty"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func newRecord(o model.Outcome, now time.Time) Record {
	return Record{
		Query:     o.Query,
		Artist:    o.Artist,
		Title:     o.Title,
		Status:    o.Status,
		Attempts:  o.Attempts,
		FilePath:  o.FilePath,
		FileSize:  o.FileSize,
		UpdatedAt: now,
	}
}

// Session summarizes one batch.
type Session struct {
	ID        uuid.UUID     `json:"id"`
	Source    string        `json:"source"`
	Total     int           `json:"total"`
	Success   int           `json:"success"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	TotalSize int64         `json:"total_size"`
	Elapsed   time.Duration `json:"elapsed"`
	StartedAt time.Time     `json:"started_at"`
}

// NewSession builds a session from a finished batch. source names the
// track list, e.g. the playlist file.
func NewSession(source string, result model.AggregateResult, startedAt time.Time) Session {
	return Session{
		ID:        uuid.New(),
		Source:    source,
		Total:     result.TotalCount,
		Success:   result.SuccessCount,
		Failed:    result.FailedCount,
		Skipped:   result.SkippedCount,
		TotalSize: result.TotalSize,
		Elapsed:   result.Elapsed,
		StartedAt: startedAt,
	}
}

// Store persists history. Record satisfies download.HistorySink.
type Store interface {
	Record(ctx context.Context, outcome model.Outcome) error
	RecordSession(ctx context.Context, session Session) error
	FailedTracks(ctx context.Context) ([]model.Track, error)
	Stats(ctx context.Context, now time.Time) (Stats, error)
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	// Backend is "bolt", "redis" or "none".
	Backend string

	// Path is the bbolt database file.
	Path string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// TTL expires redis records; zero keeps them forever.
	TTL time.Duration
}

// Open opens the configured backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", "bolt":
		return NewBoltStore(opts.Path)
	case "redis":
		return NewRedisStore(ctx, opts)
	case "none":
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// NopStore discards all history.
type NopStore struct{}

func (NopStore) Record(context.Context, model.Outcome) error        { return nil }
func (NopStore) RecordSession(context.Context, Session) error       { return nil }
func (NopStore) FailedTracks(context.Context) ([]model.Track, error) { return nil, nil }
func (NopStore) Close() error                                       { return nil }

func (NopStore) Stats(_ context.Context, now time.Time) (Stats, error) {
	return computeStats(nil, nil, now), nil
}

func failedTracks(records []Record) []model.Track {
	var tracks []model.Track
	for _, r := range records {
		if r.Status == model.StatusFailed {
			tracks = append(tracks, model.Track{Query: r.Query, Artist: r.Artist, Title: r.Title})
		}
	}
	return tracks
}
