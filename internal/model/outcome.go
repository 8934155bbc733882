package model

import (
	"time"
)

// Status is the terminal state of one processed track.
type Status string

const (
	// StatusSuccess means the file was fetched and is present on disk.
	StatusSuccess Status = "success"

	// StatusSkipped means the target file already existed before the run.
	StatusSkipped Status = "skipped"

	// StatusFailed means every query of the fallback ladder was exhausted,
	// or the run was stopped before the track could finish.
	StatusFailed Status = "failed"
)

// Outcome is the terminal result of processing exactly one Track.
//
// FilePath is non-empty and FileSize is positive if and only if Status is
// StatusSuccess. Attempts counts fetch invocations across all queries.
type Outcome struct {
	Query     string `json:"query"`
	Artist    string `json:"artist"`
	Title     string `json:"title"`
	Status    Status `json:"status"`
	Attempts  int    `json:"attempts"`
	FilePath  string `json:"file_path,omitempty"`
	FileSize  int64  `json:"file_size,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

// NewOutcome starts an outcome for the given track. The status is set by
// the worker once the track reaches a terminal state.
func NewOutcome(t Track) Outcome {
	return Outcome{
		Query:  t.Query,
		Artist: t.Artist,
		Title:  t.Title,
	}
}

// Track returns the track this outcome was produced for.
func (o Outcome) Track() Track {
	return Track{Query: o.Query, Artist: o.Artist, Title: o.Title}
}

// AggregateResult summarizes a whole batch.
//
// RetriedCount counts successful tracks that needed more than one attempt;
// it is not the total number of retries. FailedQueries is in completion
// order, not input order.
type AggregateResult struct {
	SuccessCount  int
	FailedCount   int
	SkippedCount  int
	RetriedCount  int
	TotalCount    int
	Elapsed       time.Duration
	TotalSize     int64
	FailedQueries []string
}

// Processed returns the number of tracks that reached a terminal outcome.
func (r AggregateResult) Processed() int {
	return r.SuccessCount + r.FailedCount + r.SkippedCount
}

// Add folds one outcome into the aggregate.
func (r *AggregateResult) Add(o Outcome) {
	switch o.Status {
	case StatusSuccess:
		r.SuccessCount++
		r.TotalSize += o.FileSize
		if o.Attempts > 1 {
			r.RetriedCount++
		}
	case StatusSkipped:
		r.SkippedCount++
	default:
		r.FailedCount++
		r.FailedQueries = append(r.FailedQueries, o.Query)
	}
}

// Clone returns a deep copy safe to hand to other goroutines.
func (r AggregateResult) Clone() AggregateResult {
	c := r
	if r.FailedQueries != nil {
		c.FailedQueries = make([]string, len(r.FailedQueries))
		copy(c.FailedQueries, r.FailedQueries)
	}
	return c
}

// FetchOptions are the per-call knobs handed to the media fetcher.
type FetchOptions struct {
	// BitrateKbps is the target MP3 bitrate.
	BitrateKbps int

	// MaxDuration rejects candidates longer than this.
	MaxDuration time.Duration

	// Timeout bounds network operations of a single fetch.
	Timeout time.Duration

	// WriteThumbnail asks the fetcher to leave a cover thumbnail next to
	// the audio file.
	WriteThumbnail bool
}
