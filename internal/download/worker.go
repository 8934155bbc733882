package download

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	ioutils "github.com/handiism/tunegrab/internal/io"
	"github.com/handiism/tunegrab/internal/logger"
	"github.com/handiism/tunegrab/internal/model"
	"github.com/handiism/tunegrab/internal/search"
)

// TargetPath returns the file a track is stored in under outputDir.
func TargetPath(outputDir string, track model.Track) string {
	return filepath.Join(outputDir, baseName(track)) + ".mp3"
}

func baseName(track model.Track) string {
	if name := track.FileName(); name != "" {
		return name
	}
	return ioutils.SanitizeFileName(track.Query)
}

// processTrack runs one track through skip check, query ladder, tagging
// and throttle. It never returns a non-terminal outcome.
func (e *Engine) processTrack(ctx context.Context, run *runState, track model.Track) model.Outcome {
	outcome := model.NewOutcome(track)

	base := filepath.Join(e.cfg.OutputDir, baseName(track))
	target := base + ".mp3"

	// Skipping must not depend on the stop flag: a stopped re-run still
	// reports files it already has.
	if _, ok := ioutils.FileReady(target); ok {
		outcome.Status = model.StatusSkipped
		return outcome
	}

	queries := []string{track.Query}
	if e.cfg.SmartSearch && !track.IsURL() {
		queries = search.GenerateQueries(track.Artist, track.Title, true)
	}

	template := base + ".%(ext)s"
	opts := e.cfg.fetchOptions()

	var lastErr error
	for _, query := range queries {
		if run.stopped.Load() {
			return abandon(outcome)
		}

		for attempt := 1; attempt <= e.cfg.RetryAttempts; attempt++ {
			if run.stopped.Load() {
				return abandon(outcome)
			}

			outcome.Attempts++
			_, err := e.fetcher.Fetch(ctx, query, template, opts)
			if err == nil {
				if _, ok := ioutils.FileReady(target); ok {
					return e.finish(run, outcome, target)
				}
				err = ErrNoOutput
			}

			lastErr = err
			logger.Debugf("Attempt %d/%d for %q (%s) failed: %v", attempt, e.cfg.RetryAttempts, query, track.Query, err)

			if attempt < e.cfg.RetryAttempts {
				e.progress(ProgressEvent{
					Message: fmt.Sprintf("Retry %d/%d for %s", attempt+1, e.cfg.RetryAttempts, query),
					Level:   LevelWarning,
				})
				e.sleep(run, e.cfg.RetryDelay*time.Duration(attempt))
			}
		}
	}

	if lastErr == nil {
		lastErr = ErrNoAttempts
	}

	outcome.Status = model.StatusFailed
	outcome.LastError = lastErr.Error()
	return outcome
}

// finish tags a freshly fetched file, records its final size and applies
// the inter-track pause.
func (e *Engine) finish(run *runState, outcome model.Outcome, path string) model.Outcome {
	if e.cfg.AddTags && e.tagger != nil && outcome.Artist != "" {
		if err := e.tagger.WriteTags(path, outcome.Artist, outcome.Title); err != nil {
			logger.Warnf("Failed to tag %s: %v", path, err)
			e.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging %s: %v", filepath.Base(path), err), Level: LevelWarning})
		}
	}

	// Tagging rewrites the file, so the size is taken afterwards.
	size, ok := ioutils.FileReady(path)
	if !ok {
		outcome.Status = model.StatusFailed
		outcome.LastError = ErrNoOutput.Error()
		return outcome
	}

	outcome.Status = model.StatusSuccess
	outcome.FilePath = path
	outcome.FileSize = size

	e.sleep(run, e.cfg.Pause)
	return outcome
}

func abandon(outcome model.Outcome) model.Outcome {
	outcome.Status = model.StatusFailed
	outcome.LastError = ErrStopped.Error()
	return outcome
}

// sleep waits for d or until the batch is stopped.
func (e *Engine) sleep(run *runState, d time.Duration) {
	if d <= 0 {
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-run.done:
	case <-timer.C:
	}
}
