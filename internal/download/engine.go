package download

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	ioutils "github.com/handiism/tunegrab/internal/io"
	"github.com/handiism/tunegrab/internal/logger"
	"github.com/handiism/tunegrab/internal/model"
)

// Engine downloads batches of tracks over a bounded worker pool.
//
// An Engine runs one batch at a time but may be reused for consecutive
// batches, e.g. a retry of the failures of the previous one.
type Engine struct {
	cfg        Config
	fetcher    Fetcher
	tagger     Tagger
	history    HistorySink
	onProgress func(ProgressEvent)

	mu      sync.Mutex
	agg     model.AggregateResult
	started time.Time
	run     *runState
}

// Option configures optional Engine collaborators.
type Option func(*Engine)

// WithTagger sets the tag writer used when Config.AddTags is on.
func WithTagger(t Tagger) Option {
	return func(e *Engine) { e.tagger = t }
}

// WithHistory sets the sink receiving every outcome.
func WithHistory(h HistorySink) Option {
	return func(e *Engine) { e.history = h }
}

// WithProgress sets the progress callback. It is called from worker
// goroutines and from the collector, so it must be safe for concurrent use.
func WithProgress(fn func(ProgressEvent)) Option {
	return func(e *Engine) { e.onProgress = fn }
}

// NewEngine creates a new Engine.
func NewEngine(cfg Config, fetcher Fetcher, opts ...Option) *Engine {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	e := &Engine{
		cfg:     cfg,
		fetcher: fetcher,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// runState is the one-shot stop flag of a single batch.
type runState struct {
	stopped atomic.Bool
	once    sync.Once
	done    chan struct{}
}

func newRunState() *runState {
	return &runState{done: make(chan struct{})}
}

func (r *runState) stop() {
	r.once.Do(func() {
		r.stopped.Store(true)
		close(r.done)
	})
}

// DownloadPlaylist processes every track and returns the batch summary.
//
// Only a failure to create the output directory or a concurrent call is
// returned as an error; per-track failures are reported in the result.
// Cancelling ctx has the same effect as Stop.
func (e *Engine) DownloadPlaylist(ctx context.Context, tracks []model.Track) (model.AggregateResult, error) {
	if err := ioutils.EnsureDir(e.cfg.OutputDir); err != nil {
		return model.AggregateResult{}, fmt.Errorf("create output directory %s: %w", e.cfg.OutputDir, err)
	}

	run := newRunState()

	e.mu.Lock()
	if e.run != nil {
		e.mu.Unlock()
		return model.AggregateResult{}, ErrAlreadyRunning
	}
	e.run = run
	e.agg = model.AggregateResult{TotalCount: len(tracks)}
	e.started = time.Now()
	e.mu.Unlock()

	stopOnCancel := context.AfterFunc(ctx, run.stop)
	defer stopOnCancel()
	if ctx.Err() != nil {
		run.stop()
	}

	// In-flight fetches and history writes are never preempted.
	workCtx := context.WithoutCancel(ctx)

	logger.Infof("Starting batch of %d tracks with %d workers", len(tracks), e.cfg.Workers)

	results := make(chan model.Outcome, len(tracks))
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for outcome := range results {
			e.collect(workCtx, outcome)
		}
	}()

	var g errgroup.Group
	g.SetLimit(e.cfg.Workers)

	for _, track := range tracks {
		g.Go(func() error {
			results <- e.processTrack(workCtx, run, track)
			return nil
		})
	}

	_ = g.Wait()
	close(results)
	<-collected

	e.mu.Lock()
	e.agg.Elapsed = time.Since(e.started)
	result := e.agg.Clone()
	e.run = nil
	e.mu.Unlock()

	logger.Infof("Batch finished: %d ok, %d failed, %d skipped in %s",
		result.SuccessCount, result.FailedCount, result.SkippedCount, result.Elapsed)

	return result, nil
}

// Stop asks the running batch to finish early. It is safe to call from any
// goroutine, any number of times, and is a no-op when no batch is running.
func (e *Engine) Stop() {
	e.mu.Lock()
	run := e.run
	e.mu.Unlock()

	if run != nil {
		run.stop()
	}
}

// Stopping reports whether the running batch has been asked to stop.
func (e *Engine) Stopping() bool {
	e.mu.Lock()
	run := e.run
	e.mu.Unlock()

	return run != nil && run.stopped.Load()
}

// Snapshot returns a copy of the running aggregate. Elapsed is measured up
// to now while a batch is running.
func (e *Engine) Snapshot() model.AggregateResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := e.agg.Clone()
	if e.run != nil {
		snap.Elapsed = time.Since(e.started)
	}
	return snap
}

// collect folds one outcome into the aggregate and forwards it to the
// history sink. It runs on the single collector goroutine.
func (e *Engine) collect(ctx context.Context, outcome model.Outcome) {
	e.mu.Lock()
	e.agg.Add(outcome)
	e.mu.Unlock()

	if e.history != nil {
		if err := e.history.Record(ctx, outcome); err != nil {
			logger.Warnf("Failed to record history for %s: %v", outcome.Query, err)
			e.progress(ProgressEvent{Message: fmt.Sprintf("History not saved for %s: %v", outcome.Query, err), Level: LevelWarning})
		}
	}

	e.progress(outcomeEvent(outcome))
}

func outcomeEvent(outcome model.Outcome) ProgressEvent {
	event := ProgressEvent{Outcome: &outcome}

	switch outcome.Status {
	case model.StatusSuccess:
		event.Level = LevelSuccess
		event.Message = fmt.Sprintf("Downloaded: %s", outcome.Query)
		if outcome.Attempts > 1 {
			event.Message += fmt.Sprintf(" (%d attempts)", outcome.Attempts)
		}
	case model.StatusSkipped:
		event.Level = LevelVerbose
		event.Message = fmt.Sprintf("Skipping existing: %s", outcome.Query)
	default:
		event.Level = LevelError
		event.Message = fmt.Sprintf("Failed: %s", outcome.Query)
		if outcome.LastError != "" {
			event.Message += ": " + outcome.LastError
		}
	}

	return event
}

func (e *Engine) progress(event ProgressEvent) {
	if e.onProgress != nil {
		e.onProgress(event)
	}
}
