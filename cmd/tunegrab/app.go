package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/AlecAivazis/survey/v2"
	"github.com/schollz/progressbar/v3"

	"github.com/handiism/tunegrab/internal/audio"
	"github.com/handiism/tunegrab/internal/config"
	"github.com/handiism/tunegrab/internal/download"
	"github.com/handiism/tunegrab/internal/history"
	"github.com/handiism/tunegrab/internal/logger"
	"github.com/handiism/tunegrab/internal/media"
	"github.com/handiism/tunegrab/internal/model"
	"github.com/handiism/tunegrab/internal/tui"
)

var errInterrupted = errors.New("interrupted")

// app wires settings to the engine and its collaborators.
type app struct {
	settings *config.Settings
	flags    flags
	store    history.Store
	fetcher  *media.YTDLP
	tagger   *audio.Tagger
	out      io.Writer

	// cancel ends the command context so a signal arriving before the
	// engine starts still stops the batch.
	cancel context.CancelFunc

	engine      atomic.Pointer[download.Engine]
	interrupted atomic.Bool
}

func newApp(ctx context.Context, cancel context.CancelFunc, settings *config.Settings, f flags) (*app, error) {
	h := settings.History
	store, err := history.Open(ctx, history.Options{
		Backend:       h.Backend,
		Path:          h.Path,
		RedisAddr:     h.RedisAddr,
		RedisPassword: h.RedisPassword,
		RedisDB:       h.RedisDB,
		TTL:           h.TTL,
	})
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	return &app{
		settings: settings,
		flags:    f,
		store:    store,
		fetcher:  media.NewYTDLP(settings.YTDLP.Binary, settings.YTDLP.ExtraArgs...),
		tagger:   audio.NewTagger(settings.ToTagConfig()),
		out:      os.Stdout,
		cancel:   cancel,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Warnf("Failed to close history: %v", err)
	}
}

func (a *app) interrupt() {
	a.interrupted.Store(true)
	if a.cancel != nil {
		a.cancel()
	}
	if e := a.engine.Load(); e != nil {
		e.Stop()
	}
}

// runBatch downloads tracks with a fresh engine, rendering progress either
// as a progress bar or through the TUI.
func (a *app) runBatch(ctx context.Context, source string, tracks []model.Track, newCount int) (model.AggregateResult, error) {
	cfg := a.settings.ToEngineConfig()
	opts := []download.Option{download.WithHistory(a.store)}
	if cfg.AddTags {
		opts = append(opts, download.WithTagger(a.tagger))
	}

	if a.flags.tui {
		// Counts come from Snapshot. Events only feed the log pane and
		// are dropped when it lags.
		events := make(chan download.ProgressEvent, 256)
		engine := download.NewEngine(cfg, a.fetcher, append(opts, download.WithProgress(func(e download.ProgressEvent) {
			select {
			case events <- e:
			default:
			}
		}))...)
		a.engine.Store(engine)
		defer a.engine.Store(nil)

		return tui.Run(ctx, engine, tracks, events, tui.Options{
			Title:     source,
			OutputDir: cfg.OutputDir,
			NewTracks: newCount,
			Verbose:   a.flags.verbose,
			AutoStart: true,
		})
	}

	p := newPrinter(a.out, len(tracks), a.flags.verbose)
	engine := download.NewEngine(cfg, a.fetcher, append(opts, download.WithProgress(p.handle))...)
	a.engine.Store(engine)
	defer a.engine.Store(nil)

	result, err := engine.DownloadPlaylist(ctx, tracks)
	p.finish()
	return result, err
}

// confirm asks a yes/no question, answering def when --yes is set.
func (a *app) confirm(message string, def bool) (bool, error) {
	if a.flags.yes {
		return def, nil
	}

	ok := def
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// printer renders engine events above a progress bar.
type printer struct {
	mu      sync.Mutex
	out     io.Writer
	bar     *progressbar.ProgressBar
	verbose bool
}

func newPrinter(out io.Writer, total int, verbose bool) *printer {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Downloading"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
	_ = bar.RenderBlank()

	return &printer{out: out, bar: bar, verbose: verbose}
}

func (p *printer) handle(e download.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if e.Level != download.LevelVerbose || p.verbose {
		_ = p.bar.Clear()
		fmt.Fprintln(p.out, levelPrefix(e.Level)+e.Message)
	}

	if e.Outcome != nil {
		_ = p.bar.Add(1)
	} else {
		_ = p.bar.RenderBlank()
	}
}

func (p *printer) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.bar.Finish()
}

func levelPrefix(level download.ProgressLevel) string {
	switch level {
	case download.LevelError:
		return "✗ "
	case download.LevelWarning:
		return "! "
	case download.LevelSuccess:
		return "✓ "
	case download.LevelInfo:
		return "› "
	default:
		return "  "
	}
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
