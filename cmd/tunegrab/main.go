package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/pflag"

	"github.com/handiism/tunegrab/internal/config"
	"github.com/handiism/tunegrab/internal/logger"
)

const usage = `tunegrab - download a playlist of tracks as MP3

Usage:
  tunegrab download <file> [options]   Download every track listed in file
  tunegrab retry [options]             Retry tracks that failed last time
  tunegrab search <query> [options]    Pick a search result and download it
  tunegrab stats                       Show download statistics
  tunegrab config show|path|reset      Inspect or reset the settings file

Options:
`

// flags holds command line overrides.
type flags struct {
	configPath string
	output     string
	workers    int
	retries    int
	noSmart    bool
	playlist   bool
	tui        bool
	yes        bool
	verbose    bool
	debug      bool
}

func main() {
	os.Exit(run())
}

func run() int {
	var f flags
	pflag.StringVarP(&f.configPath, "config", "c", config.DefaultPath(), "Path to config file")
	pflag.StringVarP(&f.output, "output", "o", "", "Output directory (overrides config)")
	pflag.IntVarP(&f.workers, "workers", "w", 0, "Number of parallel downloads (overrides config)")
	pflag.IntVar(&f.retries, "retries", -1, "Attempts per search query (overrides config)")
	pflag.BoolVar(&f.noSmart, "no-smart-search", false, "Only try the literal query")
	pflag.BoolVar(&f.playlist, "playlist", false, "Export a playlist after downloading")
	pflag.BoolVar(&f.tui, "tui", false, "Show progress in an interactive terminal UI")
	pflag.BoolVarP(&f.yes, "yes", "y", false, "Answer yes to every prompt")
	pflag.BoolVarP(&f.verbose, "verbose", "v", false, "Show skipped tracks and other details")
	pflag.BoolVar(&f.debug, "debug", false, "Write a debug log")
	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		pflag.PrintDefaults()
	}
	pflag.Parse()

	args := pflag.Args()
	if len(args) == 0 {
		pflag.Usage()
		return 2
	}

	if args[0] == "config" {
		return exitCode(configCommand(f, args[1:]))
	}

	settings, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}
	if err := applyFlags(settings, f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if err := logger.InitLogging(f.debug, settings.Paths.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, cancel, settings, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	go a.handleSignals()

	switch args[0] {
	case "download":
		if len(args) != 2 {
			pflag.Usage()
			return 2
		}
		err = a.download(ctx, args[1])
	case "retry":
		err = a.retry(ctx)
	case "search":
		if len(args) < 2 {
			pflag.Usage()
			return 2
		}
		err = a.search(ctx, joinArgs(args[1:]))
	case "stats":
		err = a.stats(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", args[0])
		pflag.Usage()
		return 2
	}

	return exitCode(err)
}

// applyFlags overlays command line overrides and revalidates.
func applyFlags(s *config.Settings, f flags) error {
	if f.output != "" {
		s.Paths.Output = f.output
	}
	if f.workers > 0 {
		s.Download.Threads = f.workers
	}
	if f.retries >= 0 {
		s.Download.RetryAttempts = f.retries
	}
	if f.noSmart {
		s.Download.SmartSearch = false
	}
	if f.playlist {
		s.Export.CreatePlaylist = true
	}
	return s.Validate()
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, terminal.InterruptErr), errors.Is(err, errInterrupted):
		fmt.Fprintln(os.Stderr, "\nInterrupted.")
		return 130
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
}

// handleSignals stops the running batch on the first signal and exits on
// the second.
func (a *app) handleSignals() {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	<-sigCh
	a.interrupt()
	fmt.Fprintln(os.Stderr, "\nStopping after in-flight downloads finish... (press Ctrl+C again to quit)")

	<-sigCh
	fmt.Fprintln(os.Stderr, "\nInterrupted, exiting.")
	logger.Close()
	os.Exit(130)
}
