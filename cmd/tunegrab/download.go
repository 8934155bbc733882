package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/handiism/tunegrab/internal/audio"
	"github.com/handiism/tunegrab/internal/download"
	"github.com/handiism/tunegrab/internal/history"
	ioutils "github.com/handiism/tunegrab/internal/io"
	"github.com/handiism/tunegrab/internal/logger"
	"github.com/handiism/tunegrab/internal/model"
	"github.com/handiism/tunegrab/internal/tracklist"
	"github.com/handiism/tunegrab/internal/tui"
)

// download runs every track listed in path.
func (a *app) download(ctx context.Context, path string) error {
	tracks, err := tracklist.ParseFile(path)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		fmt.Fprintf(a.out, "No tracks found in %s\n", path)
		return nil
	}

	return a.downloadTracks(ctx, filepath.Base(path), tracks)
}

// retry runs the tracks whose latest recorded status is failed.
func (a *app) retry(ctx context.Context) error {
	tracks, err := a.store.FailedTracks(ctx)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if len(tracks) == 0 {
		fmt.Fprintln(a.out, "No failed tracks to retry.")
		return nil
	}

	return a.downloadTracks(ctx, "retry", tracks)
}

// downloadTracks confirms, runs and reports one batch, then offers to retry
// its failures.
func (a *app) downloadTracks(ctx context.Context, source string, tracks []model.Track) error {
	if err := a.fetcher.Available(); err != nil {
		return err
	}

	outputDir := a.settings.Paths.Output
	newCount := countNew(outputDir, tracks)

	fmt.Fprintf(a.out, "Found %d tracks, %d new\n", len(tracks), newCount)
	fmt.Fprintf(a.out, "Download path: %s\n", outputDir)
	if newCount == 0 {
		fmt.Fprintln(a.out, "Everything is already downloaded.")
		return nil
	}

	ok, err := a.confirm(fmt.Sprintf("Download %d new tracks?", newCount), true)
	if err != nil || !ok {
		return err
	}

	for {
		startedAt := time.Now()
		result, err := a.runBatch(ctx, source, tracks, newCount)
		if errors.Is(err, tui.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}

		a.report(ctx, source, tracks, result, startedAt)

		if a.interrupted.Load() {
			return errInterrupted
		}
		if result.FailedCount == 0 {
			return nil
		}

		ok, err := a.confirm(fmt.Sprintf("Retry %d failed tracks?", result.FailedCount), false)
		if err != nil || !ok {
			return err
		}

		tracks = failedTracks(tracks, result.FailedQueries)
		newCount = len(tracks)
		source = "retry"
	}
}

// report prints the summary and persists session, failed log and playlist.
func (a *app) report(ctx context.Context, source string, tracks []model.Track, result model.AggregateResult, startedAt time.Time) {
	printSummary(a.out, result)

	// The session is saved even when the batch was interrupted.
	ctx = context.WithoutCancel(ctx)

	session := history.NewSession(source, result, startedAt)
	if err := a.store.RecordSession(ctx, session); err != nil {
		logger.Warnf("Failed to record session: %v", err)
	}

	if result.FailedCount > 0 {
		failedLog := a.settings.Paths.FailedLog
		if err := tracklist.WriteFailedLog(failedLog, result.FailedQueries); err != nil {
			fmt.Fprintf(os.Stderr, "Could not write failed log: %v\n", err)
		} else {
			fmt.Fprintf(a.out, "Failed tracks saved to %s\n", failedLog)
		}
	}

	if a.settings.Export.CreatePlaylist {
		path, err := exportPlaylist(a.settings.Paths.Output, a.settings.Export.PlaylistName, a.settings.ToPlaylistCreator(), tracks)
		switch {
		case err != nil:
			fmt.Fprintf(os.Stderr, "Could not write playlist: %v\n", err)
		case path != "":
			fmt.Fprintf(a.out, "Playlist saved to %s\n", path)
		}
	}
}

// countNew returns how many tracks are not yet on disk.
func countNew(outputDir string, tracks []model.Track) int {
	n := 0
	for _, t := range tracks {
		if _, ok := ioutils.FileReady(download.TargetPath(outputDir, t)); !ok {
			n++
		}
	}
	return n
}

// failedTracks returns the tracks whose query failed, keeping their order.
// Tracks sharing a query are returned once per failure.
func failedTracks(tracks []model.Track, failed []string) []model.Track {
	remaining := make(map[string]int, len(failed))
	for _, q := range failed {
		remaining[q]++
	}

	var out []model.Track
	for _, t := range tracks {
		if remaining[t.Query] > 0 {
			out = append(out, t)
			remaining[t.Query]--
		}
	}
	return out
}

// exportPlaylist writes a playlist of the tracks present on disk into
// outputDir. It returns an empty path when no track is present.
func exportPlaylist(outputDir, name string, creator *audio.PlaylistCreator, tracks []model.Track) (string, error) {
	var entries []audio.PlaylistEntry
	for _, t := range tracks {
		path := download.TargetPath(outputDir, t)
		if _, ok := ioutils.FileReady(path); !ok {
			continue
		}
		entries = append(entries, audio.PlaylistEntry{
			Path:   filepath.Base(path),
			Artist: t.Artist,
			Title:  t.Title,
		})
	}
	if len(entries) == 0 {
		return "", nil
	}

	playlistPath := filepath.Join(outputDir, ioutils.SanitizeFileName(name)+creator.Format().Extension())
	content := creator.CreatePlaylist(name, entries)
	if err := os.WriteFile(playlistPath, []byte(content), 0o644); err != nil {
		return "", err
	}
	return playlistPath, nil
}

func printSummary(out io.Writer, result model.AggregateResult) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Downloaded", "Failed", "Skipped", "Retried", "Size", "Time"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.Append([]string{
		strconv.Itoa(result.SuccessCount),
		strconv.Itoa(result.FailedCount),
		strconv.Itoa(result.SkippedCount),
		strconv.Itoa(result.RetriedCount),
		tui.FormatSize(result.TotalSize),
		tui.FormatElapsed(result.Elapsed),
	})
	fmt.Fprintln(out)
	table.Render()
}
