package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	ioutils "github.com/handiism/tunegrab/internal/io"
	"github.com/handiism/tunegrab/internal/logger"
	"github.com/handiism/tunegrab/internal/model"
)

var (
	// ErrBinaryNotFound indicates the configured yt-dlp binary was not found.
	ErrBinaryNotFound = errors.New("yt-dlp binary not found")

	// ErrNoMatch means yt-dlp finished without producing a file, typically
	// because every candidate was rejected by the duration filter.
	ErrNoMatch = errors.New("no matching media")
)

const extPlaceholder = "%(ext)s"

// YTDLP fetches audio by running the yt-dlp command line program.
type YTDLP struct {
	binary    string
	extraArgs []string
}

// NewYTDLP creates a fetcher for the given binary, "yt-dlp" when empty.
// extraArgs are inserted before the query on every invocation.
func NewYTDLP(binary string, extraArgs ...string) *YTDLP {
	if strings.TrimSpace(binary) == "" {
		binary = "yt-dlp"
	}
	return &YTDLP{binary: binary, extraArgs: extraArgs}
}

// Available reports whether the binary can be found.
func (y *YTDLP) Available() error {
	if _, err := exec.LookPath(y.binary); err != nil {
		return ErrBinaryNotFound
	}
	return nil
}

// Fetch downloads the best audio for query and converts it to MP3 at the
// path obtained by substituting "mp3" into outputTemplate.
func (y *YTDLP) Fetch(ctx context.Context, query, outputTemplate string, opts model.FetchOptions) (string, error) {
	if err := y.Available(); err != nil {
		return "", err
	}

	args := y.fetchArgs(query, outputTemplate, opts)
	logger.Debugf("Running %s %s", y.binary, strings.Join(args, " "))

	if _, err := y.run(ctx, args); err != nil {
		return "", err
	}

	path := strings.Replace(outputTemplate, extPlaceholder, "mp3", 1)
	if _, ok := ioutils.FileReady(path); !ok {
		return "", fmt.Errorf("%w for %q", ErrNoMatch, query)
	}

	return path, nil
}

func (y *YTDLP) fetchArgs(query, outputTemplate string, opts model.FetchOptions) []string {
	args := []string{
		"--format", "bestaudio/best",
		"--extract-audio",
		"--audio-format", "mp3",
		"--output", outputTemplate,
		"--no-playlist",
		"--quiet",
		"--no-warnings",
		"--no-progress",
		"--force-overwrites",
		"--retries", "3",
		"--fragment-retries", "3",
		"--extractor-retries", "3",
		"--default-search", "ytsearch1",
	}

	if opts.BitrateKbps > 0 {
		args = append(args, "--audio-quality", strconv.Itoa(opts.BitrateKbps)+"K")
	}
	if secs := int(opts.Timeout.Seconds()); secs > 0 {
		args = append(args, "--socket-timeout", strconv.Itoa(secs))
	}
	if secs := int(opts.MaxDuration.Seconds()); secs > 0 {
		args = append(args, "--match-filter", fmt.Sprintf("duration < %d", secs))
	}
	if opts.WriteThumbnail {
		args = append(args, "--write-thumbnail", "--convert-thumbnails", "jpg")
	}

	args = append(args, y.extraArgs...)
	// "--" keeps queries starting with a dash from being parsed as flags.
	return append(args, "--", query)
}

// run executes yt-dlp and returns its stdout. A non-zero exit is reported
// with the last line yt-dlp wrote to stderr.
func (y *YTDLP) run(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, y.binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := lastLine(stderr.String()); msg != "" {
			return nil, fmt.Errorf("yt-dlp: %s: %w", msg, err)
		}
		return nil, fmt.Errorf("yt-dlp: %w", err)
	}

	return stdout.Bytes(), nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
