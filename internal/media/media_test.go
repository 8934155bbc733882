package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/tunegrab/internal/model"
)

// fakeYTDLP stands in for yt-dlp: it records its arguments and writes the
// output file unless the query asks for a failure.
const fakeYTDLP = `#!/bin/sh
dir=$(dirname "$0")
printf '%s\n' "$@" > "$dir/args.txt"
out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "--output" ]; then out="$a"; fi
  prev="$a"
  last="$a"
done
case "$last" in
  *boom*) echo "WARNING: retrying" >&2; echo "ERROR: video unavailable" >&2; exit 1 ;;
  *nomatch*) exit 0 ;;
esac
if [ "$1" = "--dump-json" ]; then
  echo '{"webpage_url":"https://youtu.be/a","title":"Song A","channel":"Chan","duration":185.0,"view_count":1500,"id":"a"}'
  echo '{"webpage_url":"https://youtu.be/b","title":"Song B","uploader":"Up","duration":61,"view_count":0,"id":"b"}'
  exit 0
fi
path=$(printf '%s' "$out" | sed 's/%(ext)s/mp3/')
printf 'audio' > "$path"
`

func installFake(t *testing.T) (*YTDLP, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a POSIX shell")
	}

	dir := t.TempDir()
	bin := filepath.Join(dir, "yt-dlp")
	require.NoError(t, os.WriteFile(bin, []byte(fakeYTDLP), 0o755))

	return NewYTDLP(bin), dir
}

func readArgs(t *testing.T, dir string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "args.txt"))
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestYTDLP_Fetch(t *testing.T) {
	y, dir := installFake(t)
	out := t.TempDir()
	tpl := filepath.Join(out, "Artist - Title.%(ext)s")

	path, err := y.Fetch(context.Background(), "Artist - Title", tpl, model.FetchOptions{
		BitrateKbps:    192,
		MaxDuration:    10 * time.Minute,
		Timeout:        30 * time.Second,
		WriteThumbnail: true,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "Artist - Title.mp3"), path)

	args := readArgs(t, dir)
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "--audio-quality 192K")
	assert.Contains(t, joined, "--socket-timeout 30")
	assert.Contains(t, args, "duration < 600")
	assert.Contains(t, joined, "--default-search ytsearch1")
	assert.Contains(t, joined, "--write-thumbnail --convert-thumbnails jpg")
	assert.Equal(t, "Artist - Title", args[len(args)-1])
}

func TestYTDLP_FetchNoMatch(t *testing.T) {
	y, _ := installFake(t)
	tpl := filepath.Join(t.TempDir(), "x.%(ext)s")

	_, err := y.Fetch(context.Background(), "nomatch", tpl, model.FetchOptions{})
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestYTDLP_FetchFailure(t *testing.T) {
	y, _ := installFake(t)
	tpl := filepath.Join(t.TempDir(), "x.%(ext)s")

	_, err := y.Fetch(context.Background(), "boom", tpl, model.FetchOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ERROR: video unavailable")
}

func TestYTDLP_BinaryNotFound(t *testing.T) {
	y := NewYTDLP(filepath.Join(t.TempDir(), "missing-yt-dlp"))

	_, err := y.Fetch(context.Background(), "q", "x.%(ext)s", model.FetchOptions{})
	assert.True(t, errors.Is(err, ErrBinaryNotFound))

	_, err = y.Search(context.Background(), "q", 5)
	assert.ErrorIs(t, err, ErrBinaryNotFound)
}

func TestYTDLP_Search(t *testing.T) {
	y, dir := installFake(t)

	results, err := y.Search(context.Background(), "daft punk", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, SearchResult{URL: "https://youtu.be/a", Title: "Song A", Channel: "Chan", Duration: 185, Views: 1500, ID: "a"}, results[0])
	assert.Equal(t, "Up", results[1].Channel)

	args := readArgs(t, dir)
	assert.Equal(t, "ytsearch5:daft punk", args[len(args)-1])
}

func TestParseSearchOutput_Limit(t *testing.T) {
	out := []byte(`{"title":"a"}
{"title":"b"}

{"title":"c"}
`)
	results, err := parseSearchOutput(out, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Unknown", results[0].Channel)
}

func TestParseSearchOutput_Invalid(t *testing.T) {
	_, err := parseSearchOutput([]byte("not json"), 5)
	assert.Error(t, err)
}

func TestFetchArgs_Minimal(t *testing.T) {
	args := NewYTDLP("", "--cookies", "c.txt").fetchArgs("-dash query", "o.%(ext)s", model.FetchOptions{})

	assert.NotContains(t, args, "--match-filter")
	assert.NotContains(t, args, "--write-thumbnail")
	assert.Equal(t, []string{"--cookies", "c.txt", "--", "-dash query"}, args[len(args)-4:])
}
