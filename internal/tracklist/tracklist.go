// Package tracklist reads plain-text track lists and writes the list of
// failed queries back in the same format.
//
// A track list holds one entry per line:
//
//	# comments and blank lines are ignored
//	Daft Punk - One More Time
//	Simon & Garfunkel – The Boxer
//	Intro
//	https://www.youtube.com/watch?v=dQw4w9WgXcQ
//
// Lines with an artist/title separator become artist and title; anything
// else is a title-only track. URLs are kept as literal queries.
package tracklist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	ioutils "github.com/handiism/tunegrab/internal/io"
	"github.com/handiism/tunegrab/internal/model"
)

// separators split artist from title, tried in this order.
var separators = []string{" - ", " — ", " – "}

var commentPrefixes = []string{"#", "//"}

// Parse reads tracks from r, one per line.
func Parse(r io.Reader) ([]model.Track, error) {
	var tracks []model.Track

	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
			first = false
		}

		if track, ok := ParseLine(line); ok {
			tracks = append(tracks, track)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return tracks, nil
}

// ParseFile reads tracks from the file at path.
func ParseFile(path string) ([]model.Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tracks, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return tracks, nil
}

// ParseLine converts one line into a track. It reports false for blank
// and comment lines.
func ParseLine(line string) (model.Track, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return model.Track{}, false
	}
	for _, p := range commentPrefixes {
		if strings.HasPrefix(line, p) {
			return model.Track{}, false
		}
	}

	lower := strings.ToLower(line)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return model.Track{Query: line, Title: line}, true
	}

	return SplitQuery(line), true
}

// SplitQuery rebuilds a track from an "artist - title" query, as written to
// the failed log. Queries without a separator become title-only tracks.
// The original query is kept verbatim.
func SplitQuery(query string) model.Track {
	query = strings.TrimSpace(query)

	for _, sep := range separators {
		artist, title, found := strings.Cut(query, sep)
		artist, title = strings.TrimSpace(artist), strings.TrimSpace(title)
		if found && artist != "" && title != "" {
			return model.Track{Query: query, Artist: artist, Title: title}
		}
	}

	return model.Track{Query: query, Title: query}
}

// WriteFailedLog writes one query per line, replacing the file.
func WriteFailedLog(path string, queries []string) error {
	return ioutils.WriteLines(path, queries)
}
