package model

import (
	"strings"

	ioutils "github.com/handiism/tunegrab/internal/io"
)

// Track represents a single playlist entry to be resolved and downloaded.
//
// A Track is immutable once queued. Artist may be empty for title-only
// entries, in which case the file name and the first search query use the
// bare title.
//
// Example:
//
//	track := NewTrack("Daft Punk", "One More Time")
//	// track.Query = "Daft Punk - One More Time"
//	// track.FileName() = "Daft Punk - One More Time"
type Track struct {
	// Query is the literal search string (or media URL) for this track.
	Query string `json:"query"`

	// Artist is the performing artist. Empty for title-only tracks.
	Artist string `json:"artist"`

	// Title is the track title.
	Title string `json:"title"`
}

// NewTrack creates a Track whose query is "artist - title", or the bare
// title when artist is empty.
func NewTrack(artist, title string) Track {
	artist = strings.TrimSpace(artist)
	title = strings.TrimSpace(title)

	return Track{
		Query:  DisplayName(artist, title),
		Artist: artist,
		Title:  title,
	}
}

// DisplayName joins artist and title the way files and queries are named.
func DisplayName(artist, title string) string {
	if artist == "" {
		return title
	}
	return artist + " - " + title
}

// FileName returns the sanitized base file name (without extension) under
// which the track is stored.
func (t Track) FileName() string {
	return ioutils.SanitizeFileName(DisplayName(t.Artist, t.Title))
}

// IsURL reports whether the track query is a direct media URL rather than
// a search string.
func (t Track) IsURL() bool {
	q := strings.ToLower(t.Query)
	return strings.HasPrefix(q, "http://") || strings.HasPrefix(q, "https://")
}
