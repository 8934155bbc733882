// Package search builds fallback search queries for a track and formats
// search result metadata for display.
package search

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/handiism/tunegrab/internal/model"
)

var (
	parenthetical = regexp.MustCompile(`\(.*?\)`)
	featCredit    = regexp.MustCompile(`(?i)\bfeat\.?.*`)
	artistJoiner  = regexp.MustCompile(`[,&/]`)
)

// GenerateQueries returns the ordered fallback ladder for a track.
//
// The first entry is always the display name ("artist - title", or the
// bare title). With smartSearch enabled and a known artist, progressively
// looser variants follow:
//
//  1. "artist - title" verbatim
//  2. artist without parentheticals and feat. credits, title without parentheticals
//  3. first of several artists joined by , & or /
//  4. title alone
//  5. "firstArtist - title official audio"
//
// Entries equal to an earlier one are dropped, so the result never holds
// duplicates.
func GenerateQueries(artist, title string, smartSearch bool) []string {
	original := model.DisplayName(artist, title)
	queries := []string{original}

	if !smartSearch || artist == "" {
		return queries
	}

	add := func(q string) {
		q = strings.TrimSpace(q)
		if q == "" {
			return
		}
		for _, existing := range queries {
			if existing == q {
				return
			}
		}
		queries = append(queries, q)
	}

	cleanArtist := strings.TrimSpace(parenthetical.ReplaceAllString(artist, ""))
	cleanArtist = strings.TrimSpace(featCredit.ReplaceAllString(cleanArtist, ""))
	cleanTitle := strings.TrimSpace(parenthetical.ReplaceAllString(title, ""))
	add(model.DisplayName(cleanArtist, cleanTitle))

	firstArtist := strings.TrimSpace(artistJoiner.Split(artist, 2)[0])
	if firstArtist == "" {
		firstArtist = artist
	}
	add(model.DisplayName(firstArtist, title))

	add(title)
	add(fmt.Sprintf("%s - %s official audio", firstArtist, title))

	return queries
}
