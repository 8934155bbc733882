package history

import (
	"sort"
	"time"

	"github.com/handiism/tunegrab/internal/model"
)

const (
	statsDays       = 7
	statsTopArtists = 10
)

// Stats aggregates the whole history.
type Stats struct {
	Total     int
	Success   int
	Failed    int
	TotalSize int64

	// TotalTime sums the elapsed time of all sessions.
	TotalTime time.Duration

	// Daily holds successful downloads per day for the last seven days,
	// oldest first, ending today.
	Daily []DayCount

	// TopArtists lists up to ten artists by successful downloads.
	TopArtists []ArtistCount
}

// DayCount is the number of successful downloads on one day.
type DayCount struct {
	Date  time.Time
	Count int
}

// ArtistCount is the number of successful downloads of one artist.
type ArtistCount struct {
	Artist string
	Count  int
}

// computeStats is shared by all backends so they report identically.
func computeStats(records []Record, sessions []Session, now time.Time) Stats {
	var s Stats

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	s.Daily = make([]DayCount, statsDays)
	for i := range s.Daily {
		s.Daily[i].Date = today.AddDate(0, 0, i-(statsDays-1))
	}

	artists := make(map[string]int)

	for _, r := range records {
		s.Total++

		switch r.Status {
		case model.StatusSuccess:
			s.Success++
			s.TotalSize += r.FileSize
			if r.Artist != "" {
				artists[r.Artist]++
			}

			at := r.UpdatedAt.In(now.Location())
			day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, now.Location())
			for i := range s.Daily {
				if s.Daily[i].Date.Equal(day) {
					s.Daily[i].Count++
					break
				}
			}
		case model.StatusFailed:
			s.Failed++
		}
	}

	for _, sess := range sessions {
		s.TotalTime += sess.Elapsed
	}

	for artist, count := range artists {
		s.TopArtists = append(s.TopArtists, ArtistCount{Artist: artist, Count: count})
	}
	sort.Slice(s.TopArtists, func(i, j int) bool {
		if s.TopArtists[i].Count != s.TopArtists[j].Count {
			return s.TopArtists[i].Count > s.TopArtists[j].Count
		}
		return s.TopArtists[i].Artist < s.TopArtists[j].Artist
	})
	if len(s.TopArtists) > statsTopArtists {
		s.TopArtists = s.TopArtists[:statsTopArtists]
	}

	return s
}
