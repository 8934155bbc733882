package search

import (
	"reflect"
	"testing"
)

func TestGenerateQueries(t *testing.T) {
	tests := []struct {
		name        string
		artist      string
		title       string
		smartSearch bool
		want        []string
	}{
		{
			name:        "feat and parentheticals",
			artist:      "Daft Punk (feat. X)",
			title:       "One More Time (Remix)",
			smartSearch: true,
			want: []string{
				"Daft Punk (feat. X) - One More Time (Remix)",
				"Daft Punk - One More Time",
				"One More Time (Remix)",
				"Daft Punk (feat. X) - One More Time (Remix) official audio",
			},
		},
		{
			name:        "multiple artists",
			artist:      "Simon & Garfunkel",
			title:       "The Boxer",
			smartSearch: true,
			want: []string{
				"Simon & Garfunkel - The Boxer",
				"Simon - The Boxer",
				"The Boxer",
				"Simon - The Boxer official audio",
			},
		},
		{
			name:        "trailing feat credit",
			artist:      "Drake feat. Rihanna, Future",
			title:       "Song (Live)",
			smartSearch: true,
			want: []string{
				"Drake feat. Rihanna, Future - Song (Live)",
				"Drake - Song",
				"Drake feat. Rihanna - Song (Live)",
				"Song (Live)",
				"Drake feat. Rihanna - Song (Live) official audio",
			},
		},
		{
			name:        "plain artist",
			artist:      "Queen",
			title:       "Bohemian Rhapsody",
			smartSearch: true,
			want: []string{
				"Queen - Bohemian Rhapsody",
				"Bohemian Rhapsody",
				"Queen - Bohemian Rhapsody official audio",
			},
		},
		{
			name:        "smart search off",
			artist:      "Queen",
			title:       "Bohemian Rhapsody",
			smartSearch: false,
			want:        []string{"Queen - Bohemian Rhapsody"},
		},
		{
			name:        "title only",
			artist:      "",
			title:       "Intro",
			smartSearch: true,
			want:        []string{"Intro"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateQueries(tt.artist, tt.title, tt.smartSearch)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GenerateQueries(%q, %q) = %q, want %q", tt.artist, tt.title, got, tt.want)
			}
		})
	}
}

func TestGenerateQueries_Distinct(t *testing.T) {
	got := GenerateQueries("A, B & C", "T (x)", true)
	if len(got) > 5 {
		t.Fatalf("len = %d, want at most 5", len(got))
	}
	seen := make(map[string]bool)
	for _, q := range got {
		if seen[q] {
			t.Errorf("duplicate query %q in %q", q, got)
		}
		seen[q] = true
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "?"},
		{5, "0:05"},
		{65, "1:05"},
		{3600, "60:00"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatViews(t *testing.T) {
	tests := []struct {
		views int64
		want  string
	}{
		{0, "?"},
		{999, "999"},
		{1500, "1.5K"},
		{2_340_000, "2.3M"},
		{1_200_000_000, "1.2B"},
	}

	for _, tt := range tests {
		if got := FormatViews(tt.views); got != tt.want {
			t.Errorf("FormatViews(%d) = %q, want %q", tt.views, got, tt.want)
		}
	}
}
