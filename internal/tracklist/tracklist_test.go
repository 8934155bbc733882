package tracklist

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/handiism/tunegrab/internal/model"
)

func TestParse(t *testing.T) {
	input := "\uFEFFDaft Punk - One More Time\n" +
		"# comment\n" +
		"// another comment\n" +
		"\n" +
		"   \n" +
		"Simon & Garfunkel – The Boxer\n" +
		"Intro\n" +
		"Artist — Title - Part 2\n" +
		"https://youtu.be/abc\n"

	got, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []model.Track{
		{Query: "Daft Punk - One More Time", Artist: "Daft Punk", Title: "One More Time"},
		{Query: "Simon & Garfunkel – The Boxer", Artist: "Simon & Garfunkel", Title: "The Boxer"},
		{Query: "Intro", Title: "Intro"},
		{Query: "Artist — Title - Part 2", Artist: "Artist — Title", Title: "Part 2"},
		{Query: "https://youtu.be/abc", Title: "https://youtu.be/abc"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestSplitQuery(t *testing.T) {
	tests := []struct {
		query string
		want  model.Track
	}{
		{"A - B", model.Track{Query: "A - B", Artist: "A", Title: "B"}},
		{"A - B - C", model.Track{Query: "A - B - C", Artist: "A", Title: "B - C"}},
		{"Solo", model.Track{Query: "Solo", Title: "Solo"}},
		{" - Dangling", model.Track{Query: "- Dangling", Title: "- Dangling"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := SplitQuery(tt.query); got != tt.want {
				t.Errorf("SplitQuery(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	if err := os.WriteFile(path, []byte("A - B\nC\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tracks, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(tracks) != 2 {
		t.Errorf("len = %d, want 2", len(tracks))
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteFailedLog_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failed.txt")
	queries := []string{"A - B", "Intro"}

	if err := WriteFailedLog(path, queries); err != nil {
		t.Fatalf("WriteFailedLog() error = %v", err)
	}

	tracks, err := ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}

	for i, tr := range tracks {
		if tr.Query != queries[i] {
			t.Errorf("tracks[%d].Query = %q, want %q", i, tr.Query, queries[i])
		}
	}
}
