package audio

import (
	"strings"
	"testing"
	"time"
)

func TestPlaylistCreator_M3U(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, false)

	content := creator.CreatePlaylist("test", createTestEntries())

	if content != "Test Artist - track1.mp3\ntrack2.mp3\n" {
		t.Errorf("M3U = %q", content)
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, true)

	content := creator.CreatePlaylist("test", createTestEntries())

	if !strings.HasPrefix(content, "#EXTM3U") {
		t.Error("Extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:180,Test Artist - track1\n") {
		t.Error("Extended M3U should contain #EXTINF with duration and name")
	}
	if !strings.Contains(content, "#EXTINF:-1,track2\n") {
		t.Error("unknown duration should be written as -1")
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	creator := NewPlaylistCreator(FormatPLS, false)

	content := creator.CreatePlaylist("test", createTestEntries())

	if !strings.HasPrefix(content, "[playlist]") {
		t.Error("PLS should start with [playlist]")
	}
	if !strings.Contains(content, "File1=Test Artist - track1.mp3") {
		t.Error("PLS should contain File1=")
	}
	if !strings.Contains(content, "NumberOfEntries=2") {
		t.Error("PLS should contain NumberOfEntries")
	}
}

func TestPlaylistCreator_WPL(t *testing.T) {
	creator := NewPlaylistCreator(FormatWPL, false)

	content := creator.CreatePlaylist("test", createTestEntries())

	if !strings.Contains(content, "<?wpl") {
		t.Error("WPL should contain XML declaration")
	}
	if !strings.Contains(content, "<smil>") {
		t.Error("WPL should contain smil element")
	}
	if !strings.Contains(content, "<media src=") {
		t.Error("WPL should contain media elements")
	}
}

func TestPlaylistCreator_ZPL(t *testing.T) {
	creator := NewPlaylistCreator(FormatZPL, false)

	content := creator.CreatePlaylist("test", createTestEntries())

	if !strings.Contains(content, "<?zpl") {
		t.Error("ZPL should contain XML declaration")
	}
	if !strings.Contains(content, "trackArtist=\"Test Artist\" duration=\"180000\"") {
		t.Error("ZPL should contain artist and duration attributes")
	}
}

func TestPlaylistCreator_XMLEscape(t *testing.T) {
	entries := []PlaylistEntry{{Path: "/music/Track & \"Quote\".mp3", Artist: "Artist & Co", Title: "Track & \"Quote\""}}

	creator := NewPlaylistCreator(FormatWPL, false)
	content := creator.CreatePlaylist("Mix <Special>", entries)

	if strings.Contains(content, "&") && !strings.Contains(content, "&amp;") {
		t.Error("WPL should escape & as &amp;")
	}
	if strings.Contains(content, "<Special>") {
		t.Error("WPL should escape < and >")
	}
}

func TestParsePlaylistFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    PlaylistFormat
		wantExt string
		wantErr bool
	}{
		{"m3u", FormatM3U, ".m3u", false},
		{"", FormatM3U, ".m3u", false},
		{"PLS", FormatPLS, ".pls", false},
		{"wpl", FormatWPL, ".wpl", false},
		{"zpl", FormatZPL, ".zpl", false},
		{"xspf", FormatM3U, ".m3u", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePlaylistFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePlaylistFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePlaylistFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if ext := got.Extension(); ext != tt.wantExt {
				t.Errorf("Extension() = %q, want %q", ext, tt.wantExt)
			}
		})
	}
}

func createTestEntries() []PlaylistEntry {
	return []PlaylistEntry{
		{Path: "/music/Test Artist - track1.mp3", Artist: "Test Artist", Title: "track1", Duration: 180 * time.Second},
		{Path: "/music/track2.mp3", Title: "track2"},
	}
}
