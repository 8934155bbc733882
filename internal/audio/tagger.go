package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"

	ioutils "github.com/handiism/tunegrab/internal/io"
	"github.com/handiism/tunegrab/internal/logger"
)

// TagEditAction defines how to handle individual ID3 tags.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with the track's value.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration.
//
// Example:
//
//	cfg := &TagConfig{
//	    ModifyTags:   true,
//	    Artist:       TagModify,
//	    TrackTitle:   TagModify,
//	    Comments:     TagEmpty,  // drop uploader comments
//	    EmbedCover:   true,
//	    CoverMaxSize: 500,
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, no string tags are modified.
	ModifyTags bool

	// Artist controls the TPE1 (Lead artist) frame.
	Artist TagEditAction

	// TrackTitle controls the TIT2 (Title) frame.
	TrackTitle TagEditAction

	// Comments controls the COMM (Comments) frame.
	Comments TagEditAction

	// EmbedCover embeds a thumbnail found next to the audio file as the
	// front cover and removes the thumbnail afterwards.
	EmbedCover bool

	// CoverMaxSize bounds the embedded cover on both sides in pixels.
	// Zero keeps the original size.
	CoverMaxSize int
}

// DefaultTagConfig returns the default tag configuration: artist and
// title are written, comments left alone and no cover embedded.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags:   true,
		Artist:       TagModify,
		TrackTitle:   TagModify,
		Comments:     TagDoNotModify,
		CoverMaxSize: 500,
	}
}

// thumbnailExts lists the extensions yt-dlp may leave a thumbnail with,
// in order of preference.
var thumbnailExts = []string{".jpg", ".jpeg", ".png", ".webp"}

// Tagger writes ID3 tags to MP3 files.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//
//	// After downloading track
//	if err := tagger.WriteTags(path, "Daft Punk", "One More Time"); err != nil {
//	    log.Printf("Failed to tag %s: %v", path, err)
//	}
type Tagger struct {
	config *TagConfig
	images *ioutils.ImageService
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config, images: ioutils.NewImageService()}
}

// WriteTags writes artist and title to the MP3 at path, keeping all other
// frames, and embeds the cover when configured.
//
// Returns an error if the file is missing or cannot be saved. Cover
// problems are logged and do not fail the call.
func (t *Tagger) WriteTags(path, artist, title string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open tags: %w", err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	if t.config.ModifyTags {
		t.updateStringTags(tag, artist, title)
	}

	var thumbnail string
	if t.config.EmbedCover {
		thumbnail = t.embedCover(tag, path)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}

	if thumbnail != "" {
		if err := os.Remove(thumbnail); err != nil {
			logger.Warnf("Failed to remove thumbnail %s: %v", thumbnail, err)
		}
	}

	return nil
}

// updateStringTags updates text-based ID3 frames based on configuration.
func (t *Tagger) updateStringTags(tag *id3v2.Tag, artist, title string) {
	// Artist (TPE1)
	switch t.config.Artist {
	case TagEmpty:
		tag.SetArtist("")
	case TagModify:
		tag.SetArtist(artist)
	}

	// Track Title (TIT2)
	switch t.config.TrackTitle {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(title)
	}

	if t.config.Comments == TagEmpty {
		tag.DeleteFrames(tag.CommonID("Comments"))
	}
}

// embedCover attaches the sibling thumbnail of audioPath, if any, and
// returns its path so the caller can remove it once tags are saved.
func (t *Tagger) embedCover(tag *id3v2.Tag, audioPath string) string {
	thumbnail := findThumbnail(audioPath)
	if thumbnail == "" {
		return ""
	}

	data, err := os.ReadFile(thumbnail)
	if err != nil {
		logger.Warnf("Failed to read thumbnail %s: %v", thumbnail, err)
		return ""
	}

	artwork, err := t.images.FitJPEG(data, t.config.CoverMaxSize)
	if err != nil {
		logger.Warnf("Failed to convert thumbnail %s: %v", thumbnail, err)
		return ""
	}

	t.updateArtwork(tag, artwork)
	return thumbnail
}

func findThumbnail(audioPath string) string {
	base := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	for _, ext := range thumbnailExts {
		if _, ok := ioutils.FileReady(base + ext); ok {
			return base + ext
		}
	}
	return ""
}

// updateArtwork embeds cover art as an attached picture frame.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, artwork []byte) {
	// Remove any existing cover pictures
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	// Add new artwork as front cover (APIC frame)
	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	}
	tag.AddAttachedPicture(pic)
}
