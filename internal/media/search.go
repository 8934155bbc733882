package media

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// SearchResult is one candidate returned by Search.
type SearchResult struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Channel  string `json:"channel"`
	Duration int    `json:"duration"`
	Views    int64  `json:"views"`
	ID       string `json:"id"`
}

// Search returns up to limit candidates for query without downloading.
func (y *YTDLP) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if err := y.Available(); err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 1
	}

	args := []string{
		"--dump-json",
		"--skip-download",
		"--no-playlist",
		"--no-warnings",
		fmt.Sprintf("ytsearch%d:%s", limit, query),
	}

	output, err := y.run(ctx, args)
	if err != nil {
		return nil, err
	}

	return parseSearchOutput(output, limit)
}

// parseSearchOutput decodes the one-object-per-line output of --dump-json.
func parseSearchOutput(output []byte, limit int) ([]SearchResult, error) {
	var results []SearchResult

	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var entry struct {
			WebpageURL string  `json:"webpage_url"`
			Title      string  `json:"title"`
			Channel    string  `json:"channel"`
			Uploader   string  `json:"uploader"`
			Duration   float64 `json:"duration"`
			ViewCount  int64   `json:"view_count"`
			ID         string  `json:"id"`
		}
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("failed to decode yt-dlp output: %w", err)
		}

		channel := strings.TrimSpace(entry.Channel)
		if channel == "" {
			channel = strings.TrimSpace(entry.Uploader)
		}
		if channel == "" {
			channel = "Unknown"
		}
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			title = "Unknown"
		}

		results = append(results, SearchResult{
			URL:      entry.WebpageURL,
			Title:    title,
			Channel:  channel,
			Duration: int(entry.Duration),
			Views:    entry.ViewCount,
			ID:       entry.ID,
		})

		if len(results) == limit {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
