package main

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"github.com/handiism/tunegrab/internal/media"
	"github.com/handiism/tunegrab/internal/model"
	"github.com/handiism/tunegrab/internal/search"
)

const searchLimit = 5

// search lets the user pick one of the top results for query and downloads
// it by URL.
func (a *app) search(ctx context.Context, query string) error {
	if err := a.fetcher.Available(); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Searching for %q...\n", query)
	results, err := a.fetcher.Search(ctx, query, searchLimit)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if len(results) == 0 {
		fmt.Fprintln(a.out, "Nothing found.")
		return nil
	}

	idx := 0
	if !a.flags.yes {
		prompt := &survey.Select{
			Message:  "Select a track:",
			Options:  searchOptions(results),
			PageSize: searchLimit,
		}
		if err := survey.AskOne(prompt, &idx); err != nil {
			return err
		}
	}

	return a.downloadTracks(ctx, "search", []model.Track{resultTrack(query, results[idx])})
}

func searchOptions(results []media.SearchResult) []string {
	options := make([]string, len(results))
	for i, r := range results {
		options[i] = fmt.Sprintf("%s | %s | %s | %s views",
			r.Title, r.Channel, search.FormatDuration(r.Duration), search.FormatViews(r.Views))
	}
	return options
}

// resultTrack downloads the result URL literally but names the file after
// the query the user typed.
func resultTrack(query string, r media.SearchResult) model.Track {
	t := model.NewTrack("", query)
	t.Query = r.URL
	return t
}
