package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/handiism/tunegrab/internal/tui"
)

func (a *app) stats(ctx context.Context) error {
	st, err := a.store.Stats(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if st.Total == 0 {
		fmt.Fprintln(a.out, "No downloads recorded yet.")
		return nil
	}

	totals := tablewriter.NewWriter(a.out)
	totals.SetHeader([]string{"Tracks", "Downloaded", "Failed", "Size", "Time"})
	totals.Append([]string{
		strconv.Itoa(st.Total),
		strconv.Itoa(st.Success),
		strconv.Itoa(st.Failed),
		tui.FormatSize(st.TotalSize),
		tui.FormatElapsed(st.TotalTime),
	})
	totals.Render()

	fmt.Fprintln(a.out, "\nLast 7 days")
	daily := tablewriter.NewWriter(a.out)
	daily.SetHeader([]string{"Day", "Downloaded"})
	for _, d := range st.Daily {
		daily.Append([]string{d.Date.Format("Mon 02 Jan"), strconv.Itoa(d.Count)})
	}
	daily.Render()

	if len(st.TopArtists) > 0 {
		fmt.Fprintln(a.out, "\nTop artists")
		artists := tablewriter.NewWriter(a.out)
		artists.SetHeader([]string{"#", "Artist", "Downloaded"})
		for i, ac := range st.TopArtists {
			artists.Append([]string{strconv.Itoa(i + 1), ac.Artist, strconv.Itoa(ac.Count)})
		}
		artists.Render()
	}

	return nil
}
