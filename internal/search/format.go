package search

import (
	"fmt"
	"strconv"
)

// FormatDuration renders seconds as m:ss, or "?" when unknown.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "?"
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// FormatViews renders a view count with a K/M/B suffix, or "?" when unknown.
func FormatViews(views int64) string {
	switch {
	case views <= 0:
		return "?"
	case views >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(views)/1_000_000_000)
	case views >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(views)/1_000_000)
	case views >= 1_000:
		return fmt.Sprintf("%.1fK", float64(views)/1_000)
	default:
		return strconv.FormatInt(views, 10)
	}
}
