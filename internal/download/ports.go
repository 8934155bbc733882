package download

import (
	"context"

	"github.com/handiism/tunegrab/internal/model"
)

// Fetcher resolves a query to media and transcodes it to MP3.
//
// outputTemplate is a path whose extension is the placeholder "%(ext)s".
// Implementations must reject candidates longer than opts.MaxDuration and
// bound their own network calls by opts.Timeout. The returned path is the
// produced file, if any.
type Fetcher interface {
	Fetch(ctx context.Context, query, outputTemplate string, opts model.FetchOptions) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, query, outputTemplate string, opts model.FetchOptions) (string, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, query, outputTemplate string, opts model.FetchOptions) (string, error) {
	return f(ctx, query, outputTemplate, opts)
}

// Tagger writes artist and title metadata. Failures are logged and ignored.
type Tagger interface {
	WriteTags(path, artist, title string) error
}

// HistorySink persists one outcome per processed track. Failures are
// logged and ignored.
type HistorySink interface {
	Record(ctx context.Context, outcome model.Outcome) error
}
