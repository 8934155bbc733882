package download

import "errors"

var (
	// ErrAlreadyRunning is returned when DownloadPlaylist is called while
	// another batch is in progress on the same Engine.
	ErrAlreadyRunning = errors.New("download already running")

	// ErrStopped is recorded as the last error of tracks abandoned after Stop.
	ErrStopped = errors.New("download stopped")

	// ErrNoOutput means the fetcher reported success but no file appeared.
	ErrNoOutput = errors.New("fetcher produced no output file")
)

// ErrNoAttempts is recorded for tracks that were never fetched because
// Config.RetryAttempts is zero.
var ErrNoAttempts = errors.New("no download attempts configured")
