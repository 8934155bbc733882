// Package download provides the concurrent download engine that turns a
// list of tracks into MP3 files.
//
// # Engine
//
// The Engine coordinates a batch:
//
//  1. Create the output directory
//  2. Skip tracks whose file is already on disk
//  3. Walk the fallback query ladder with per-query retries
//  4. Tag finished files (optional)
//  5. Aggregate counts and sizes as tracks complete
//  6. Report every outcome to the history sink
//
// # Basic Usage
//
//	engine := download.NewEngine(cfg, media.NewYTDLP(""),
//	    download.WithTagger(audio.NewTagger(audio.DefaultTagConfig())),
//	    download.WithProgress(func(event download.ProgressEvent) {
//	        fmt.Println(event.Message)
//	    }),
//	)
//
//	result, err := engine.DownloadPlaylist(ctx, tracks)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// Tracks run on a pool of Config.Workers goroutines. Workers never touch the
// aggregate directly: each finished Outcome is sent to a single collector
// that folds it into the running AggregateResult. Snapshot may be called at
// any time from any goroutine.
//
// # Cancellation
//
// Stop, or cancelling the context passed to DownloadPlaylist, is
// cooperative. A fetch already in progress runs to completion; the stop is
// observed before the next query and before the next attempt, and tracks
// not yet started end as failed. Backoff and throttle pauses end early.
//
// # Retry Logic
//
// Each query is attempted up to Config.RetryAttempts times with a linear
// backoff of RetryDelay multiplied by the attempt number.
package download
