// Package model defines the core data structures used throughout
// the tunegrab application.
//
// # Track
//
// Track is one playlist entry to be resolved and downloaded:
//
//	track := model.NewTrack("Artist", "Title")
//	fmt.Println(track.Query)      // "Artist - Title"
//	fmt.Println(track.FileName()) // sanitized name used on disk
//
// # Outcome
//
// Outcome is the terminal result of processing one track. Its Status is
// exactly one of StatusSuccess, StatusSkipped or StatusFailed.
//
// # AggregateResult
//
// AggregateResult holds batch-wide totals. Outcomes are folded in with Add:
//
//	var agg model.AggregateResult
//	agg.Add(outcome)
package model
