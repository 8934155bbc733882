// Package history persists download outcomes and batch sessions across
// runs, and derives statistics from them.
//
// Records are keyed by query, so re-running a track overwrites its
// previous outcome. The latest failed records drive the retry workflow.
//
// Two backends implement Store:
//   - BoltStore, an embedded bbolt file (default)
//   - RedisStore, for sharing history between machines, with optional TTL
//
// Open selects one from Options; the "none" backend returns a Store that
// discards everything.
package history
