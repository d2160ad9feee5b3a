// Package repositories implements the SQLite response cache.
//
// The cache remembers catalog responses so recent searches keep working when
// the proxy is unreachable. It is an offline fallback, not a source of truth:
// entries are overwritten on every successful catalog call and never expire
// on their own.
//
// Key Implementations:
//   - [TrackCache] : individual tracks keyed by video ID
//   - [SearchCache] : search result ID lists keyed by normalized query text
//
// Track rows store flattened artist and album strings. Reading them back
// produces tracks with a single artist credit, which is all playback and
// display need. [Stats] summarizes both tables for the cache stats command.
package repositories
