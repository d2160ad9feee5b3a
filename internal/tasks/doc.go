// Package tasks runs bulk playlist exports with real-time progress reporting.
//
// # Core Operation
//
// [Exporter.ExportAll] renders every named playlist to disk concurrently:
//   - Fetches each playlist from the local store
//   - Serializes it in the requested format (csv, markdown, txt, json, yaml)
//   - Writes an export_manifest.json summarizing successes and failures
//
// Per-playlist failures are recorded in the [BulkResult] rather than aborting
// the run, so one missing playlist never blocks the rest.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and
// optional data for advanced UI rendering. Updates use select with default to
// prevent blocking.
//
// # Implementation
//
// [Exporter] depends on:
//   - [Library] : read access to stored playlists
//   - [formatter] : serialization and file writing
package tasks
