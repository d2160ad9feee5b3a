// Package services defines the [Catalog] and [LyricsProvider] interfaces and
// implements them for YouTube Music and LRCLIB.
//
// # Catalog
//
// [YTMService] communicates with a local FastAPI proxy wrapping ytmusicapi.
// The proxy handles YouTube Music authentication complexities; when an auth
// file is configured its path is sent via the X-Auth-File header on each
// request. All catalog operations are synchronous HTTP calls to the proxy
// endpoints.
//
// # Lyrics
//
// [LyricsService] queries LRCLIB (lrclib.net) for synced or plain lyrics,
// trying an exact metadata lookup before a looser search. The catalog's own
// lyrics endpoint serves plain text only and is used as a fallback.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrServiceUnavailable] : the service could not be reached
//   - [shared.ErrAPIRequest] : the service answered with an error status
//   - [shared.ErrNoLyrics] : no usable lyrics exist for the track
//
// Callers distinguish unreachable from unhealthy with [errors.Is]; an
// unreachable catalog can still be served from the local response cache.
//
// # Raw Client
//
// [APIService] is a thin JSON HTTP client for proxy endpoints that have no
// typed wrapper, such as auth file upload. Command handlers use it to relay
// status payloads without reshaping them.
package services
