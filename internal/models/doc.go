// Package models defines domain entities for the ytm terminal player.
//
// The package contains two categories of types:
//
// 1. Persisted records, stored as JSON by [internal/library]:
//   - [Song] : A saved track (title, artist, album, duration, video id, add time)
//   - [Playlist] : A named, ordered collection of songs, one file per playlist
//   - [DislikeEntry] / [DislikeList] : The global dislike set
//
// 2. Wire shapes, decoded from the catalog and never stored directly:
//   - [Track] : A search or radio result with artist/album attribution
//   - [WatchQueue] : The radio continuation for a seed track
//   - [Lyrics] / [LyricLine] : Fetched lyric sheets, synced or plain
//
// [Timestamp] bridges the two worlds: store files written by earlier versions
// carry zone-less ISO 8601 times, so it parses both those and RFC 3339 while
// always writing RFC 3339.
//
// Conversions cross the boundary explicitly: [Track.Song] stamps a catalog
// result for persistence, [Song.Track] lifts a stored song back into the
// queue pipeline.
package models
