// Package library implements the local JSON stores: playlists and the
// global dislike set.
//
// # Layout
//
// [PlaylistStore] keeps one file per playlist under a directory, named after
// the sanitized playlist name ([shared.SafeFilename]). [DislikeStore] keeps
// a single file. Both shapes match the files written by earlier versions of
// the tool, so an existing library is picked up as-is.
//
// # Consistency
//
// Track ids are unique within a playlist and within the dislike set; append
// operations reject duplicates with [shared.ErrDuplicateSong] and
// [shared.ErrAlreadyDisliked]. Writes go through a temp file and rename, and
// every read-modify-write cycle holds an advisory lock ([flock]) because a
// playback session and a second invocation can mutate the same files.
//
// # Failure behavior
//
// Missing files are empty stores. Malformed JSON surfaces as
// [shared.ErrCorruptStore] naming the file; listing skips unreadable entries
// instead of failing the whole listing.
package library
