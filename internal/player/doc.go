// Package player controls playback through an external media player process.
//
// Nothing decodes audio in-process. [MPV] spawns the configured binary (mpv
// by default) with a private JSON control socket, [IPC] speaks mpv's
// line-delimited command protocol over that socket, and [Session] runs the
// queue: which song is current, what a key press does to the stores, and
// what happens when the process exits.
//
// # Process model
//
// One player process per track. Advancing kills the current process and
// spawns the next; the process exiting on its own (track finished, user
// closed the window) advances the queue the same way. Exit notifications
// carry a generation number so a kill the session itself requested is not
// mistaken for a finished track.
//
// # Control socket
//
// mpv creates the socket shortly after startup, so [DialIPC] retries for a
// bounded window. Socket failures after startup are soft: the music keeps
// playing, the controls just stop working, and each failure is logged rather
// than returned as a fatal error.
//
// # Stream targets
//
// [Resolver] decides what URL the player is handed. By default it is the
// public watch URL and the player's own loader does the fetching. With
// resolve_streams enabled the direct audio stream URL is resolved in-process
// instead, which starts faster but breaks whenever the extraction method
// rots.
package player
