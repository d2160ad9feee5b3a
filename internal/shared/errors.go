package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTrackNotFound      = fmt.Errorf("track not found")
	ErrNoResults          = fmt.Errorf("no results")
	ErrNoLyrics           = fmt.Errorf("no lyrics available")

	// Library errors
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrPlaylistExists   = fmt.Errorf("playlist already exists")
	ErrSongNotFound     = fmt.Errorf("song not found")
	ErrDuplicateSong    = fmt.Errorf("song already present")
	ErrAlreadyDisliked  = fmt.Errorf("song already disliked")
	ErrCorruptStore     = fmt.Errorf("store file is not valid JSON")

	// Player errors
	ErrPlayerStart  = fmt.Errorf("failed to start player")
	ErrPlayerSocket = fmt.Errorf("player socket unavailable")
	ErrPlayerExited = fmt.Errorf("player process exited")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
