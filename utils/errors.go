package utils

import "errors"

// Failure categories surfaced to the caller. Wrap them with %w and test with errors.Is.
var (
	ErrConfig        = errors.New("configuration error")
	ErrAuth          = errors.New("authentication failed")
	ErrNetwork       = errors.New("network error")
	ErrEmptyPlaylist = errors.New("playlist is empty")
)

// Describe turns an error into a message for the user, one per category.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfig):
		return "Invalid configuration: " + err.Error()
	case errors.Is(err, ErrAuth):
		return "Could not authenticate with Spotify, check the client ID and secret: " + err.Error()
	case errors.Is(err, ErrEmptyPlaylist):
		return "The playlist has no tracks, or the playlist ID is wrong: " + err.Error()
	case errors.Is(err, ErrNetwork):
		return "A network request failed: " + err.Error()
	default:
		return err.Error()
	}
}
