// Package playback provides the word-at-a-time display engine and the ticker
// loop that drives it.
package playback

// State represents the playback state.
type State int

const (
	StateIdle     State = iota // Not running; cursor at start or mid-sequence
	StateRunning               // Ticker is advancing words
	StateFinished              // Every word has been shown
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}
