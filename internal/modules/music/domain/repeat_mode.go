package domain

// RepeatMode controls what happens when the current track finishes.
type RepeatMode int

const (
	RepeatNone  RepeatMode = iota // Default: advance through the queue
	RepeatTrack                   // Replay the current track indefinitely
)

// String returns a human-readable representation of the repeat mode.
func (m RepeatMode) String() string {
	if m == RepeatTrack {
		return "track"
	}
	return "none"
}
