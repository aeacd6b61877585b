package session

// State represents the playback session pipeline position. It is the sole
// source of truth for what is currently playing or pending.
type State int

const (
	StateIdle            State = iota // No session activity
	StateAuthenticating               // Waiting on the identity-provider flow
	StateAuthenticated                // Credential stored, ready to play
	StateResolvingTracks              // Catalog lookup in flight
	StateInitializing                 // Engine initialization in flight
	StatePlaying                      // Engine reports playback running
	StatePaused                       // Engine reports playback paused
	StateEnded                        // Session torn down (terminal)
	StateErrored                      // A pipeline stage failed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateResolvingTracks:
		return "resolving_tracks"
	case StateInitializing:
		return "initializing"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Snapshot mirrors the engine's most recent playback report: last known
// stream position and whether the engine said it was playing. Only
// meaningful while a session is in a playing-capable state.
type Snapshot struct {
	PositionMS int
	Playing    bool
	TrackURI   string
}
