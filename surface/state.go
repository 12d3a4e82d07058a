package surface

// State is the playback state of a Surface.
type State int

const (
	Empty State = iota
	Opening
	Playing
	Paused
	Stopped
	EndReached
	EncounteredError
)

var stateNames = [...]string{
	Empty:            "empty",
	Opening:          "opening",
	Playing:          "playing",
	Paused:           "paused",
	Stopped:          "stopped",
	EndReached:       "end reached",
	EncounteredError: "error",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Sticky reports whether the state survives an engine stop.
// Only a new source leaves a sticky state through a stop.
func (s State) Sticky() bool {
	return s == EndReached || s == EncounteredError
}
