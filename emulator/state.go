package emulator

// State of a simulation session.
type State int32

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_IDLE    = State(0) // idle
	STATE_LOADED  = State(1) // loaded
	STATE_RUNNING = State(2) // running
	STATE_PAUSED  = State(3) // paused
	STATE_HALTED  = State(4) // halted
	STATE_FAULTED = State(5) // faulted
)

// Terminal is true for states only left by a reset.
func (state State) Terminal() bool {
	return state == STATE_HALTED || state == STATE_FAULTED
}
