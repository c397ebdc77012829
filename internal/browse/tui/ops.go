package tui

// opPhase is the lifecycle phase of one remote operation.
type opPhase int

const (
	opIdle opPhase = iota
	opPending
	opSucceeded
	opFailed
)

// opState tracks one remote operation's pending/error state. The browser
// keeps four of these, one each for load, create, update and delete; they
// settle independently of each other.
type opState struct {
	phase   opPhase
	message string // user-facing error text, set only when phase == opFailed
}

func (s *opState) start() {
	s.phase = opPending
	s.message = ""
}

func (s *opState) succeed() {
	s.phase = opSucceeded
	s.message = ""
}

func (s *opState) fail(message string) {
	s.phase = opFailed
	s.message = message
}

func (s *opState) reset() {
	s.phase = opIdle
	s.message = ""
}

func (s opState) pending() bool {
	return s.phase == opPending
}

func (s opState) failed() bool {
	return s.phase == opFailed
}
