package session

import "fmt"

// Phase is the progression phase of a reading session.
type Phase int

const (
	PhaseReading       Phase = iota // Scenes still being read
	PhaseQuizPending                // All scenes read, quiz not submitted
	PhaseQuizCompleted              // Quiz submitted, session finished
)

func (p Phase) String() string {
	switch p {
	case PhaseReading:
		return "reading"
	case PhaseQuizPending:
		return "quiz pending"
	case PhaseQuizCompleted:
		return "quiz completed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is the tagged view of a session's progression. Scene is meaningful
// only in PhaseReading and Score only in PhaseQuizCompleted.
type State struct {
	Phase Phase
	Scene int
	Score float64
}

func (s State) String() string {
	switch s.Phase {
	case PhaseReading:
		return fmt.Sprintf("reading scene %d", s.Scene)
	case PhaseQuizCompleted:
		return fmt.Sprintf("quiz completed (%.1f%%)", s.Score)
	default:
		return s.Phase.String()
	}
}
