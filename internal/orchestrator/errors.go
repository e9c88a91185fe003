package orchestrator

import "errors"

var (
	// ErrSessionNotFound means no plan exists for the candidate.
	ErrSessionNotFound = errors.New("no active session for candidate")

	// ErrRoundNotActive means an operation targeted a round the plan has
	// not reached yet (e.g. a coding problem requested during the
	// technical round).
	ErrRoundNotActive = errors.New("round not active")

	// ErrNoCodingRound means the plan contains no coding round at all.
	ErrNoCodingRound = errors.New("no coding round in plan")
)
