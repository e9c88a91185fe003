package orchestrator

import (
	"time"

	"github.com/jonathan/interview-simulator/internal/detect"
	"github.com/jonathan/interview-simulator/internal/session"
	"github.com/jonathan/interview-simulator/internal/types"
)

// SessionPlan is the tagged union of the two plan shapes: a single custom
// round, or an ordered composite of named rounds. Exactly one of Single
// and Composite is set.
type SessionPlan struct {
	SessionID string
	Role      string
	Mode      types.InterviewType
	Resume    string

	Single    session.Round
	Composite *CompositePlan

	InFinalQA     bool
	Ended         bool
	EndedAt       time.Time
	FeedbackSaved bool

	// Redirector accumulates off-topic strikes across the whole session.
	Redirector detect.Redirector
}

// CompositePlan is the ordered multi-round shape of a full interview. The
// rounds map may lack an entry for a planned round that is created lazily
// (the coding round).
type CompositePlan struct {
	Order   []types.RoundType
	Rounds  map[types.RoundType]session.Round
	Current int
}

// CurrentType returns the round type the cursor points at.
func (c *CompositePlan) CurrentType() (types.RoundType, bool) {
	if c.Current < 0 || c.Current >= len(c.Order) {
		return "", false
	}
	return c.Order[c.Current], true
}

// Advance moves the cursor to the next planned round and reports whether
// one exists.
func (c *CompositePlan) Advance() (types.RoundType, bool) {
	if c.Current+1 >= len(c.Order) {
		c.Current = len(c.Order)
		return "", false
	}
	c.Current++
	return c.Order[c.Current], true
}

// CurrentRound resolves the active round session, or nil when the plan is
// in final Q&A, ended, or the current round has not been created yet.
func (p *SessionPlan) CurrentRound() session.Round {
	if p.Single != nil {
		return p.Single
	}
	if p.Composite == nil {
		return nil
	}
	rt, ok := p.Composite.CurrentType()
	if !ok {
		return nil
	}
	return p.Composite.Rounds[rt]
}

// AllRounds returns every instantiated round in plan order.
func (p *SessionPlan) AllRounds() []session.Round {
	if p.Single != nil {
		return []session.Round{p.Single}
	}
	if p.Composite == nil {
		return nil
	}
	var rounds []session.Round
	for _, rt := range p.Composite.Order {
		if r, ok := p.Composite.Rounds[rt]; ok && r != nil {
			rounds = append(rounds, r)
		}
	}
	return rounds
}
