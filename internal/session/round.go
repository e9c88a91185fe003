// Package session implements the per-round interview sessions. Each round
// variant owns one round's question/answer history and counters and supplies
// a variant-specific question-generation strategy behind a shared interface.
package session

import (
	"context"

	"github.com/jonathan/interview-simulator/internal/types"
)

// Round is the shared capability set of all four round variants.
//
// Counter semantics differ per variant: the technical and sales variants
// advance currentRound when an answer is recorded, the behavioral variant
// when a question is asked, and the coding variant when a problem is
// presented. In every variant 0 <= CurrentRound() <= Rounds() holds.
type Round interface {
	// Type identifies the round variant, including the sales sub-stage.
	Type() types.RoundType

	// Role returns the position the candidate is interviewing for.
	Role() string

	// AskQuestion generates the next main question, appends it to the
	// history, and returns it. ok is false exactly when the round budget
	// (or, for coding, the problem catalogue) is exhausted. Generation
	// failures are recovered with a deterministic fallback question.
	AskQuestion(ctx context.Context) (question string, ok bool)

	// ProvideAnswer records the candidate's answer on the trailing
	// unanswered history record.
	ProvideAnswer(answer string)

	// GenerateFollowup produces one follow-up question for the previous
	// answer, or "" when the variant declines (too early in the round, no
	// answered question yet, or generation failed). A produced follow-up
	// is appended to the history as a pending question; answering it never
	// consumes a round slot.
	GenerateFollowup(ctx context.Context, previousAnswer string) string

	// SkipQuestion marks the pending question as skipped, advances the
	// round counter by exactly one, records the skipped text so it never
	// resurfaces, and asks the next question.
	SkipQuestion(ctx context.Context) SkipResult

	// IsComplete reports whether the round has no more questions to give.
	IsComplete() bool

	History() []types.QARecord
	Meta() *types.RoundMeta
	CurrentRound() int
	Rounds() int

	// RoundFeedback scores the round's full history through the feedback
	// aggregator.
	RoundFeedback(ctx context.Context) any
}

// SkipResult reports the outcome of skipping the pending question.
type SkipResult struct {
	SkippedCount int    `json:"skipped_count"`
	NextQuestion string `json:"next_question,omitempty"`
	Complete     bool   `json:"complete"`
}

// baseRound carries the state every variant shares.
type baseRound struct {
	role         string
	sessionID    string
	rounds       int
	currentRound int
	history      []types.QARecord
	meta         types.RoundMeta
}

func (b *baseRound) Role() string              { return b.role }
func (b *baseRound) History() []types.QARecord { return b.history }
func (b *baseRound) Meta() *types.RoundMeta    { return &b.meta }
func (b *baseRound) CurrentRound() int         { return b.currentRound }
func (b *baseRound) Rounds() int               { return b.rounds }
func (b *baseRound) IsComplete() bool          { return b.currentRound >= b.rounds }

// appendQuestion adds a new unanswered record to the history.
func (b *baseRound) appendQuestion(question string) {
	b.history = append(b.history, types.QARecord{Question: question})
}

// recordAnswer sets the trailing record's answer if one is pending and
// returns the answered record.
func (b *baseRound) recordAnswer(answer string) (types.QARecord, bool) {
	if len(b.history) == 0 {
		return types.QARecord{}, false
	}
	last := &b.history[len(b.history)-1]
	if last.Answered() {
		return *last, false
	}
	last.Answer = &answer
	return *last, true
}

// markSkipped stamps the trailing unanswered record with the skip sentinel
// and logs its question text. Returns false when nothing was pending.
func (b *baseRound) markSkipped() (string, bool) {
	if len(b.history) == 0 {
		return "", false
	}
	last := &b.history[len(b.history)-1]
	if last.Answered() {
		return "", false
	}
	skipped := types.SkippedAnswer
	last.Answer = &skipped
	b.meta.SkippedQuestions = append(b.meta.SkippedQuestions, last.Question)
	return last.Question, true
}

// pendingQuestion returns the trailing record if it awaits an answer.
func (b *baseRound) pendingQuestion() (types.QARecord, bool) {
	if len(b.history) == 0 {
		return types.QARecord{}, false
	}
	last := b.history[len(b.history)-1]
	if last.Answered() {
		return types.QARecord{}, false
	}
	return last, true
}
