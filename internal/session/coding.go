package session

import (
	"context"

	"github.com/jonathan/interview-simulator/internal/coding"
	"github.com/jonathan/interview-simulator/internal/feedback"
	"github.com/jonathan/interview-simulator/internal/llm"
	"github.com/jonathan/interview-simulator/internal/types"
)

// CodingRound delegates question delivery to the problem engine instead of
// generating text questions. Its QA history mirrors the spoken problem
// intros; problems and submitted code live in the engine's history.
type CodingRound struct {
	baseRound
	engine *coding.Engine
	scorer *feedback.Aggregator
}

// NewCodingRound creates a coding round over the given problem catalogue.
func NewCodingRound(client llm.Client, role string, problems []types.Problem, rounds int) *CodingRound {
	return &CodingRound{
		baseRound: baseRound{role: role, rounds: rounds},
		engine:    coding.NewEngine(client, problems, rounds),
		scorer:    feedback.NewAggregator(client),
	}
}

func (r *CodingRound) Type() types.RoundType { return types.RoundCoding }

// Engine exposes the underlying problem engine for problem retrieval, code
// submission, and guidance.
func (r *CodingRound) Engine() *coding.Engine { return r.engine }

// NextProblem presents the next catalogue problem, mirroring its spoken
// intro into the QA history so the transcript stays continuous across
// round types.
func (r *CodingRound) NextProblem() *coding.ProblemWithIntro {
	p := r.engine.NextProblem()
	if p == nil {
		return nil
	}
	r.appendQuestion(p.SpokenIntro)
	r.currentRound = r.engine.CurrentRound()
	return p
}

// SubmitSolution records the code with the engine and, when no verbal
// explanation answered the current intro, closes the QA record with it.
func (r *CodingRound) SubmitSolution(code string) {
	r.engine.SubmitSolution(code)
	r.recordAnswer(code)
}

// AskQuestion presents the next problem's spoken intro.
func (r *CodingRound) AskQuestion(ctx context.Context) (string, bool) {
	p := r.NextProblem()
	if p == nil {
		return "", false
	}
	return p.SpokenIntro, true
}

// ProvideAnswer records the candidate's verbal explanation against the
// current problem intro.
func (r *CodingRound) ProvideAnswer(answer string) {
	r.recordAnswer(answer)
}

// GenerateFollowup always declines; coding guidance runs through the
// engine's Guidance operation instead.
func (r *CodingRound) GenerateFollowup(ctx context.Context, previousAnswer string) string {
	return ""
}

// SkipQuestion abandons the current problem and presents the next one.
func (r *CodingRound) SkipQuestion(ctx context.Context) SkipResult {
	r.markSkipped()
	next, ok := r.AskQuestion(ctx)
	return SkipResult{
		SkippedCount: len(r.meta.SkippedQuestions),
		NextQuestion: next,
		Complete:     !ok,
	}
}

// IsComplete reports whether the engine has run out of problems or rounds.
func (r *CodingRound) IsComplete() bool { return r.engine.IsComplete() }

// CurrentRound mirrors the engine's problem counter.
func (r *CodingRound) CurrentRound() int { return r.engine.CurrentRound() }

// RoundFeedback scores the latest submission with the coding evaluator.
func (r *CodingRound) RoundFeedback(ctx context.Context) any {
	return r.scorer.Coding(ctx, r.engine.History())
}
