package session

import (
	"context"
	"log"
	"strings"

	"github.com/jonathan/interview-simulator/internal/feedback"
	"github.com/jonathan/interview-simulator/internal/llm"
	"github.com/jonathan/interview-simulator/internal/prompts"
	"github.com/jonathan/interview-simulator/internal/types"
)

const technicalGreeting = "Welcome to The Technical round of your Interview. How are You?"

const technicalFallbackQuestion = "Walk me through a recent project from your resume and the hardest technical decision you made on it."

// TechnicalRound asks open-ended technical questions grounded in the
// candidate's resume. The round counter advances when an answer is
// recorded, and answered questions feed a topic memory so later questions
// avoid repeating covered ground.
type TechnicalRound struct {
	baseRound
	resume string
	client llm.Client
	memory *TopicMemory
	scorer *feedback.Aggregator
}

// NewTechnicalRound creates a technical round seeded with its greeting.
func NewTechnicalRound(client llm.Client, role, resume, sessionID string, rounds int) *TechnicalRound {
	r := &TechnicalRound{
		baseRound: baseRound{role: role, sessionID: sessionID, rounds: rounds},
		resume:    resume,
		client:    client,
		memory:    &TopicMemory{},
		scorer:    feedback.NewAggregator(client),
	}
	r.appendQuestion(technicalGreeting)
	return r
}

func (r *TechnicalRound) Type() types.RoundType { return types.RoundTechnical }

// AskQuestion generates the next technical question, steering away from
// topics already covered or skipped. A generated duplicate is regenerated
// once; a covered-topic repeat is then accepted, but a question matching
// skipped ground is replaced with the fallback so skipped text never
// resurfaces.
func (r *TechnicalRound) AskQuestion(ctx context.Context) (string, bool) {
	if r.IsComplete() {
		return "", false
	}

	question := r.generate(ctx)
	if r.memory.IsDuplicateTopic(question) || Resurfaces(question, r.meta.SkippedQuestions) {
		log.Printf("technical question repeats covered or skipped ground, regenerating")
		question = r.generate(ctx)
	}
	if Resurfaces(question, r.meta.SkippedQuestions) {
		question = technicalFallbackQuestion
	}

	r.appendQuestion(question)
	return question, true
}

func (r *TechnicalRound) generate(ctx context.Context) string {
	covered := append(append([]string{}, r.memory.Covered()...), r.meta.SkippedQuestions...)

	system := prompts.Format(prompts.MustGet("technical.json", "system"), map[string]string{
		"Role": r.role,
	})
	prompt := prompts.Format(prompts.MustGet("technical.json", "question"), map[string]string{
		"Resume":  r.resume,
		"Covered": strings.Join(covered, "\n"),
		"Role":    r.role,
	})

	question, err := r.client.GenerateContent(ctx, system, prompt, llm.TierStandard)
	if err != nil {
		log.Printf("technical question generation failed: %v", err)
		return technicalFallbackQuestion
	}
	return strings.TrimSpace(question)
}

// ProvideAnswer records the answer, stores the pair in topic memory, and
// advances the round counter. Answers to a pending follow-up never consume
// a round slot.
func (r *TechnicalRound) ProvideAnswer(answer string) {
	qa, ok := r.recordAnswer(answer)
	if !ok {
		return
	}
	r.memory.Add(qa.Question, answer)
	if r.meta.LastFollowupAsked {
		return
	}
	if r.currentRound < r.rounds {
		r.currentRound++
	}
}

// GenerateFollowup produces a follow-up only from the third answered
// question onward.
func (r *TechnicalRound) GenerateFollowup(ctx context.Context, previousAnswer string) string {
	if r.currentRound < 2 {
		return ""
	}
	last := r.lastAnswered()
	if last == nil {
		return ""
	}

	system := prompts.MustGet("technical.json", "followup_system")
	prompt := prompts.Format(prompts.MustGet("technical.json", "followup"), map[string]string{
		"Role":     r.role,
		"Question": last.Question,
		"Answer":   previousAnswer,
	})

	followup, err := r.client.GenerateContent(ctx, system, prompt, llm.TierStandard)
	if err != nil {
		log.Printf("technical follow-up generation failed: %v", err)
		return ""
	}
	followup = strings.TrimSpace(followup)
	r.appendQuestion(followup)
	return followup
}

// SkipQuestion marks the pending question skipped, consumes its slot, and
// asks the next question.
func (r *TechnicalRound) SkipQuestion(ctx context.Context) SkipResult {
	if _, ok := r.markSkipped(); ok && r.currentRound < r.rounds {
		r.currentRound++
	}
	next, ok := r.AskQuestion(ctx)
	return SkipResult{
		SkippedCount: len(r.meta.SkippedQuestions),
		NextQuestion: next,
		Complete:     !ok,
	}
}

// RoundFeedback scores the round with the behavioral evaluator.
func (r *TechnicalRound) RoundFeedback(ctx context.Context) any {
	return r.scorer.Behavioral(ctx, r.history)
}

func (r *TechnicalRound) lastAnswered() *types.QARecord {
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Answered() {
			return &r.history[i]
		}
	}
	return nil
}
