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

const behavioralGreeting = "Welcome to the HR round of your interview. Tell me about your strengths and weaknesses."

const behavioralFallbackQuestion = "Tell me about a time you had to work through a disagreement with a teammate."

// BehavioralRound asks HR-style questions about communication, teamwork,
// and leadership. Unlike the technical variant its counter advances when a
// question is asked, not when it is answered.
type BehavioralRound struct {
	baseRound
	client llm.Client
	scorer *feedback.Aggregator
}

// NewBehavioralRound creates a behavioral round seeded with its greeting.
func NewBehavioralRound(client llm.Client, role, sessionID string, rounds int) *BehavioralRound {
	r := &BehavioralRound{
		baseRound: baseRound{role: role, sessionID: sessionID, rounds: rounds},
		client:    client,
		scorer:    feedback.NewAggregator(client),
	}
	r.appendQuestion(behavioralGreeting)
	return r
}

func (r *BehavioralRound) Type() types.RoundType { return types.RoundBehavioral }

// AskQuestion generates the next behavioral question and consumes one round
// slot.
func (r *BehavioralRound) AskQuestion(ctx context.Context) (string, bool) {
	if r.IsComplete() {
		return "", false
	}

	var asked []string
	for _, qa := range r.history {
		asked = append(asked, qa.Question)
	}
	asked = append(asked, r.meta.SkippedQuestions...)

	system := prompts.Format(prompts.MustGet("behavioral.json", "system"), map[string]string{
		"Role": r.role,
	})
	prompt := prompts.Format(prompts.MustGet("behavioral.json", "question"), map[string]string{
		"Covered": strings.Join(asked, "\n"),
		"Role":    r.role,
	})

	question, err := r.client.GenerateContent(ctx, system, prompt, llm.TierStandard)
	if err != nil {
		log.Printf("behavioral question generation failed: %v", err)
		question = behavioralFallbackQuestion
	}
	question = strings.TrimSpace(question)

	// A question matching skipped ground is regenerated once, then replaced
	// with the fallback so skipped text never resurfaces.
	if Resurfaces(question, r.meta.SkippedQuestions) {
		log.Printf("behavioral question repeats skipped ground, regenerating")
		if retry, retryErr := r.client.GenerateContent(ctx, system, prompt, llm.TierStandard); retryErr == nil {
			question = strings.TrimSpace(retry)
		}
		if Resurfaces(question, r.meta.SkippedQuestions) {
			question = behavioralFallbackQuestion
		}
	}

	r.appendQuestion(question)
	r.currentRound++
	return question, true
}

// ProvideAnswer records the answer without touching the counter.
func (r *BehavioralRound) ProvideAnswer(answer string) {
	r.recordAnswer(answer)
}

// GenerateFollowup produces a follow-up once at least one main question has
// been asked after the greeting.
func (r *BehavioralRound) GenerateFollowup(ctx context.Context, previousAnswer string) string {
	if len(r.history) < 2 {
		return ""
	}
	last := r.history[len(r.history)-1]
	if !last.Answered() {
		return ""
	}

	system := prompts.MustGet("behavioral.json", "followup_system")
	prompt := prompts.Format(prompts.MustGet("behavioral.json", "followup"), map[string]string{
		"Role":     r.role,
		"Question": last.Question,
		"Answer":   previousAnswer,
	})

	followup, err := r.client.GenerateContent(ctx, system, prompt, llm.TierStandard)
	if err != nil {
		log.Printf("behavioral follow-up generation failed: %v", err)
		return ""
	}
	followup = strings.TrimSpace(followup)
	r.appendQuestion(followup)
	return followup
}

// SkipQuestion marks the pending question skipped and asks the next one,
// which consumes the next slot.
func (r *BehavioralRound) SkipQuestion(ctx context.Context) SkipResult {
	r.markSkipped()
	next, ok := r.AskQuestion(ctx)
	return SkipResult{
		SkippedCount: len(r.meta.SkippedQuestions),
		NextQuestion: next,
		Complete:     !ok,
	}
}

// RoundFeedback scores the round with the behavioral evaluator.
func (r *BehavioralRound) RoundFeedback(ctx context.Context) any {
	return r.scorer.Behavioral(ctx, r.history)
}
