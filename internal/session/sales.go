package session

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/interview-simulator/internal/feedback"
	"github.com/jonathan/interview-simulator/internal/llm"
	"github.com/jonathan/interview-simulator/internal/prompts"
	"github.com/jonathan/interview-simulator/internal/types"
)

const salesHiringGreeting = "Welcome to the Sales Interview - Round 1: Hiring Manager Interview. " +
	"Let's discuss your sales process, past performance, and how you handle specific situations. Ready to begin?"

const salesLeadershipGreeting = "Welcome to the Sales Interview - Round 2: Senior Leadership Interview. " +
	"This is our final assessment round. We'll discuss your fit with our team and company vision. Let's get started!"

const salesHiringFallbackQuestion = "Walk me through a deal you closed recently, from first contact to signature."

const salesLeadershipFallbackQuestion = "Where do you see yourself taking a sales team in the next three years?"

// SalesRound runs one stage of the two-stage sales track. The two stages
// carry distinct system framing and greetings but share counter semantics
// with the technical variant: the counter advances on ProvideAnswer.
type SalesRound struct {
	baseRound
	stage  types.RoundType
	client llm.Client
	memory *TopicMemory
	scorer *feedback.Aggregator
}

// NewSalesRound creates a sales round for the given stage
// (RoundSalesHiring or RoundSalesLeadership), seeded with the stage
// greeting.
func NewSalesRound(client llm.Client, role, sessionID string, stage types.RoundType, rounds int) *SalesRound {
	r := &SalesRound{
		baseRound: baseRound{role: role, sessionID: sessionID, rounds: rounds},
		stage:     stage,
		client:    client,
		memory:    &TopicMemory{},
		scorer:    feedback.NewAggregator(client),
	}
	greeting := salesHiringGreeting
	if stage == types.RoundSalesLeadership {
		greeting = salesLeadershipGreeting
	}
	r.appendQuestion(greeting)
	return r
}

func (r *SalesRound) Type() types.RoundType { return r.stage }

// AskQuestion generates the next stage-specific sales question. A question
// repeating covered or skipped ground is regenerated once; one that still
// matches skipped ground is replaced with the stage fallback so skipped
// text never resurfaces.
func (r *SalesRound) AskQuestion(ctx context.Context) (string, bool) {
	if r.IsComplete() {
		return "", false
	}

	question := r.generate(ctx)
	if r.memory.IsDuplicateTopic(question) || Resurfaces(question, r.meta.SkippedQuestions) {
		log.Printf("sales question repeats covered or skipped ground, regenerating")
		question = r.generate(ctx)
	}
	if Resurfaces(question, r.meta.SkippedQuestions) {
		question = r.fallback()
	}

	r.appendQuestion(question)
	return question, true
}

func (r *SalesRound) generate(ctx context.Context) string {
	systemKey := "hiring_manager_system"
	if r.stage == types.RoundSalesLeadership {
		systemKey = "senior_leadership_system"
	}

	system := prompts.MustGet("sales.json", systemKey)
	prompt := prompts.Format(prompts.MustGet("sales.json", "question"), map[string]string{
		"Role":   r.role,
		"Number": fmt.Sprintf("%d", r.currentRound+1),
		"Total":  fmt.Sprintf("%d", r.rounds),
	})

	question, err := r.client.GenerateContent(ctx, system, prompt, llm.TierStandard)
	if err != nil {
		log.Printf("sales question generation failed: %v", err)
		return r.fallback()
	}
	return strings.TrimSpace(question)
}

func (r *SalesRound) fallback() string {
	if r.stage == types.RoundSalesLeadership {
		return salesLeadershipFallbackQuestion
	}
	return salesHiringFallbackQuestion
}

// ProvideAnswer records the answer, stores the pair in topic memory, and
// advances the round counter. Answers to a pending follow-up never consume
// a round slot.
func (r *SalesRound) ProvideAnswer(answer string) {
	qa, ok := r.recordAnswer(answer)
	if !ok {
		return
	}
	if len(r.history) > 1 {
		r.memory.Add(qa.Question, answer)
	}
	if r.meta.LastFollowupAsked {
		return
	}
	if r.currentRound < r.rounds {
		r.currentRound++
	}
}

// GenerateFollowup produces a stage-specific follow-up once a main question
// has been asked after the greeting.
func (r *SalesRound) GenerateFollowup(ctx context.Context, previousAnswer string) string {
	if len(r.history) < 2 {
		return ""
	}
	last := r.history[len(r.history)-1]
	if !last.Answered() {
		return ""
	}

	followupKey := "hiring_manager_followup"
	if r.stage == types.RoundSalesLeadership {
		followupKey = "senior_leadership_followup"
	}

	system := prompts.MustGet("sales.json", "followup_system")
	prompt := prompts.Format(prompts.MustGet("sales.json", followupKey), map[string]string{
		"Question": last.Question,
		"Answer":   previousAnswer,
	})

	followup, err := r.client.GenerateContent(ctx, system, prompt, llm.TierStandard)
	if err != nil {
		log.Printf("sales follow-up generation failed: %v", err)
		return ""
	}
	followup = strings.TrimSpace(followup)
	r.appendQuestion(followup)
	return followup
}

// SkipQuestion marks the pending question skipped, consumes its slot, and
// asks the next question.
func (r *SalesRound) SkipQuestion(ctx context.Context) SkipResult {
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

// RoundFeedback scores the round with the stage-labelled sales evaluator.
func (r *SalesRound) RoundFeedback(ctx context.Context) any {
	return r.scorer.Sales(ctx, r.history, r.stage)
}
