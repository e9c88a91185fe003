package coding

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"

	"github.com/jonathan/interview-simulator/internal/llm"
	"github.com/jonathan/interview-simulator/internal/prompts"
	"github.com/jonathan/interview-simulator/internal/types"
)

// fallbackQuestions is the fixed pool of generic Socratic questions used
// when generated guidance trips the anti-leak filter or generation fails.
var fallbackQuestions = []string{
	"What's the smallest version of this problem you could solve by hand?",
	"Walk me through a small example manually - what pattern do you notice?",
	"What would you need to keep track of as you move through the input?",
	"Have you considered what happens with edge cases, like an empty input?",
	"If the input were ten times larger, where do you think your approach would struggle?",
	"Before coding, can you outline your approach in plain language?",
}

// ProblemWithIntro is a catalogue problem annotated with the spoken
// introduction delivered to the candidate.
type ProblemWithIntro struct {
	types.Problem
	SpokenIntro string `json:"spoken_intro"`
}

// Engine selects, sequences, and bounds delivery of coding problems for one
// session, and records submitted solutions. The catalogue is read-only; the
// engine consumes a per-session randomized, non-repeating permutation of it.
type Engine struct {
	client       llm.Client
	rounds       int
	currentRound int
	order        []int
	problems     []types.Problem
	history      []types.CodingAttempt
	explanations []string
}

// NewEngine creates an engine over the given catalogue, bounded to the
// configured number of rounds.
func NewEngine(client llm.Client, problems []types.Problem, rounds int) *Engine {
	return newEngine(client, problems, rounds, rand.Perm(len(problems)))
}

// newEngine allows tests to pin the permutation.
func newEngine(client llm.Client, problems []types.Problem, rounds int, order []int) *Engine {
	return &Engine{
		client:   client,
		rounds:   rounds,
		order:    order,
		problems: problems,
	}
}

// NextProblem returns the next problem in permutation order, annotated with
// its spoken introduction, or nil once the configured round count or the
// catalogue is exhausted, whichever is smaller.
func (e *Engine) NextProblem() *ProblemWithIntro {
	if e.currentRound >= e.rounds || e.currentRound >= len(e.order) {
		return nil
	}

	problem := e.problems[e.order[e.currentRound]]
	number := e.currentRound + 1

	intro := fmt.Sprintf(
		"Okay, let's move on to question number %d. The problem is titled: %s. "+
			"Here is the problem statement: %s Take a moment to process that. "+
			"Before you start typing any code, please explain your approach to me verbally. "+
			"I want to hear your logic first.",
		number, problem.Title, problem.Description,
	)

	e.currentRound++
	e.history = append(e.history, types.CodingAttempt{Problem: problem})

	return &ProblemWithIntro{Problem: problem, SpokenIntro: intro}
}

// SubmitSolution overwrites the code of the most recently presented
// problem. The engine never validates or executes submissions.
func (e *Engine) SubmitSolution(code string) {
	if len(e.history) > 0 {
		e.history[len(e.history)-1].Code = code
	}
}

// Guidance produces one Socratic question in response to the candidate's
// verbal explanation. Generated text always passes through the anti-leak
// filter; on a violation or a generation failure a generic fallback
// question is substituted, chosen uniformly at random.
func (e *Engine) Guidance(ctx context.Context, explanation string) (string, bool) {
	e.explanations = append(e.explanations, explanation)

	var attempt types.CodingAttempt
	if len(e.history) > 0 {
		attempt = e.history[len(e.history)-1]
	}
	problemJSON, _ := json.MarshalIndent(attempt.Problem, "", "  ")

	system := prompts.MustGet("coding.json", "guidance_system")
	prompt := prompts.Format(prompts.MustGet("coding.json", "guidance"), map[string]string{
		"Problem":     string(problemJSON),
		"Code":        attempt.Code,
		"Explanation": explanation,
	})

	raw, err := e.client.GenerateContent(ctx, system, prompt, llm.TierAdvanced)
	if err != nil {
		log.Printf("coding guidance generation failed: %v", err)
		return fallbackQuestions[rand.Intn(len(fallbackQuestions))], false
	}

	sanitized, violated := Sanitize(raw)
	if violated {
		log.Printf("coding guidance blocked by anti-leak filter")
		return fallbackQuestions[rand.Intn(len(fallbackQuestions))], true
	}
	return sanitized, false
}

// IsComplete reports whether the coding round has no more problems to give.
func (e *Engine) IsComplete() bool {
	return e.currentRound >= e.rounds || e.currentRound >= len(e.order)
}

// CurrentRound returns how many problems have been presented.
func (e *Engine) CurrentRound() int {
	return e.currentRound
}

// Rounds returns the configured problem budget.
func (e *Engine) Rounds() int {
	return e.rounds
}

// History returns the attempts presented so far, in order.
func (e *Engine) History() []types.CodingAttempt {
	return e.history
}
