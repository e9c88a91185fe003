// Package orchestrator owns the top-level interview state machine: it
// builds the round plan for a candidate, routes each submitted answer to
// the active round session, applies the detector and follow-up policies,
// transitions between rounds, runs the closing Q&A stage, and produces the
// merged feedback report exactly once.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-simulator/internal/coding"
	"github.com/jonathan/interview-simulator/internal/config"
	"github.com/jonathan/interview-simulator/internal/db"
	"github.com/jonathan/interview-simulator/internal/detect"
	"github.com/jonathan/interview-simulator/internal/feedback"
	"github.com/jonathan/interview-simulator/internal/llm"
	"github.com/jonathan/interview-simulator/internal/metrics"
	"github.com/jonathan/interview-simulator/internal/prompts"
	"github.com/jonathan/interview-simulator/internal/session"
	"github.com/jonathan/interview-simulator/internal/types"
)

// closingPhrases end the final Q&A stage when any of them appears in the
// candidate's lowercased response.
var closingPhrases = []string{
	"end", "no", "nothing", "that's all", "done", "no questions", "no thank you",
}

// Stage transition and closing messages.
const (
	msgSalesStageTwo = "Excellent! Now let's move to Round 2: Senior Leadership Interview. " +
		"This is our final assessment with a VP/Director to confirm your fit with our team and company vision."
	msgToCoding     = "Okay! Now let's move to the live coding round."
	msgToBehavioral = "Awesome. Now let's start the behavioral (HR) round."
	msgCodingDone   = "Coding round complete. Moving to HR."
	msgStartingQA   = "Thank you for all your responses! Before we wrap up, do you have any questions for me or our team? Or would you like to end the interview?"
	msgSalesQA      = "Thank you for your great responses! Before we wrap up, do you have any questions for me or our team?"
	msgSingleQA     = "Great! Do you have any questions for us? Or would you like to end the interview?"
	msgQAPrompt     = "Do you have any other questions for us? Or are you ready to wrap up?"
	msgGoodbye      = "Thank you so much for your time and great responses! " +
		"We'll review everything and share a feedback. Have a wonderful day!"
	msgComplete   = "The interview is complete. Thank you!"
	msgQAFallback = "That's a great question. We'll make sure to follow up with more details on it. " +
		"Do you have any other questions, or are you ready to wrap up?"
)

// Persistence is the storage the orchestrator needs: a resume lookup at
// setup time, a single completed-interview write at feedback time, and a
// listing of past interviews for the history surface.
type Persistence interface {
	FindUser(ctx context.Context, candidateID string) (*db.User, error)
	SaveCompletedInterview(ctx context.Context, rec *db.CompletedInterview) error
	ListInterviews(ctx context.Context, candidateID string) ([]db.CompletedInterview, error)
}

// Orchestrator sequences interview rounds for all live candidates.
type Orchestrator struct {
	client    llm.Client
	store     *Store
	persist   Persistence
	catalogue []types.Problem
	budgets   config.RoundBudgets
	metrics   *metrics.Registry
}

// New creates an orchestrator. persist may be nil, in which case setup
// skips the resume lookup and feedback is never persisted.
func New(client llm.Client, store *Store, persist Persistence, catalogue []types.Problem, budgets config.RoundBudgets, reg *metrics.Registry) *Orchestrator {
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &Orchestrator{
		client:    client,
		store:     store,
		persist:   persist,
		catalogue: catalogue,
		budgets:   budgets,
		metrics:   reg,
	}
}

// AnswerResponse is the outcome of one submitted answer.
type AnswerResponse struct {
	Text           string `json:"text"`
	Answer         string `json:"answer"`
	Followup       bool   `json:"followup,omitempty"`
	Intercepted    string `json:"intercepted,omitempty"`
	StartingQA     bool   `json:"starting_qa,omitempty"`
	StillInQA      bool   `json:"still_in_qa,omitempty"`
	InterviewEnded bool   `json:"interview_ended,omitempty"`
}

// StartSession builds the plan for a candidate and installs it in the
// store, replacing any previous session. customRound is consulted only
// when interviewType is custom.
func (o *Orchestrator) StartSession(ctx context.Context, candidateID, role string, interviewType types.InterviewType, customRound string) (string, error) {
	sessionID := uuid.NewString()

	resume := ""
	if o.persist != nil {
		user, err := o.persist.FindUser(ctx, candidateID)
		if err != nil {
			return "", fmt.Errorf("resume lookup failed: %w", err)
		}
		resume = resumeText(user)
	}

	plan := &SessionPlan{
		SessionID: sessionID,
		Role:      role,
		Mode:      interviewType,
		Resume:    resume,
	}

	switch interviewType {
	case types.InterviewFull:
		if types.IsSalesRole(role) {
			plan.Composite = &CompositePlan{
				Order: []types.RoundType{types.RoundSalesHiring, types.RoundSalesLeadership},
				Rounds: map[types.RoundType]session.Round{
					types.RoundSalesHiring:     session.NewSalesRound(o.client, role, sessionID, types.RoundSalesHiring, o.budgets.SalesStage),
					types.RoundSalesLeadership: session.NewSalesRound(o.client, role, sessionID+"_sr2", types.RoundSalesLeadership, o.budgets.SalesStage),
				},
			}
		} else {
			order := []types.RoundType{types.RoundTechnical}
			if !types.RoleSkipsCoding(role) {
				order = append(order, types.RoundCoding)
			}
			order = append(order, types.RoundBehavioral)

			plan.Composite = &CompositePlan{
				Order: order,
				Rounds: map[types.RoundType]session.Round{
					types.RoundTechnical:  session.NewTechnicalRound(o.client, role, resume, sessionID, o.budgets.Technical),
					types.RoundBehavioral: session.NewBehavioralRound(o.client, role, sessionID+"_hr", o.budgets.Behavioral),
					// The coding round is created lazily when reached.
				},
			}
		}
	case types.InterviewCustom:
		switch customRound {
		case "technical":
			plan.Single = session.NewTechnicalRound(o.client, role, resume, sessionID, o.budgets.CustomTechnical)
		case "behavioral":
			if types.IsSalesRole(role) {
				plan.Single = session.NewSalesRound(o.client, role, sessionID, types.RoundSalesLeadership, o.budgets.CustomSales)
			} else {
				plan.Single = session.NewBehavioralRound(o.client, role, sessionID, o.budgets.CustomBehavioral)
			}
		case "sales":
			plan.Single = session.NewSalesRound(o.client, role, sessionID, types.RoundSalesHiring, o.budgets.CustomSales)
		case "coding":
			plan.Single = session.NewCodingRound(o.client, role, o.catalogue, o.budgets.Coding)
		default:
			return "", fmt.Errorf("invalid custom round %q", customRound)
		}
	default:
		return "", fmt.Errorf("invalid interview type %q", interviewType)
	}

	o.store.Put(candidateID, plan)
	o.metrics.SessionStarted()
	return sessionID, nil
}

// SubmitAnswer routes one answer (or an empty first ping) through the
// state machine and returns the next prompt.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, candidateID, answer string, signals types.SideSignals) (*AnswerResponse, error) {
	plan, ok := o.store.Get(candidateID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	o.metrics.AnswerSubmitted()

	if plan.Ended {
		// A completed interview is a terminal response, not a failure.
		return &AnswerResponse{Text: msgComplete, Answer: answer, InterviewEnded: true}, nil
	}

	if plan.InFinalQA {
		return o.finalQA(ctx, plan, answer), nil
	}

	round := plan.CurrentRound()
	if round == nil {
		return &AnswerResponse{Text: msgComplete, Answer: answer, InterviewEnded: true}, nil
	}
	round.Meta().AddSignals(signals)

	// Greeting rule: the first call returns the opening question without
	// consuming a round slot; a non-empty first call answers it.
	if !round.Meta().GreetingSent {
		round.Meta().GreetingSent = true
		if strings.TrimSpace(answer) == "" {
			greeting := ""
			if h := round.History(); len(h) > 0 {
				greeting = h[0].Question
			}
			return &AnswerResponse{Text: greeting, Answer: ""}, nil
		}
	}

	// Detector interception: the answer is not recorded and the pending
	// question stays pending. The greeting is exempt.
	if resp := o.intercept(plan, round, answer); resp != nil {
		return resp, nil
	}

	round.ProvideAnswer(answer)

	prompt, isFollowup, more := session.NextPrompt(ctx, round, answer)
	if more {
		if isFollowup {
			o.metrics.FollowupAsked()
		} else {
			o.metrics.QuestionAsked()
		}
		return &AnswerResponse{Text: prompt, Answer: answer, Followup: isFollowup}, nil
	}

	return o.transition(plan, answer), nil
}

// intercept runs the confusion and off-topic detectors against the pending
// question. A non-nil response replaces the normal flow.
func (o *Orchestrator) intercept(plan *SessionPlan, round session.Round, answer string) *AnswerResponse {
	if round.Type() == types.RoundCoding {
		return nil
	}
	history := round.History()
	if len(history) < 2 {
		// Only the greeting is pending; small talk is not scored.
		return nil
	}
	pending := history[len(history)-1]
	if pending.Answered() {
		return nil
	}

	if sig := detect.DetectConfusion(answer, pending.Question); sig.Detected {
		o.metrics.ConfusionEvent()
		meta := round.Meta()
		meta.ConfusionCount++
		text := detect.ConfusionGuidance(sig.Category, pending.Question, answer)
		if meta.ConfusionCount > 1 {
			text = detect.EscalatedGuidance(meta.ConfusionCount - 1)
		}
		return &AnswerResponse{Text: text, Answer: answer, Intercepted: sig.Category}
	}

	if sig := detect.DetectOffTopic(answer, pending.Question, offTopicClass(round.Type())); sig.Detected {
		o.metrics.OffTopicEvent()
		text := detect.RedirectMessage(sig.Reason)
		if plan.Redirector.ShouldWarn() {
			text = detect.WarningMessage()
		}
		return &AnswerResponse{Text: text, Answer: answer, Intercepted: sig.Reason}
	}

	return nil
}

func offTopicClass(rt types.RoundType) string {
	switch rt {
	case types.RoundTechnical:
		return "technical"
	case types.RoundBehavioral:
		return "behavioral"
	case types.RoundSalesHiring, types.RoundSalesLeadership:
		return "sales"
	default:
		return string(rt)
	}
}

// transition reacts to a round reporting completion.
func (o *Orchestrator) transition(plan *SessionPlan, answer string) *AnswerResponse {
	if plan.Single != nil {
		plan.InFinalQA = true
		return &AnswerResponse{Text: msgSingleQA, Answer: answer, StartingQA: true}
	}

	comp := plan.Composite
	current, _ := comp.CurrentType()

	next, ok := comp.Advance()
	if !ok {
		plan.InFinalQA = true
		text := msgStartingQA
		if current == types.RoundSalesLeadership {
			text = msgSalesQA
		}
		return &AnswerResponse{Text: text, Answer: answer, StartingQA: true}
	}

	switch next {
	case types.RoundSalesLeadership:
		return &AnswerResponse{Text: msgSalesStageTwo, Answer: answer}
	case types.RoundCoding:
		o.ensureCodingRound(plan)
		return &AnswerResponse{Text: msgToCoding, Answer: answer}
	case types.RoundBehavioral:
		return &AnswerResponse{Text: msgToBehavioral, Answer: answer}
	default:
		return &AnswerResponse{Text: msgComplete, Answer: answer, InterviewEnded: true}
	}
}

// finalQA interprets answers during the closing stage: a closing phrase
// ends the interview, anything else is a candidate question answered once
// by the generation capability.
func (o *Orchestrator) finalQA(ctx context.Context, plan *SessionPlan, answer string) *AnswerResponse {
	trimmed := strings.TrimSpace(answer)
	lower := strings.ToLower(trimmed)

	for _, phrase := range closingPhrases {
		if strings.Contains(lower, phrase) {
			plan.Ended = true
			plan.EndedAt = time.Now()
			o.metrics.SessionCompleted()
			return &AnswerResponse{Text: msgGoodbye, Answer: answer, InterviewEnded: true}
		}
	}

	if trimmed == "" {
		return &AnswerResponse{Text: msgQAPrompt, Answer: answer, StillInQA: true}
	}

	system := prompts.Format(prompts.MustGet("closing.json", "qa_system"), map[string]string{
		"Role":     plan.Role,
		"Question": trimmed,
	})
	reply, err := o.client.GenerateContent(ctx, system, prompts.MustGet("closing.json", "qa_user"), llm.TierStandard)
	if err != nil {
		log.Printf("closing Q&A generation failed: %v", err)
		o.metrics.GenerationError()
		reply = msgQAFallback
	}
	return &AnswerResponse{Text: reply, Answer: answer, StillInQA: true}
}

// EndSession marks the interview ended. Repeated calls are no-ops; the end
// timestamp is stamped once.
func (o *Orchestrator) EndSession(candidateID string) error {
	plan, ok := o.store.Get(candidateID)
	if !ok {
		return ErrSessionNotFound
	}
	if !plan.Ended {
		plan.Ended = true
		plan.EndedAt = time.Now()
		o.metrics.SessionCompleted()
	}
	return nil
}

// ensureCodingRound creates the coding round the first time it is reached.
func (o *Orchestrator) ensureCodingRound(plan *SessionPlan) *session.CodingRound {
	comp := plan.Composite
	if comp == nil {
		return nil
	}
	if r, ok := comp.Rounds[types.RoundCoding]; ok && r != nil {
		return r.(*session.CodingRound)
	}
	r := session.NewCodingRound(o.client, plan.Role, o.catalogue, o.budgets.Coding)
	comp.Rounds[types.RoundCoding] = r
	return r
}

// codingRound resolves the active coding round, enforcing that the plan
// has actually reached it.
func (o *Orchestrator) codingRound(plan *SessionPlan) (*session.CodingRound, error) {
	if plan.Single != nil {
		if r, ok := plan.Single.(*session.CodingRound); ok {
			return r, nil
		}
		return nil, ErrNoCodingRound
	}

	comp := plan.Composite
	hasCoding := false
	for _, rt := range comp.Order {
		if rt == types.RoundCoding {
			hasCoding = true
		}
	}
	if !hasCoding {
		return nil, ErrNoCodingRound
	}
	if rt, ok := comp.CurrentType(); !ok || rt != types.RoundCoding {
		return nil, ErrRoundNotActive
	}
	return o.ensureCodingRound(plan), nil
}

// NextCodingProblem returns the next problem for the candidate's coding
// round, or nil when the round has run out of problems.
func (o *Orchestrator) NextCodingProblem(candidateID string) (*coding.ProblemWithIntro, error) {
	plan, ok := o.store.Get(candidateID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	round, err := o.codingRound(plan)
	if err != nil {
		return nil, err
	}

	p := round.NextProblem()
	if p != nil {
		o.metrics.QuestionAsked()
	}
	return p, nil
}

// CodeResponse reports the outcome of a code submission.
type CodeResponse struct {
	Next    bool                     `json:"next"`
	Problem *coding.ProblemWithIntro `json:"problem,omitempty"`
	Message string                   `json:"message,omitempty"`
}

// SubmitCode records the candidate's solution and either serves the next
// problem or, in a full interview, transitions to the behavioral round.
func (o *Orchestrator) SubmitCode(candidateID, code string) (*CodeResponse, error) {
	plan, ok := o.store.Get(candidateID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	round, err := o.codingRound(plan)
	if err != nil {
		return nil, err
	}

	round.SubmitSolution(code)

	if plan.Single != nil {
		return &CodeResponse{Next: false, Message: "Thanks for your submission."}, nil
	}

	if next := round.NextProblem(); next != nil {
		o.metrics.QuestionAsked()
		return &CodeResponse{Next: true, Problem: next}, nil
	}

	plan.Composite.Advance()
	return &CodeResponse{Next: false, Message: msgCodingDone}, nil
}

// CodeGuidance responds to the candidate's verbal explanation during the
// coding round with one leak-filtered Socratic question.
func (o *Orchestrator) CodeGuidance(ctx context.Context, candidateID, explanation string) (string, error) {
	plan, ok := o.store.Get(candidateID)
	if !ok {
		return "", ErrSessionNotFound
	}
	round, err := o.codingRound(plan)
	if err != nil {
		return "", err
	}

	round.ProvideAnswer(explanation)
	guidance, blocked := round.Engine().Guidance(ctx, explanation)
	if blocked {
		o.metrics.LeakViolation()
	}
	return guidance, nil
}

// RoundTranscript pairs a round's type with its question/answer history.
type RoundTranscript struct {
	Type    types.RoundType
	History []types.QARecord
}

// Transcripts returns the history of every instantiated round in plan
// order.
func (o *Orchestrator) Transcripts(candidateID string) ([]RoundTranscript, error) {
	plan, ok := o.store.Get(candidateID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	var transcripts []RoundTranscript
	for _, round := range plan.AllRounds() {
		transcripts = append(transcripts, RoundTranscript{Type: round.Type(), History: round.History()})
	}
	return transcripts, nil
}

// CompletedInterviews returns the candidate's persisted interview records,
// newest first. Without a persistence adapter the list is empty.
func (o *Orchestrator) CompletedInterviews(ctx context.Context, candidateID string) ([]db.CompletedInterview, error) {
	if o.persist == nil {
		return nil, nil
	}
	return o.persist.ListInterviews(ctx, candidateID)
}

// History returns the active round's question/answer history.
func (o *Orchestrator) History(candidateID string) ([]types.QARecord, error) {
	plan, ok := o.store.Get(candidateID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	round := plan.CurrentRound()
	if round == nil {
		return nil, nil
	}
	return round.History(), nil
}

// GetFeedback scores every instantiated round, merges the results with the
// averaged side signals, and persists the report exactly once per session.
// Persistence failures propagate; a lost record is worse than a visible
// error.
func (o *Orchestrator) GetFeedback(ctx context.Context, candidateID string) (*types.Report, error) {
	plan, ok := o.store.Get(candidateID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	report := &types.Report{Rounds: make(map[string]any)}
	var metas []*types.RoundMeta
	var transcript strings.Builder

	for _, round := range plan.AllRounds() {
		report.Rounds[feedbackLabel(round.Type())] = round.RoundFeedback(ctx)
		metas = append(metas, round.Meta())
		transcript.WriteString(feedback.Transcript(round.History()))
	}

	report.AverageConfidence, report.AverageFocus = feedback.Averages(metas...)

	if o.persist != nil && !plan.FeedbackSaved {
		payload, err := json.Marshal(report.Rounds)
		if err != nil {
			return nil, fmt.Errorf("failed to encode feedback: %w", err)
		}
		rec := &db.CompletedInterview{
			CandidateID:       candidateID,
			Role:              plan.Role,
			Mode:              string(plan.Mode),
			Date:              time.Now(),
			Transcript:        transcript.String(),
			Feedback:          payload,
			AverageConfidence: report.AverageConfidence,
			AverageFocus:      report.AverageFocus,
		}
		if err := o.persist.SaveCompletedInterview(ctx, rec); err != nil {
			return nil, fmt.Errorf("failed to persist feedback: %w", err)
		}
		plan.FeedbackSaved = true
	}

	return report, nil
}

// Metrics exposes the counter registry.
func (o *Orchestrator) Metrics() *metrics.Registry { return o.metrics }

func feedbackLabel(rt types.RoundType) string {
	switch rt {
	case types.RoundSalesHiring:
		return "hiring_manager"
	case types.RoundSalesLeadership:
		return "senior_leadership"
	default:
		return string(rt)
	}
}

// resumeText flattens a user profile into the structured text block fed to
// the technical question generator.
func resumeText(u *db.User) string {
	return strings.Join([]string{
		"Name: " + u.Name,
		"Email: " + u.Email,
		"Phone: " + u.Phone,
		"Skills: " + strings.Join(u.Skills, ", "),
		"Projects: " + strings.Join(u.Projects, ", "),
		"Experience: " + strings.Join(u.Experience, ", "),
	}, "\n")
}
