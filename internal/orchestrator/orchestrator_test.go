package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-simulator/internal/config"
	"github.com/jonathan/interview-simulator/internal/db"
	"github.com/jonathan/interview-simulator/internal/llm"
	"github.com/jonathan/interview-simulator/internal/types"
)

// stubClient serves scripted main questions and declines follow-ups unless
// one is configured.
type stubClient struct {
	questions []string
	idx       int
	followup  string
	json      string
}

func (s *stubClient) GenerateContent(ctx context.Context, system, prompt string, tier llm.ModelTier) (string, error) {
	if strings.Contains(prompt, "follow-up question") {
		if s.followup == "" {
			return "", errors.New("follow-up declined")
		}
		return s.followup, nil
	}
	if len(s.questions) == 0 {
		return "Tell me about a recent project you shipped to production", nil
	}
	i := s.idx
	if i >= len(s.questions) {
		i = len(s.questions) - 1
	}
	s.idx++
	return s.questions[i], nil
}

func (s *stubClient) GenerateJSON(ctx context.Context, system, prompt string, tier llm.ModelTier) (string, error) {
	if s.json == "" {
		return `{"relevance": 4, "clarity": 4, "depth": 4, "examples": 4, "communication": 4, "overall": 4, "summary": "Solid."}`, nil
	}
	return s.json, nil
}

func (s *stubClient) Close() error { return nil }

// fakePersistence records saved interviews in memory and lists them back.
type fakePersistence struct {
	user  *db.User
	saved []*db.CompletedInterview
	err   error
}

func (f *fakePersistence) FindUser(ctx context.Context, candidateID string) (*db.User, error) {
	if f.user == nil {
		return nil, db.ErrUserNotFound
	}
	return f.user, nil
}

func (f *fakePersistence) SaveCompletedInterview(ctx context.Context, rec *db.CompletedInterview) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakePersistence) ListInterviews(ctx context.Context, candidateID string) ([]db.CompletedInterview, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []db.CompletedInterview
	for _, rec := range f.saved {
		if rec.CandidateID == candidateID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func testBudgets() config.RoundBudgets {
	return config.RoundBudgets{
		Technical:        5,
		Behavioral:       3,
		Coding:           3,
		SalesStage:       3,
		CustomTechnical:  3,
		CustomBehavioral: 3,
		CustomSales:      3,
	}
}

func testProblems() []types.Problem {
	return []types.Problem{
		{ID: 1, Title: "Two Sum", Description: "Find two indices that sum to target."},
		{ID: 2, Title: "Valid Parentheses", Description: "Check bracket matching."},
		{ID: 3, Title: "Min Stack", Description: "Constant-time minimum stack."},
		{ID: 4, Title: "Maximum Subarray", Description: "Largest contiguous sum."},
	}
}

func newTestOrchestrator(client llm.Client, persist Persistence) *Orchestrator {
	return New(client, NewStore(time.Hour), persist, testProblems(), testBudgets(), nil)
}

func TestStartSession_PlanBranching(t *testing.T) {
	tests := []struct {
		name      string
		role      string
		itype     types.InterviewType
		custom    string
		wantOrder []types.RoundType
		single    bool
	}{
		{
			name:      "full engineering plan includes coding",
			role:      "software engineer",
			itype:     types.InterviewFull,
			wantOrder: []types.RoundType{types.RoundTechnical, types.RoundCoding, types.RoundBehavioral},
		},
		{
			name:      "frontend developer skips coding",
			role:      "Frontend Developer",
			itype:     types.InterviewFull,
			wantOrder: []types.RoundType{types.RoundTechnical, types.RoundBehavioral},
		},
		{
			name:      "data scientist skips coding",
			role:      "data scientist",
			itype:     types.InterviewFull,
			wantOrder: []types.RoundType{types.RoundTechnical, types.RoundBehavioral},
		},
		{
			name:      "sales role gets two-stage track",
			role:      "Sales Representative",
			itype:     types.InterviewFull,
			wantOrder: []types.RoundType{types.RoundSalesHiring, types.RoundSalesLeadership},
		},
		{
			name:   "custom technical is a single round",
			role:   "software engineer",
			itype:  types.InterviewCustom,
			custom: "technical",
			single: true,
		},
		{
			name:   "custom coding is a single round",
			role:   "software engineer",
			itype:  types.InterviewCustom,
			custom: "coding",
			single: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOrchestrator(&stubClient{}, nil)
			sessionID, err := o.StartSession(context.Background(), "cand", tt.role, tt.itype, tt.custom)
			require.NoError(t, err)
			assert.NotEmpty(t, sessionID)

			plan, ok := o.store.Get("cand")
			require.True(t, ok)
			if tt.single {
				assert.NotNil(t, plan.Single)
				assert.Nil(t, plan.Composite)
			} else {
				require.NotNil(t, plan.Composite)
				assert.Equal(t, tt.wantOrder, plan.Composite.Order)
			}
		})
	}
}

func TestStartSession_SalesCustomBehavioralUsesLeadershipStage(t *testing.T) {
	o := newTestOrchestrator(&stubClient{}, nil)
	_, err := o.StartSession(context.Background(), "cand", "sales representative", types.InterviewCustom, "behavioral")
	require.NoError(t, err)

	plan, _ := o.store.Get("cand")
	require.NotNil(t, plan.Single)
	assert.Equal(t, types.RoundSalesLeadership, plan.Single.Type())
}

func TestStartSession_InvalidCustomRound(t *testing.T) {
	o := newTestOrchestrator(&stubClient{}, nil)
	_, err := o.StartSession(context.Background(), "cand", "software engineer", types.InterviewCustom, "astrology")
	assert.Error(t, err)
}

func TestSubmitAnswer_SessionNotFound(t *testing.T) {
	o := newTestOrchestrator(&stubClient{}, nil)
	_, err := o.SubmitAnswer(context.Background(), "ghost", "hello", types.SideSignals{})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSubmitAnswer_TechnicalRoundEndToEnd(t *testing.T) {
	client := &stubClient{questions: []string{
		"Tell me about a challenging bug you fixed in production code",
		"How do you approach designing the architecture of a new system",
		"Describe your testing strategy for a large database application",
	}}
	o := newTestOrchestrator(client, nil)
	ctx := context.Background()

	_, err := o.StartSession(ctx, "cand", "software engineer", types.InterviewCustom, "technical")
	require.NoError(t, err)

	// Empty first ping returns the greeting without consuming a slot.
	resp, err := o.SubmitAnswer(ctx, "cand", "", types.SideSignals{})
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "Technical round")

	plan, _ := o.store.Get("cand")
	round := plan.Single
	assert.Equal(t, 0, round.CurrentRound())

	answers := []string{
		"Doing great, thanks for asking, happy to get started",
		"I fixed a production bug in our payment code by adding regression tests and a database index",
		"I kept the architecture stateless and sharded the database for performance",
	}

	resp, err = o.SubmitAnswer(ctx, "cand", answers[0], types.SideSignals{Confidence: 0.8, Focus: 0.9})
	require.NoError(t, err)
	assert.Equal(t, 1, round.CurrentRound())
	assert.NotEmpty(t, resp.Text)

	resp, err = o.SubmitAnswer(ctx, "cand", answers[1], types.SideSignals{Confidence: 0.7, Focus: 0.8})
	require.NoError(t, err)
	assert.Equal(t, 2, round.CurrentRound())

	resp, err = o.SubmitAnswer(ctx, "cand", answers[2], types.SideSignals{Confidence: 0.9, Focus: 0.9})
	require.NoError(t, err)
	assert.Equal(t, 3, round.CurrentRound())
	assert.True(t, resp.StartingQA)
	assert.True(t, plan.InFinalQA)

	// Closing phrase ends the interview.
	resp, err = o.SubmitAnswer(ctx, "cand", "No, that's all from me", types.SideSignals{})
	require.NoError(t, err)
	assert.True(t, resp.InterviewEnded)
	assert.True(t, plan.Ended)

	// Further answers get the terminal response, not an error.
	resp, err = o.SubmitAnswer(ctx, "cand", "one more thing", types.SideSignals{})
	require.NoError(t, err)
	assert.True(t, resp.InterviewEnded)
}

func TestSubmitAnswer_FinalQAAnswersCandidateQuestions(t *testing.T) {
	client := &stubClient{questions: []string{"We ship weekly and pair often. Anything else?"}}
	o := newTestOrchestrator(client, nil)
	ctx := context.Background()

	_, err := o.StartSession(ctx, "cand", "software engineer", types.InterviewCustom, "technical")
	require.NoError(t, err)
	plan, _ := o.store.Get("cand")
	plan.InFinalQA = true

	resp, err := o.SubmitAnswer(ctx, "cand", "What is the team culture like?", types.SideSignals{})
	require.NoError(t, err)
	assert.True(t, resp.StillInQA)
	assert.False(t, plan.Ended)

	resp, err = o.SubmitAnswer(ctx, "cand", "", types.SideSignals{})
	require.NoError(t, err)
	assert.True(t, resp.StillInQA)
	assert.Equal(t, msgQAPrompt, resp.Text)
}

func TestSubmitAnswer_OffTopicInterception(t *testing.T) {
	client := &stubClient{questions: []string{
		"Tell me about a challenging bug you fixed in production code",
	}}
	o := newTestOrchestrator(client, nil)
	ctx := context.Background()

	_, err := o.StartSession(ctx, "cand", "software engineer", types.InterviewCustom, "technical")
	require.NoError(t, err)
	plan, _ := o.store.Get("cand")
	round := plan.Single

	// Answer the greeting, get the first main question.
	_, err = o.SubmitAnswer(ctx, "cand", "Doing great, thanks for asking, happy to get started", types.SideSignals{})
	require.NoError(t, err)
	require.Equal(t, 1, round.CurrentRound())

	// An off-topic answer is intercepted: not recorded, no slot consumed.
	resp, err := o.SubmitAnswer(ctx, "cand", "What's your salary range for this role?", types.SideSignals{})
	require.NoError(t, err)
	assert.Equal(t, "company_logistics", resp.Intercepted)
	assert.Contains(t, resp.Text, "recruiter")
	assert.Equal(t, 1, round.CurrentRound())

	// A second drift triggers the stronger fixed warning.
	resp, err = o.SubmitAnswer(ctx, "cand", "What are your benefits and vacation days like?", types.SideSignals{})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Intercepted)
	assert.Contains(t, resp.Text, "off track")
	assert.Equal(t, 1, round.CurrentRound())

	// The pending question can still be answered normally afterwards.
	_, err = o.SubmitAnswer(ctx, "cand", "I fixed a production bug in our payment code by adding regression tests", types.SideSignals{})
	require.NoError(t, err)
	assert.Equal(t, 2, round.CurrentRound())
}

func TestSubmitAnswer_ConfusionInterception(t *testing.T) {
	client := &stubClient{questions: []string{
		"Tell me about a challenging bug you fixed in production code",
	}}
	o := newTestOrchestrator(client, nil)
	ctx := context.Background()

	_, err := o.StartSession(ctx, "cand", "software engineer", types.InterviewCustom, "technical")
	require.NoError(t, err)
	plan, _ := o.store.Get("cand")
	round := plan.Single

	_, err = o.SubmitAnswer(ctx, "cand", "Doing great, thanks for asking, happy to get started", types.SideSignals{})
	require.NoError(t, err)

	// A near-empty answer is flagged as confusion, not recorded.
	resp, err := o.SubmitAnswer(ctx, "cand", "um", types.SideSignals{})
	require.NoError(t, err)
	assert.Equal(t, "empty_answer", resp.Intercepted)
	assert.Equal(t, 1, round.Meta().ConfusionCount)
	assert.Equal(t, 1, round.CurrentRound())

	// Repeated confusion escalates to simpler guidance.
	resp, err = o.SubmitAnswer(ctx, "cand", "I don't know, I'm not sure what you mean", types.SideSignals{})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Intercepted)
	assert.Equal(t, 2, round.Meta().ConfusionCount)
	assert.Contains(t, resp.Text, "simplify")
}

func TestCodingFlow_FullInterview(t *testing.T) {
	o := newTestOrchestrator(&stubClient{}, nil)
	ctx := context.Background()

	_, err := o.StartSession(ctx, "cand", "software engineer", types.InterviewFull, "")
	require.NoError(t, err)
	plan, _ := o.store.Get("cand")

	// Coding problems cannot be requested during the technical round.
	_, err = o.NextCodingProblem("cand")
	assert.ErrorIs(t, err, ErrRoundNotActive)

	// The coding round is created lazily once the cursor reaches it.
	plan.Composite.Current = 1
	require.Nil(t, plan.Composite.Rounds[types.RoundCoding])

	p, err := o.NextCodingProblem("cand")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.NotNil(t, plan.Composite.Rounds[types.RoundCoding])

	// Submitting code serves the next problem until the budget runs out,
	// then transitions to the behavioral round.
	res, err := o.SubmitCode("cand", "func solve() {}")
	require.NoError(t, err)
	assert.True(t, res.Next)
	require.NotNil(t, res.Problem)

	res, err = o.SubmitCode("cand", "func solve2() {}")
	require.NoError(t, err)
	assert.True(t, res.Next)

	res, err = o.SubmitCode("cand", "func solve3() {}")
	require.NoError(t, err)
	assert.False(t, res.Next)
	assert.Equal(t, msgCodingDone, res.Message)

	rt, ok := plan.Composite.CurrentType()
	require.True(t, ok)
	assert.Equal(t, types.RoundBehavioral, rt)
}

func TestCodingFlow_NoCodingRoundPlanned(t *testing.T) {
	o := newTestOrchestrator(&stubClient{}, nil)
	ctx := context.Background()

	_, err := o.StartSession(ctx, "cand", "frontend developer", types.InterviewFull, "")
	require.NoError(t, err)

	_, err = o.NextCodingProblem("cand")
	assert.ErrorIs(t, err, ErrNoCodingRound)
}

func TestCodeGuidance_LeakBlocked(t *testing.T) {
	client := &stubClient{questions: []string{"Here is the solution: use a hash map"}}
	o := newTestOrchestrator(client, nil)
	ctx := context.Background()

	_, err := o.StartSession(ctx, "cand", "software engineer", types.InterviewCustom, "coding")
	require.NoError(t, err)

	_, err = o.NextCodingProblem("cand")
	require.NoError(t, err)

	guidance, err := o.CodeGuidance(ctx, "cand", "I want to try brute force first")
	require.NoError(t, err)
	assert.NotContains(t, guidance, "hash map")
	assert.Equal(t, int64(1), o.Metrics().Snapshot().LeakViolations)
}

func TestEndSession_Idempotent(t *testing.T) {
	o := newTestOrchestrator(&stubClient{}, nil)
	ctx := context.Background()

	assert.ErrorIs(t, o.EndSession("ghost"), ErrSessionNotFound)

	_, err := o.StartSession(ctx, "cand", "software engineer", types.InterviewCustom, "technical")
	require.NoError(t, err)

	require.NoError(t, o.EndSession("cand"))
	plan, _ := o.store.Get("cand")
	endedAt := plan.EndedAt
	require.False(t, endedAt.IsZero())

	require.NoError(t, o.EndSession("cand"))
	assert.Equal(t, endedAt, plan.EndedAt)
}

func TestGetFeedback_PersistsExactlyOnce(t *testing.T) {
	persist := &fakePersistence{user: &db.User{Email: "cand", Name: "Jo"}}
	o := newTestOrchestrator(&stubClient{}, persist)
	ctx := context.Background()

	_, err := o.StartSession(ctx, "cand", "software engineer", types.InterviewCustom, "behavioral")
	require.NoError(t, err)

	plan, _ := o.store.Get("cand")
	plan.Single.ProvideAnswer("My strengths are focus and follow-through")

	report, err := o.GetFeedback(ctx, "cand")
	require.NoError(t, err)
	assert.Contains(t, report.Rounds, "behavioral")

	_, err = o.GetFeedback(ctx, "cand")
	require.NoError(t, err)
	assert.Len(t, persist.saved, 1)
	assert.Equal(t, "cand", persist.saved[0].CandidateID)
	assert.Equal(t, "custom", persist.saved[0].Mode)
}

func TestGetFeedback_PersistenceFailurePropagates(t *testing.T) {
	persist := &fakePersistence{user: &db.User{Email: "cand"}, err: errors.New("disk full")}
	o := newTestOrchestrator(&stubClient{}, persist)
	ctx := context.Background()

	_, err := o.StartSession(ctx, "cand", "software engineer", types.InterviewCustom, "behavioral")
	require.NoError(t, err)

	_, err = o.GetFeedback(ctx, "cand")
	assert.Error(t, err)

	// The flag is not set on failure, so a retry attempts the save again.
	plan, _ := o.store.Get("cand")
	assert.False(t, plan.FeedbackSaved)
}

func TestGetFeedback_SalesLabels(t *testing.T) {
	client := &stubClient{json: `{"sales_acumen": 4, "communication": 4, "problem_solving": 4, "examples": 4, "overall": 4, "summary": "Strong."}`}
	o := newTestOrchestrator(client, nil)
	ctx := context.Background()

	_, err := o.StartSession(ctx, "cand", "sales representative", types.InterviewFull, "")
	require.NoError(t, err)

	report, err := o.GetFeedback(ctx, "cand")
	require.NoError(t, err)
	assert.Contains(t, report.Rounds, "hiring_manager")
	assert.Contains(t, report.Rounds, "senior_leadership")
}

func TestHistory_ReturnsActiveRound(t *testing.T) {
	o := newTestOrchestrator(&stubClient{}, nil)
	ctx := context.Background()

	_, err := o.History("ghost")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = o.StartSession(ctx, "cand", "software engineer", types.InterviewCustom, "behavioral")
	require.NoError(t, err)

	history, err := o.History("cand")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Contains(t, history[0].Question, "HR round")
}

func TestHistory_CodingRoundMirrorsProblems(t *testing.T) {
	o := newTestOrchestrator(&stubClient{}, nil)
	ctx := context.Background()

	_, err := o.StartSession(ctx, "cand", "software engineer", types.InterviewCustom, "coding")
	require.NoError(t, err)

	p, err := o.NextCodingProblem("cand")
	require.NoError(t, err)
	require.NotNil(t, p)

	// The presented problem shows up in the transcript immediately.
	history, err := o.History("cand")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, p.SpokenIntro, history[0].Question)
	assert.False(t, history[0].Answered())

	_, err = o.SubmitCode("cand", "func solve() {}")
	require.NoError(t, err)

	history, err = o.History("cand")
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.True(t, history[0].Answered())
	assert.Equal(t, "func solve() {}", *history[0].Answer)
}

func TestTranscripts_CoverEveryRoundInPlanOrder(t *testing.T) {
	o := newTestOrchestrator(&stubClient{}, nil)
	ctx := context.Background()

	_, err := o.Transcripts("ghost")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = o.StartSession(ctx, "cand", "sales representative", types.InterviewFull, "")
	require.NoError(t, err)

	transcripts, err := o.Transcripts("cand")
	require.NoError(t, err)
	require.Len(t, transcripts, 2)
	assert.Equal(t, types.RoundSalesHiring, transcripts[0].Type)
	assert.Equal(t, types.RoundSalesLeadership, transcripts[1].Type)
	assert.NotEmpty(t, transcripts[0].History)
}

func TestCompletedInterviews_ListsPersistedRecords(t *testing.T) {
	persist := &fakePersistence{user: &db.User{Email: "cand", Name: "Jo"}}
	o := newTestOrchestrator(&stubClient{}, persist)
	ctx := context.Background()

	_, err := o.StartSession(ctx, "cand", "software engineer", types.InterviewCustom, "behavioral")
	require.NoError(t, err)

	_, err = o.GetFeedback(ctx, "cand")
	require.NoError(t, err)

	interviews, err := o.CompletedInterviews(ctx, "cand")
	require.NoError(t, err)
	require.Len(t, interviews, 1)
	assert.Equal(t, "cand", interviews[0].CandidateID)

	// Without a persistence adapter the list is empty, not an error.
	bare := newTestOrchestrator(&stubClient{}, nil)
	interviews, err = bare.CompletedInterviews(ctx, "cand")
	require.NoError(t, err)
	assert.Empty(t, interviews)
}

func TestStore_EvictsStaleSessions(t *testing.T) {
	store := NewStore(time.Minute)
	now := time.Now()
	store.nowFunc = func() time.Time { return now }

	store.Put("a", &SessionPlan{})
	store.Put("b", &SessionPlan{})
	require.Equal(t, 2, store.Len())

	now = now.Add(30 * time.Second)
	_, ok := store.Get("a")
	require.True(t, ok)

	now = now.Add(45 * time.Second)
	evicted := store.Evict()
	assert.Equal(t, 1, evicted)

	_, ok = store.Get("a")
	assert.True(t, ok)
	_, ok = store.Get("b")
	assert.False(t, ok)
}
