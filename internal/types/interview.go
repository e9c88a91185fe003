// Package types defines the shared data model for the interview simulator.
package types

import "strings"

// SkippedAnswer is the sentinel stored in a QARecord when the candidate
// skips a question instead of answering it.
const SkippedAnswer = "[skipped]"

// RoundType identifies one phase of an interview.
type RoundType string

// Round type constants cover the four session variants plus the two
// sales sub-rounds.
const (
	RoundTechnical        RoundType = "technical"
	RoundCoding           RoundType = "coding"
	RoundBehavioral       RoundType = "behavioral"
	RoundSalesHiring      RoundType = "sales_hiring_manager"
	RoundSalesLeadership  RoundType = "sales_senior_leadership"
)

// QARecord is one question/answer pair in a round's history.
// Answer is nil until the candidate responds; a skipped question stores
// SkippedAnswer.
type QARecord struct {
	Question string  `json:"question"`
	Answer   *string `json:"answer"`
}

// Answered reports whether the record has a recorded (or skipped) answer.
func (r *QARecord) Answered() bool {
	return r.Answer != nil
}

// SideSignals carries the per-answer acoustic metrics produced by the
// upstream transcription pipeline. They feed round meta counters and never
// gate orchestration logic.
type SideSignals struct {
	Confidence float64 `json:"confidence"`
	Focus      float64 `json:"focus"`
}

// RoundMeta holds the auxiliary counters a round accumulates while it runs.
type RoundMeta struct {
	ConfidenceScores  []float64 `json:"confidence_scores"`
	FocusScores       []float64 `json:"focus_scores"`
	SkippedQuestions  []string  `json:"skipped_questions"`
	ConfusionCount    int       `json:"confusion_count"`
	LastFollowupAsked bool      `json:"last_followup_asked"`
	GreetingSent      bool      `json:"greeting_sent"`
	FeedbackSaved     bool      `json:"feedback_saved"`
}

// AddSignals appends one answer's side signals to the meta counters.
func (m *RoundMeta) AddSignals(s SideSignals) {
	m.ConfidenceScores = append(m.ConfidenceScores, s.Confidence)
	m.FocusScores = append(m.FocusScores, s.Focus)
}

// Problem is one coding problem from the static catalogue.
type Problem struct {
	ID                int        `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	FunctionSignature string     `json:"function_signature"`
	TestCases         []TestCase `json:"test_cases"`
}

// TestCase is reference data shown alongside a problem. The engine never
// executes it.
type TestCase struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
}

// CodingAttempt is one problem round in a coding session: the problem
// presented and whatever code the candidate last submitted for it.
type CodingAttempt struct {
	Problem Problem `json:"problem"`
	Code    string  `json:"code"`
}

// InterviewType selects the plan built at setup time.
type InterviewType string

// Interview type constants.
const (
	InterviewFull   InterviewType = "full"
	InterviewCustom InterviewType = "custom"
)

// rolesWithoutCoding lists roles whose full-interview plan skips the live
// coding round.
var rolesWithoutCoding = []string{
	"frontend developer",
	"backend developer",
	"data scientist",
}

// RoleSkipsCoding reports whether a role's full interview omits the coding
// round.
func RoleSkipsCoding(role string) bool {
	lower := strings.ToLower(strings.TrimSpace(role))
	for _, r := range rolesWithoutCoding {
		if lower == r {
			return true
		}
	}
	return false
}

// IsSalesRole reports whether a role follows the two-stage sales track.
func IsSalesRole(role string) bool {
	return strings.Contains(strings.ToLower(role), "sales")
}
