// Package metrics collects process-level counters for the interview
// service. Counters are mutex-guarded and cheap enough to bump from any
// request path.
package metrics

import "sync"

// Registry holds the service counters.
type Registry struct {
	mu sync.RWMutex

	sessionsStarted   int64
	sessionsCompleted int64
	questionsAsked    int64
	answersSubmitted  int64
	followupsAsked    int64
	confusionEvents   int64
	offTopicEvents    int64
	leakViolations    int64
	generationErrors  int64
}

// NewRegistry creates an empty counter registry.
func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) add(counter *int64, delta int64) {
	r.mu.Lock()
	*counter += delta
	r.mu.Unlock()
}

func (r *Registry) SessionStarted()   { r.add(&r.sessionsStarted, 1) }
func (r *Registry) SessionCompleted() { r.add(&r.sessionsCompleted, 1) }
func (r *Registry) QuestionAsked()    { r.add(&r.questionsAsked, 1) }
func (r *Registry) AnswerSubmitted()  { r.add(&r.answersSubmitted, 1) }
func (r *Registry) FollowupAsked()    { r.add(&r.followupsAsked, 1) }
func (r *Registry) ConfusionEvent()   { r.add(&r.confusionEvents, 1) }
func (r *Registry) OffTopicEvent()    { r.add(&r.offTopicEvents, 1) }
func (r *Registry) LeakViolation()    { r.add(&r.leakViolations, 1) }
func (r *Registry) GenerationError()  { r.add(&r.generationErrors, 1) }

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	SessionsStarted   int64 `json:"sessions_started"`
	SessionsCompleted int64 `json:"sessions_completed"`
	QuestionsAsked    int64 `json:"questions_asked"`
	AnswersSubmitted  int64 `json:"answers_submitted"`
	FollowupsAsked    int64 `json:"followups_asked"`
	ConfusionEvents   int64 `json:"confusion_events"`
	OffTopicEvents    int64 `json:"off_topic_events"`
	LeakViolations    int64 `json:"leak_violations"`
	GenerationErrors  int64 `json:"generation_errors"`
}

// Snapshot returns a consistent copy of the counters.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot{
		SessionsStarted:   r.sessionsStarted,
		SessionsCompleted: r.sessionsCompleted,
		QuestionsAsked:    r.questionsAsked,
		AnswersSubmitted:  r.answersSubmitted,
		FollowupsAsked:    r.followupsAsked,
		ConfusionEvents:   r.confusionEvents,
		OffTopicEvents:    r.offTopicEvents,
		LeakViolations:    r.leakViolations,
		GenerationErrors:  r.generationErrors,
	}
}
