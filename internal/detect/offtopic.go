package detect

import (
	"regexp"
	"strings"
)

// Off-topic reasons, in the order the checks run.
const (
	ReasonOnTopic          = "on_topic"
	ReasonTooShort         = "response_too_short"
	ReasonCounterQuestions = "asking_counter_questions"
	ReasonPersonal         = "personal_questions"
	ReasonCompanyLogistics = "company_logistics"
	ReasonNoKeywords       = "lacks_relevant_keywords"
	ReasonUnrelated        = "answer_unrelated_to_question"
)

var personalKeywords = []string{
	"do you", "your name", "how old", "where are you from",
	"married", "kids", "girlfriend", "boyfriend", "family",
	"where do you live", "tell me about you", "what do you do",
	"how are things", "weather", "weekend", "vacation",
	// social
	"coffee", "lunch", "dinner", "drinks", "party",
	"hangout", "fun", "joke", "meme", "funny",
	"sports", "games", "movie", "music", "tv show",
}

var logisticsKeywords = []string{
	"salary", "benefits", "stock options", "bonus",
	"remote work", "work from home", "vacation days",
	"dress code", "office location", "commute",
	"company culture", "team size", "management",
}

var onTopicKeywords = map[string][]string{
	"technical": {
		"algorithm", "data structure", "database", "api",
		"design", "architecture", "scalability", "performance",
		"optimization", "complexity", "code", "test", "bug",
		"framework", "library", "language", "system", "network",
	},
	"behavioral": {
		"experience", "project", "team", "conflict", "challenge",
		"problem", "solution", "approach", "learned", "worked",
		"contributed", "responsibility", "achievement", "timeline",
	},
	"sales": {
		"deal", "client", "customer", "sale", "pitch",
		"objection", "close", "target", "quota", "territory",
		"product", "competitor", "strategy", "commission",
	},
}

var counterQuestionPatterns = compileAll(
	`^\s*do you\s`,
	`^\s*can you\s`,
	`^\s*what\s`,
	`^\s*how\s`,
	`^\s*where\s`,
	`^\s*when\s`,
	`^\s*why\s`,
	`\?\s*$`,
)

var overlapStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "was": {},
	"were": {}, "be": {}, "do": {}, "does": {}, "did": {},
}

// OffTopicSignal is the result of classifying one answer.
type OffTopicSignal struct {
	Detected bool
	Reason   string
}

// DetectOffTopic classifies whether an answer is unrelated to, or evasive
// of, the posed question. Checks run in a fixed order and the first match
// wins. interviewType selects the relevant-keyword list ("technical",
// "behavioral", "sales"); unknown types skip that check.
func DetectOffTopic(answer, question, interviewType string) OffTopicSignal {
	answerLower := strings.ToLower(strings.TrimSpace(answer))
	questionLower := strings.ToLower(strings.TrimSpace(question))

	if len(answerLower) < 10 {
		return OffTopicSignal{true, ReasonTooShort}
	}
	if isAskingQuestions(answerLower) {
		return OffTopicSignal{true, ReasonCounterQuestions}
	}
	if containsAny(answerLower, personalKeywords) {
		return OffTopicSignal{true, ReasonPersonal}
	}
	if containsAny(answerLower, logisticsKeywords) {
		return OffTopicSignal{true, ReasonCompanyLogistics}
	}
	if !hasRelevantKeywords(answerLower, interviewType) {
		return OffTopicSignal{true, ReasonNoKeywords}
	}
	if !answerRelatesToQuestion(answerLower, questionLower) {
		return OffTopicSignal{true, ReasonUnrelated}
	}
	return OffTopicSignal{false, ReasonOnTopic}
}

// isAskingQuestions reports whether the response reads as counter-questions
// rather than an answer (two or more question markers).
func isAskingQuestions(text string) bool {
	count := 0
	for _, p := range counterQuestionPatterns {
		if p.MatchString(text) {
			count++
		}
	}
	return count >= 2
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func hasRelevantKeywords(text, interviewType string) bool {
	key := strings.ToLower(interviewType)
	if key == "hr" {
		key = "behavioral"
	}
	keywords, ok := onTopicKeywords[key]
	if !ok {
		return true
	}
	return containsAny(text, keywords)
}

var wordTrim = regexp.MustCompile(`^[.,!?()\[\]"']+|[.,!?()\[\]"']+$`)

// answerRelatesToQuestion checks for at least one shared content word
// between answer and question, ignoring stopwords and words of three
// characters or fewer. A question with no content words is vacuously
// related.
func answerRelatesToQuestion(answer, question string) bool {
	questionWords := contentWords(question)
	if len(questionWords) == 0 {
		return true
	}
	answerWords := contentWords(answer)
	for w := range questionWords {
		if _, ok := answerWords[w]; ok {
			return true
		}
	}
	return false
}

func contentWords(text string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(text) {
		w = wordTrim.ReplaceAllString(w, "")
		if len(w) <= 3 {
			continue
		}
		if _, stop := overlapStopWords[w]; stop {
			continue
		}
		words[w] = struct{}{}
	}
	return words
}

// Redirector tracks repeated off-topic responses within one round and
// decides when the stronger fixed warning supersedes the reason-specific
// redirect.
type Redirector struct {
	offTopicCount int
}

// ShouldWarn records one more off-topic response and reports whether the
// candidate has now drifted often enough (two or more) to warrant the
// stronger warning.
func (r *Redirector) ShouldWarn() bool {
	r.offTopicCount++
	return r.offTopicCount >= 2
}

// Count returns how many off-topic responses have been recorded.
func (r *Redirector) Count() int {
	return r.offTopicCount
}

var redirectMessages = map[string]string{
	ReasonTooShort:         "I appreciate the brief response. Could you provide more details and examples to help me understand your experience better?",
	ReasonCounterQuestions: "Those are interesting questions! I appreciate your curiosity. Let's focus on the interview for now - let me ask you that question again and I'd love to hear your thoughts.",
	ReasonPersonal:         "Those are nice questions, but they're a bit outside the scope of this interview. Let's stay focused on assessing your professional skills. Could we get back to the question?",
	ReasonCompanyLogistics: "Great questions about the company! Those are definitely important, and I'd recommend discussing those with our recruiter. Right now, let's focus on the assessment.",
	ReasonNoKeywords:       "I notice your answer doesn't quite address the question I asked. Could you please focus on answering the specific question I posed? Let me rephrase it for clarity.",
	ReasonUnrelated:        "I appreciate your response, but it seems to drift from what I asked. Can you provide an answer that directly addresses the question?",
}

// RedirectMessage returns the reason-specific redirect for an off-topic
// answer.
func RedirectMessage(reason string) string {
	if msg, ok := redirectMessages[reason]; ok {
		return msg
	}
	return "Could you please refocus your answer on the question at hand? Let me ask again."
}

// WarningMessage is the fixed, stronger message used once repeated drift has
// been detected.
func WarningMessage() string {
	return "I notice we're getting a bit off track. This is a professional interview, so let's please stick to questions about your skills, experience, and problem-solving approach. Let's try the next question."
}
