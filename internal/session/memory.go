package session

import "strings"

// topicStopwords are excluded from keyword extraction when comparing
// question topics.
var topicStopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "you": {}, "your": {}, "can": {},
	"with": {}, "that": {}, "this": {}, "from": {}, "have": {}, "had": {},
	"been": {}, "they": {}, "their": {}, "what": {}, "when": {}, "how": {},
	"why": {}, "are": {}, "was": {}, "will": {}, "would": {}, "could": {},
	"should": {}, "about": {}, "also": {}, "there": {}, "which": {},
	"more": {}, "than": {}, "such": {}, "those": {}, "these": {},
	"were": {}, "while": {}, "where": {}, "into": {}, "onto": {},
	"over": {}, "under": {},
}

// TopicMemory remembers the question topics already covered in a round so
// the question generator can avoid repeating them.
type TopicMemory struct {
	questions []string
}

// Add records an asked question (with its answer) as covered ground.
func (m *TopicMemory) Add(question, answer string) {
	m.questions = append(m.questions, question)
}

// IsDuplicateTopic reports whether a candidate question shares three or
// more keywords with any previously covered question.
func (m *TopicMemory) IsDuplicateTopic(question string) bool {
	return Resurfaces(question, m.questions)
}

// Resurfaces reports whether a candidate question repeats any of the given
// past questions, either verbatim (case-insensitive) or by sharing three or
// more keywords. Skipped questions are checked through this so their text
// never comes back.
func Resurfaces(question string, past []string) bool {
	newKeywords := extractKeywords(question)
	for _, p := range past {
		if strings.EqualFold(strings.TrimSpace(question), strings.TrimSpace(p)) {
			return true
		}
		overlap := 0
		for kw := range extractKeywords(p) {
			if _, ok := newKeywords[kw]; ok {
				overlap++
			}
		}
		if overlap >= 3 {
			return true
		}
	}
	return false
}

// Covered returns the covered questions in insertion order.
func (m *TopicMemory) Covered() []string {
	return m.questions
}

// extractKeywords lowercases and splits the text, dropping stopwords and
// words of three characters or fewer, then strips surrounding punctuation.
func extractKeywords(text string) map[string]struct{} {
	keywords := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if len(word) <= 3 {
			continue
		}
		if _, stop := topicStopwords[word]; stop {
			continue
		}
		keywords[strings.Trim(word, ".,!?()[]\"'")] = struct{}{}
	}
	return keywords
}
