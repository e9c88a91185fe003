// Package coding owns the coding-round machinery: the problem catalogue,
// the bounded delivery engine, and the anti-leak filter that keeps
// interviewer guidance from revealing solutions.
package coding

import (
	"regexp"
	"strings"
)

// LeakFallback is the whole-message replacement used whenever guidance text
// matches a solution-revealing pattern. The filter never partially redacts.
const LeakFallback = "I appreciate your thinking, but I want to guide you to discover the solution yourself. " +
	"Let me ask you instead: What data structures or algorithms do you think might be relevant? " +
	"Walk through a small example first and see what pattern emerges. You're on the right track!"

// forbiddenPatterns describe solution-revealing phrasing. Ordered; matching
// is case-insensitive because input is lowercased first.
var forbiddenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bhere\s+is\b.*?\b(the\s+)?code\b`),
	regexp.MustCompile(`\bhere\s+is\b.*?\b(the\s+)?solution\b`),
	regexp.MustCompile(`\byou\s+(should\s+)?write\b.*?\bcode\b`),
	regexp.MustCompile(`\byou\s+(should\s+)?use\b.*?\b(array|loop|recursion|hash|stack|queue|tree|graph|dp|dynamic programming)\b`),
	regexp.MustCompile(`\bthe\s+answer\s+is\b`),
	regexp.MustCompile(`\byou\s+need\s+to\b.*?\b(sort|reverse|iterate|recurse|memoize)\b`),
	regexp.MustCompile(`\blet\s+me\s+explain\s+the\s+code\b`),
	regexp.MustCompile(`\bthis\s+is\s+how\b.*?\b(solve|implement)\b`),
	regexp.MustCompile(`\buse\s+(if|for|while|switch|case)\b.*?\bstatement\b`),
	regexp.MustCompile(`\bcall\s+the\s+function\b`),
	regexp.MustCompile(`\btime\s+complexity.*?O\s*\(`),
	regexp.MustCompile(`\bspace\s+complexity.*?O\s*\(`),
	regexp.MustCompile(`\bfirst\b.*?\b(sort|reverse|loop|iterate)\b`),
	regexp.MustCompile(`\bthen\b.*?\b(sort|reverse|loop|iterate)\b`),
	regexp.MustCompile(`\bfinally\b.*?\b(return|print)\b.*?\b(result|answer)\b`),
}

// Sanitize checks guidance text for solution leakage. On any match it
// returns the fixed encouragement and violated=true; otherwise the text
// passes through unchanged. Applied to every piece of generated guidance
// shown during a coding round, never to questions in other rounds.
func Sanitize(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, p := range forbiddenPatterns {
		if p.MatchString(lower) {
			return LeakFallback, true
		}
	}
	return text, false
}
