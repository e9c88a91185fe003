// Package detect provides the advisory answer classifiers used during an
// interview: confusion scoring and off-topic detection. The scoring
// functions are pure; the escalation counters live in small stateful
// wrappers owned by the session.
package detect

import (
	"fmt"
	"regexp"
	"strings"
)

// Confusion categories.
const (
	CategoryNotConfused        = "not_confused"
	CategoryEmptyAnswer        = "empty_answer"
	CategoryUncertain          = "uncertain"
	CategoryNeedsClarification = "needs_clarification"
	CategoryRambling           = "rambling"
	CategoryLacksSpecifics     = "lacks_specifics"
)

// confusionThreshold is the cumulative score at which an answer counts as
// confused.
const confusionThreshold = 0.4

// patternFamily is one weighted group of confusion indicators. Families are
// checked in order; a later match overwrites the category.
type patternFamily struct {
	category string
	weight   float64
	patterns []*regexp.Regexp
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}

var confusionFamilies = []patternFamily{
	{
		category: CategoryUncertain,
		weight:   0.3,
		patterns: compileAll(
			`i'm not sure`, `i don't know`, `not certain`, `unsure`,
			`confused`, `what do you mean`, `can you clarify`, `could you explain`,
			`don't understand`, `lost`, `not familiar`, `never heard`,
			`\bhmm\b`, `\bum\b`, `\buh\b`, `\berr\b`, `i'm lost`,
		),
	},
	{
		category: CategoryNeedsClarification,
		weight:   0.25,
		patterns: compileAll(
			`(could you|can you|would you).*clarif`, `what.*mean`, `what.*asking`,
			`are you asking`, `do you mean`, `specifically`, `exactly`,
			`give me an example`, `break it down`, `simpler`,
		),
	},
	{
		category: CategoryRambling,
		weight:   0.2,
		patterns: compileAll(
			`\.{3}`, `anyway|but like|sort of|kind of|i guess`,
			`maybe|perhaps|possibly|might`,
		),
	},
	{
		category: CategoryLacksSpecifics,
		weight:   0.15,
		patterns: compileAll(
			`something|stuff|things|whatever`, `i think|probably|maybe`,
			`not sure if`, `vague|general|roughly`,
		),
	},
}

// ConfusionSignal is the result of scoring one answer.
type ConfusionSignal struct {
	Detected bool
	Category string
	Score    float64
}

// DetectConfusion scores an answer for signs that the candidate misunderstood
// or could not engage with the question. Each matching pattern family adds
// its weight once per matching pattern; answers under ten words get a length
// penalty; empty or near-empty answers are flagged unconditionally.
func DetectConfusion(answer, question string) ConfusionSignal {
	if len(strings.TrimSpace(answer)) < 5 {
		return ConfusionSignal{Detected: true, Category: CategoryEmptyAnswer, Score: 0.95}
	}

	lower := strings.ToLower(answer)
	score := 0.0
	category := CategoryNotConfused

	for _, family := range confusionFamilies {
		for _, p := range family.patterns {
			if p.MatchString(lower) {
				score += family.weight
				category = family.category
			}
		}
	}

	if len(strings.Fields(answer)) < 10 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}

	return ConfusionSignal{
		Detected: score >= confusionThreshold,
		Category: category,
		Score:    score,
	}
}

// ConfusionGuidance maps a confusion category to its deterministic
// remediation message. Unrecognized categories fall back to the uncertain
// template.
func ConfusionGuidance(category, question, previousAnswer string) string {
	switch category {
	case CategoryEmptyAnswer:
		return fmt.Sprintf(`I notice you didn't provide much detail. Let me help you think through this:

The question was: %q

To give a strong answer, try to include:
1. A specific situation or example from your experience
2. What the challenge or problem was
3. What action you took
4. What the result was (ideally with metrics)

Can you try again with more details?`, question)
	case CategoryNeedsClarification:
		return fmt.Sprintf(`Great question! Let me clarify what I'm asking:

%q

When I ask this, I'm looking for:
1. A real example from your background (work, projects, or learning)
2. Your specific role and contribution
3. The challenge you faced
4. Your solution or approach
5. The results or what you took away from it

Does that help? What's a specific instance you can think of?`, question)
	case CategoryRambling:
		return fmt.Sprintf(`I notice your answer is a bit scattered. Let me help you structure it better:

For the question %q, try this structure:
1. Start with the situation/problem
2. Explain what YOU specifically did
3. Share the result or outcome
4. Keep it concise (30-60 seconds)

Can you give me a more focused answer following this structure?`, question)
	case CategoryLacksSpecifics:
		return fmt.Sprintf(`Your answer is a bit general. Let me help you add specifics:

Instead of general statements, try to include:
- Actual numbers/metrics (e.g., "improved performance by 40%%")
- Specific technology names (e.g., "used Redis caching" vs "used a cache")
- Concrete examples (e.g., name of project or company)
- Measurable outcomes

For %q, can you share specific details about what you did?`, question)
	case CategoryNotConfused:
		return "Great! Your answer shows good understanding. Let me dig deeper..."
	default:
		return fmt.Sprintf(`I see you're uncertain about this. That's okay! Let me clarify the question for you:

Original question: %q

Let me break it down:
- Think about your past experience
- Focus on what YOU did specifically
- Talk about the approach or methodology
- Mention the outcome or what you learned

There's no single "right" answer here - I want to understand your thinking process and approach.`, question)
	}
}

// EscalatedGuidance returns progressively simpler guidance based on how many
// confusions have already been recorded for the round.
func EscalatedGuidance(priorConfusions int) string {
	switch priorConfusions {
	case 0:
		return "Let me rephrase that question to make it clearer for you."
	case 1:
		return `I understand this is a tricky question. Let me simplify it:

Instead of thinking about the whole question, focus on just ONE specific example from your experience. What's something you've worked on recently that's relevant?`
	default:
		return `Let me approach this differently. Instead of asking about your approach in general, can you walk me through a specific project or problem you solved? Just tell me: What was the problem, what did you do, and what happened?

That's all I need - a simple story from your experience.`
	}
}
