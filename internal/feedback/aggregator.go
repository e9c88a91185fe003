// Package feedback scores completed interview rounds. Each round type has a
// dedicated scorer that prompts the generation client for a JSON score
// object, cleans and schema-validates the response, and substitutes an
// all-zero fallback when the output cannot be trusted.
package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/interview-simulator/internal/llm"
	"github.com/jonathan/interview-simulator/internal/prompts"
	"github.com/jonathan/interview-simulator/internal/types"
)

const failedSummary = "Feedback generation failed. Please retry or check the evaluator response."

// Aggregator invokes the per-round scorers and merges their results into a
// single report.
type Aggregator struct {
	client llm.Client
}

// NewAggregator creates an aggregator backed by the given generation client.
func NewAggregator(client llm.Client) *Aggregator {
	return &Aggregator{client: client}
}

// Transcript renders a round history as alternating Q/A lines, dropping
// unanswered questions.
func Transcript(history []types.QARecord) string {
	var b strings.Builder
	for _, qa := range history {
		if !qa.Answered() {
			continue
		}
		fmt.Fprintf(&b, "Q: %s\nA: %s\n", qa.Question, *qa.Answer)
	}
	return b.String()
}

// Behavioral scores a technical or behavioral round transcript.
func (a *Aggregator) Behavioral(ctx context.Context, history []types.QARecord) types.BehavioralScores {
	prompt := prompts.Format(prompts.MustGet("feedback.json", "behavioral"), map[string]string{
		"Transcript": Transcript(history),
	})

	var scores types.BehavioralScores
	if !a.score(ctx, prompt, behavioralSchema, &scores) {
		return types.BehavioralScores{Summary: failedSummary}
	}
	return scores
}

// Sales scores one sales round transcript. The stage determines the round
// label shown to the evaluator.
func (a *Aggregator) Sales(ctx context.Context, history []types.QARecord, stage types.RoundType) types.SalesScores {
	label := "Hiring Manager Round"
	if stage == types.RoundSalesLeadership {
		label = "Senior Leadership Round"
	}

	prompt := prompts.Format(prompts.MustGet("feedback.json", "sales"), map[string]string{
		"Transcript": Transcript(history),
		"RoundLabel": label,
	})

	var scores types.SalesScores
	if !a.score(ctx, prompt, salesSchema, &scores) {
		return types.SalesScores{Summary: failedSummary}
	}
	return scores
}

// Coding scores the latest submission of a coding round. An empty
// submission short-circuits to the zero object without a generation call.
func (a *Aggregator) Coding(ctx context.Context, history []types.CodingAttempt) types.CodingScores {
	if len(history) == 0 {
		return types.CodingScores{Summary: "No code submitted."}
	}

	latest := history[len(history)-1]
	if strings.TrimSpace(latest.Code) == "" {
		return types.CodingScores{Summary: "No code submitted."}
	}

	prompt := prompts.Format(prompts.MustGet("feedback.json", "coding"), map[string]string{
		"Description":       latest.Problem.Description,
		"FunctionSignature": latest.Problem.FunctionSignature,
		"Code":              latest.Code,
	})

	var scores types.CodingScores
	if !a.score(ctx, prompt, codingSchema, &scores) {
		return types.CodingScores{Summary: failedSummary}
	}
	return scores
}

// score runs one generation call and decodes the response into out. It
// returns false when the response fails cleaning, schema validation, or
// decoding, in which case out is left untouched.
func (a *Aggregator) score(ctx context.Context, prompt, schema string, out any) bool {
	raw, err := a.client.GenerateJSON(ctx, "", prompt, llm.TierStandard)
	if err != nil {
		log.Printf("feedback generation failed: %v", err)
		return false
	}

	cleaned := llm.CleanJSONBlock(raw)
	// Some models emit "N/A" for scores they cannot assess.
	cleaned = strings.ReplaceAll(cleaned, `"N/A"`, "null")

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(cleaned),
	)
	if err != nil {
		log.Printf("feedback response is not valid JSON: %v", err)
		return false
	}
	if !result.Valid() {
		log.Printf("feedback response failed schema validation: %v", result.Errors())
		return false
	}

	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		log.Printf("feedback response decode failed: %v", err)
		return false
	}
	return true
}

// Averages computes the mean confidence and focus across the given round
// metas, treating an empty stream as zero.
func Averages(metas ...*types.RoundMeta) (avgConfidence, avgFocus float64) {
	var conf, focus []float64
	for _, m := range metas {
		if m == nil {
			continue
		}
		conf = append(conf, m.ConfidenceScores...)
		focus = append(focus, m.FocusScores...)
	}
	return mean(conf), mean(focus)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
