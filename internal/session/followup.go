package session

import "context"

// NextPrompt applies the shared follow-up policy after an answer has been
// recorded: at most one follow-up is issued per main answer, and follow-ups
// never consume a round slot.
//
// When the previous prompt was already a follow-up the flag is cleared and
// the round falls through to its normal AskQuestion path. Otherwise one
// follow-up is requested; if the variant produces one it is presented and
// the flag set, else the next main question is asked immediately.
//
// ok is false exactly when the round has no further questions, which is the
// orchestrator's signal to transition.
func NextPrompt(ctx context.Context, r Round, answer string) (prompt string, isFollowup bool, ok bool) {
	meta := r.Meta()

	if meta.LastFollowupAsked {
		meta.LastFollowupAsked = false
		prompt, ok = r.AskQuestion(ctx)
		return prompt, false, ok
	}

	if followup := r.GenerateFollowup(ctx, answer); followup != "" {
		meta.LastFollowupAsked = true
		return followup, true, true
	}

	prompt, ok = r.AskQuestion(ctx)
	return prompt, false, ok
}
