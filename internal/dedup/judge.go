package dedup

import (
	"context"
	"fmt"
	"strings"

	"github.com/trendpulse/trendpulse/internal/ai"
	"github.com/trendpulse/trendpulse/internal/types"
)

// maxJudgeCandidates caps how many similar history entries one judgment
// compares against
const maxJudgeCandidates = 3

// judgeMaxTokens is all the room a one-word classification needs
const judgeMaxTokens = 10

// Judge asks a completion provider whether a signal semantically restates
// one of its near-duplicate candidates.
type Judge struct {
	client ai.CompletionClient
	model  string
}

// NewJudge creates a semantic judge using the given provider and model
func NewJudge(client ai.CompletionClient, model string) *Judge {
	return &Judge{client: client, model: model}
}

// IsDuplicate classifies the signal against up to three candidates with a
// single deterministic completion call. The response counts as DUPLICATE
// only when that literal token appears in it; empty, malformed, or
// off-script responses count as UNIQUE so that a confused model never
// silently drops a real signal.
//
// Transport failures are returned, not swallowed; the engine decides the
// failure policy.
func (j *Judge) IsDuplicate(ctx context.Context, sig *types.Signal, candidates []StoredSignal) (bool, error) {
	if len(candidates) == 0 {
		return false, fmt.Errorf("at least one candidate is required")
	}
	if len(candidates) > maxJudgeCandidates {
		candidates = candidates[:maxJudgeCandidates]
	}

	resp, err := j.client.Complete(ctx, ai.CompletionRequest{
		Model:       j.model,
		MaxTokens:   judgeMaxTokens,
		Temperature: 0,
		Prompt:      buildJudgePrompt(sig, candidates),
	})
	if err != nil {
		return false, err
	}

	verdict := strings.ToUpper(strings.TrimSpace(resp))
	return strings.Contains(verdict, "DUPLICATE"), nil
}

// buildJudgePrompt lays out the new signal next to its candidates with the
// context the judgment needs: title, type, and why the signal matters.
func buildJudgePrompt(sig *types.Signal, candidates []StoredSignal) string {
	var history strings.Builder
	for _, c := range candidates {
		fmt.Fprintf(&history, "- %s (type: %s, why it matters: %s)\n",
			c.Signal.Title, c.Signal.Type, c.Signal.WhyItMatters)
	}

	return fmt.Sprintf(`You are a technology trend analyst. Decide whether the new signal below restates one of the previously reported signals.

## New signal
Title: %s
Type: %s
Why it matters: %s

## Previously reported signals (similar titles)
%s
## Criteria
- Same underlying trend or feature, even with a reworded title: DUPLICATE
- A different improvement or a new feature: UNIQUE
- Different type or different capability: UNIQUE

## Answer format
Reply with exactly one word:
- DUPLICATE
- UNIQUE
`, sig.Title, sig.Type, sig.WhyItMatters, history.String())
}
