// Package analyze turns collected GitHub data into trend signals via LLM
// completion calls. Analyzers share one failure policy: a bad response or
// transport error drops the batch and returns empty results, never an
// error that could abort the daily run.
package analyze

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/trendpulse/trendpulse/internal/types"
)

// stripCodeFences removes a surrounding markdown code block, if present.
// Models frequently wrap JSON output in ```json fences despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if after, ok := strings.CutPrefix(s, "```json"); ok {
		s = after
	} else if after, ok := strings.CutPrefix(s, "```"); ok {
		s = after
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// signalItem is the wire shape analyzers ask the model to produce
type signalItem struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Type         string   `json:"type"`
	Category     string   `json:"category"`
	ImpactScore  int      `json:"impact_score"`
	WhyItMatters string   `json:"why_it_matters"`
	Sources      []string `json:"sources"`
	RelatedRepos []string `json:"related_repos"`
}

func (it *signalItem) toSignal() (types.Signal, error) {
	sig := types.Signal{
		ID:           it.ID,
		Title:        it.Title,
		Type:         types.SignalType(it.Type),
		Category:     types.Category(it.Category),
		ImpactScore:  it.ImpactScore,
		WhyItMatters: it.WhyItMatters,
		Sources:      it.Sources,
		RelatedRepos: it.RelatedRepos,
	}
	if err := sig.Validate(); err != nil {
		return types.Signal{}, fmt.Errorf("invalid signal %q: %w", it.Title, err)
	}
	return sig, nil
}

// decodeSignalArray parses a model response holding a JSON array of signal
// items. One invalid item invalidates the whole response.
func decodeSignalArray(response string) ([]signalItem, error) {
	var items []signalItem
	if err := json.Unmarshal([]byte(stripCodeFences(response)), &items); err != nil {
		return nil, fmt.Errorf("parse signal array: %w", err)
	}
	return items, nil
}
