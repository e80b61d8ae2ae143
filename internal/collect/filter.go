package collect

import "github.com/trendpulse/trendpulse/internal/types"

// EventFilter selects the events worth spending analysis tokens on:
// merged PRs carrying a candidate label (or no labels at all) and every
// release event.
type EventFilter struct {
	labels   map[string]bool
	maxCount int
}

// NewEventFilter creates a filter. Passing no labels means any merged PR
// qualifies regardless of labeling.
func NewEventFilter(labels []string, maxCount int) *EventFilter {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[l] = true
	}
	if maxCount <= 0 {
		maxCount = 20
	}
	return &EventFilter{labels: set, maxCount: maxCount}
}

// Candidates returns the analyzable subset of events, capped at maxCount,
// preserving input order
func (f *EventFilter) Candidates(events []types.Event) []types.Event {
	var candidates []types.Event
	for _, ev := range events {
		if len(candidates) >= f.maxCount {
			break
		}
		switch ev.Type {
		case "ReleaseEvent":
			candidates = append(candidates, ev)
		case "PullRequestEvent":
			if ev.PR == nil || !ev.PR.Merged {
				continue
			}
			if len(ev.PR.Labels) == 0 || f.matchesLabels(ev.PR.Labels) {
				candidates = append(candidates, ev)
			}
		}
	}
	return candidates
}

func (f *EventFilter) matchesLabels(labels []string) bool {
	if len(f.labels) == 0 {
		return true
	}
	for _, l := range labels {
		if f.labels[l] {
			return true
		}
	}
	return false
}
