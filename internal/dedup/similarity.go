package dedup

import "github.com/trendpulse/trendpulse/internal/types"

// similarityThreshold is the maximum edit distance between two raw titles
// for them to count as near-duplicates. Deliberately tight: this stage
// catches trivial rewording, the semantic judge handles paraphrase.
const similarityThreshold = 2

// FindSimilar returns the history entries whose titles are within the edit
// distance threshold of the signal's title. Titles are compared raw, so
// case and punctuation differences count as edits; input order of history
// is preserved in the result.
func FindSimilar(sig *types.Signal, history []StoredSignal) []StoredSignal {
	var similar []StoredSignal
	for _, existing := range history {
		if editDistance(sig.Title, existing.Signal.Title) <= similarityThreshold {
			similar = append(similar, existing)
		}
	}
	return similar
}

// editDistance computes the Levenshtein distance between two strings,
// counted in runes so multi-byte titles are measured by character edits,
// not byte edits. Two-row DP, O(len(a)*len(b)) time, O(min) space.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i, ca := range ra {
		curr[0] = i + 1
		for j, cb := range rb {
			cost := 1
			if ca == cb {
				cost = 0
			}
			curr[j+1] = min(prev[j+1]+1, curr[j]+1, prev[j]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
