// Package ai provides the completion-provider seam used by the analyzers
// and the deduplication judge. Components depend on the CompletionClient
// interface only; the Anthropic-backed implementation lives alongside it.
package ai

import "context"

// CompletionRequest is a single-turn chat completion request. It carries
// exactly the fields the pipeline varies per call; endpoint and auth are
// fixed at client construction.
type CompletionRequest struct {
	Model       string
	MaxTokens   int64
	Temperature float64
	Prompt      string
}

// CompletionClient issues one synchronous completion call and returns the
// concatenated text content of the response.
//
// Implementations must propagate transport and auth failures to the caller;
// policy for those failures belongs to the call site (the deduplication
// engine fails open, the analyzers drop the batch).
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
