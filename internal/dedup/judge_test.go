package dedup

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendpulse/trendpulse/internal/ai"
	"github.com/trendpulse/trendpulse/internal/types"
)

// fakeCompletionClient records requests and plays back a canned response
type fakeCompletionClient struct {
	response string
	err      error
	calls    []ai.CompletionRequest
}

func (f *fakeCompletionClient) Complete(_ context.Context, req ai.CompletionRequest) (string, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestJudgeVerdictParsing(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     bool
	}{
		{"exact duplicate token", "DUPLICATE", true},
		{"lowercase", "duplicate", true},
		{"padded", "  DUPLICATE\n", true},
		{"embedded in sentence", "The answer is DUPLICATE.", true},
		{"unique", "UNIQUE", false},
		{"empty response", "", false},
		{"garbage", "I cannot determine that", false},
	}

	sig := testSignal("s1", "Agent 上下文", types.TypeCapability, "test/repo")
	candidates := []StoredSignal{
		{Signal: testSignal("h1", "Agent 上下文感知", types.TypeCapability, "test/repo")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeCompletionClient{response: tt.response}
			judge := NewJudge(client, "glm-4.7")
			got, err := judge.IsDuplicate(context.Background(), &sig, candidates)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJudgeRequiresCandidates(t *testing.T) {
	judge := NewJudge(&fakeCompletionClient{response: "UNIQUE"}, "glm-4.7")
	sig := testSignal("s1", "Title", types.TypeCapability, "test/repo")
	_, err := judge.IsDuplicate(context.Background(), &sig, nil)
	assert.Error(t, err)
}

func TestJudgePropagatesTransportErrors(t *testing.T) {
	client := &fakeCompletionClient{err: errors.New("connection refused")}
	judge := NewJudge(client, "glm-4.7")
	sig := testSignal("s1", "Title", types.TypeCapability, "test/repo")
	candidates := []StoredSignal{{Signal: testSignal("h1", "Title!", types.TypeCapability, "test/repo")}}

	_, err := judge.IsDuplicate(context.Background(), &sig, candidates)
	assert.Error(t, err)
}

func TestJudgeRequestShape(t *testing.T) {
	client := &fakeCompletionClient{response: "UNIQUE"}
	judge := NewJudge(client, "glm-4.7")
	sig := testSignal("s1", "Agent 上下文", types.TypeCapability, "test/repo")
	candidates := []StoredSignal{
		{Signal: testSignal("h1", "Agent 上下文感知", types.TypeCapability, "test/repo")},
	}

	_, err := judge.IsDuplicate(context.Background(), &sig, candidates)
	require.NoError(t, err)

	require.Len(t, client.calls, 1)
	req := client.calls[0]
	assert.Equal(t, "glm-4.7", req.Model)
	assert.Equal(t, int64(judgeMaxTokens), req.MaxTokens)
	assert.Zero(t, req.Temperature)
	assert.Contains(t, req.Prompt, "Agent 上下文")
	assert.Contains(t, req.Prompt, "Agent 上下文感知")
	assert.Contains(t, req.Prompt, string(types.TypeCapability))
}

func TestJudgeTruncatesCandidates(t *testing.T) {
	client := &fakeCompletionClient{response: "UNIQUE"}
	judge := NewJudge(client, "glm-4.7")
	sig := testSignal("s1", "Title", types.TypeCapability, "test/repo")

	candidates := []StoredSignal{
		{Signal: testSignal("h1", "Candidate one", types.TypeCapability, "test/repo")},
		{Signal: testSignal("h2", "Candidate two", types.TypeCapability, "test/repo")},
		{Signal: testSignal("h3", "Candidate three", types.TypeCapability, "test/repo")},
		{Signal: testSignal("h4", "Candidate four", types.TypeCapability, "test/repo")},
	}

	_, err := judge.IsDuplicate(context.Background(), &sig, candidates)
	require.NoError(t, err)

	require.Len(t, client.calls, 1)
	prompt := client.calls[0].Prompt
	assert.Contains(t, prompt, "Candidate one")
	assert.Contains(t, prompt, "Candidate three")
	assert.NotContains(t, prompt, "Candidate four")
	// Candidate order follows the input list
	assert.Less(t, strings.Index(prompt, "Candidate one"), strings.Index(prompt, "Candidate two"))
}
