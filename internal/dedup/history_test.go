package dedup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendpulse/trendpulse/internal/types"
)

func newTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	store, err := NewHistoryStore(filepath.Join(t.TempDir(), "data", "history.json"))
	require.NoError(t, err)
	return store
}

func TestHistoryLoadMissingFile(t *testing.T) {
	store := newTestStore(t)
	assert.Empty(t, store.Load())
}

func TestHistoryLoadCorruptFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o644))
	assert.Empty(t, store.Load())
}

func TestHistoryAppendAndLoad(t *testing.T) {
	store := newTestStore(t)

	before := time.Now().UTC().Add(-time.Second)
	err := store.Append([]types.Signal{
		testSignal("s1", "First signal", types.TypeCapability, "test/repo"),
		testSignal("s2", "Second signal", types.TypeSafety, "test/repo"),
	})
	require.NoError(t, err)

	loaded := store.Load()
	require.Len(t, loaded, 2)
	assert.Equal(t, "s1", loaded[0].Signal.ID)
	assert.Equal(t, "s2", loaded[1].Signal.ID)
	for _, s := range loaded {
		require.NotNil(t, s.ObservedAt)
		assert.False(t, s.ObservedAt.Before(before.Truncate(time.Second)))
	}
}

func TestHistoryAppendUpdatesMetadata(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Append([]types.Signal{
		testSignal("s1", "First signal", types.TypeCapability, "test/repo"),
	}))
	require.NoError(t, store.Append([]types.Signal{
		testSignal("s2", "Second signal", types.TypeSafety, "test/repo"),
	}))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	var file struct {
		Signals     []json.RawMessage `json:"signals"`
		LastUpdated *string           `json:"last_updated"`
		Count       int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(data, &file))
	assert.Len(t, file.Signals, 2)
	assert.Equal(t, 2, file.Count)
	require.NotNil(t, file.LastUpdated)
	_, err = time.Parse(time.RFC3339, *file.LastUpdated)
	assert.NoError(t, err)
}

func TestHistorySkipsMalformedEntries(t *testing.T) {
	store := newTestStore(t)

	good := testSignal("s1", "Good signal", types.TypeCapability, "test/repo")
	rawGood, err := json.Marshal(historyRecord{Signal: good, Timestamp: time.Now().UTC().Format(time.RFC3339)})
	require.NoError(t, err)

	file := map[string]any{
		"signals": []json.RawMessage{
			rawGood,
			json.RawMessage(`{"id":"s2"}`),       // missing required fields
			json.RawMessage(`{"impact_score":"five"}`), // wrong type
		},
		"last_updated": time.Now().UTC().Format(time.RFC3339),
		"count":        3,
	}
	data, err := json.Marshal(file)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path(), data, 0o644))

	loaded := store.Load()
	require.Len(t, loaded, 1)
	assert.Equal(t, "s1", loaded[0].Signal.ID)
}

func TestHistoryAppendPreservesUnparseableEntries(t *testing.T) {
	store := newTestStore(t)

	seed := map[string]any{
		"signals": []json.RawMessage{json.RawMessage(`{"id":"legacy"}`)},
		"count":   1,
	}
	data, err := json.Marshal(seed)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path(), data, 0o644))

	require.NoError(t, store.Append([]types.Signal{
		testSignal("s1", "New signal", types.TypeCapability, "test/repo"),
	}))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	var file struct {
		Signals []json.RawMessage `json:"signals"`
		Count   int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(raw, &file))
	// Rewrites never drop records, even ones reads skip
	assert.Len(t, file.Signals, 2)
	assert.Equal(t, 2, file.Count)
}

func TestHistoryWindowPruning(t *testing.T) {
	store := newTestStore(t)

	old := testSignal("old", "Stale signal", types.TypeCapability, "test/repo")
	fresh := testSignal("fresh", "Fresh signal", types.TypeSafety, "test/repo")
	undated := testSignal("undated", "Undated signal", types.TypeWorkflow, "test/repo")

	rawOld, err := json.Marshal(historyRecord{
		Signal:    old,
		Timestamp: time.Now().UTC().AddDate(0, 0, -10).Format(time.RFC3339),
	})
	require.NoError(t, err)
	rawFresh, err := json.Marshal(historyRecord{
		Signal:    fresh,
		Timestamp: time.Now().UTC().AddDate(0, 0, -1).Format(time.RFC3339),
	})
	require.NoError(t, err)
	rawUndated, err := json.Marshal(historyRecord{Signal: undated})
	require.NoError(t, err)

	file := historyFile{Signals: []json.RawMessage{rawOld, rawFresh, rawUndated}, Count: 3}
	data, err := json.Marshal(file)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path(), data, 0o644))

	recent := store.LoadRecent(7)
	require.Len(t, recent, 2)
	assert.Equal(t, "fresh", recent[0].Signal.ID)
	assert.Equal(t, "undated", recent[1].Signal.ID)

	// Pruning is read-time only: the stale entry is still on disk
	assert.Len(t, store.Load(), 3)
}

func TestHistoryUnparseableTimestampRetained(t *testing.T) {
	store := newTestStore(t)

	sig := testSignal("s1", "Signal", types.TypeCapability, "test/repo")
	raw, err := json.Marshal(historyRecord{Signal: sig, Timestamp: "not-a-time"})
	require.NoError(t, err)

	file := historyFile{Signals: []json.RawMessage{raw}, Count: 1}
	data, err := json.Marshal(file)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path(), data, 0o644))

	recent := store.LoadRecent(7)
	require.Len(t, recent, 1)
	assert.Nil(t, recent[0].ObservedAt)
}
