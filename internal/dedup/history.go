package dedup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/trendpulse/trendpulse/internal/logger"
	"github.com/trendpulse/trendpulse/internal/types"
)

// StoredSignal pairs a signal with the time it was written to history.
// ObservedAt is nil for records that predate timestamping or carry an
// unparseable value; such records are always treated as recent.
type StoredSignal struct {
	Signal     types.Signal
	ObservedAt *time.Time
}

// historyRecord is the on-disk shape of one history entry: the signal's
// fields flattened alongside a timestamp stamped at save time.
type historyRecord struct {
	types.Signal
	Timestamp string `json:"timestamp,omitempty"`
}

// historyFile is the on-disk store. Entries are held as raw JSON so that a
// rewrite never drops records this version cannot parse.
type historyFile struct {
	Signals     []json.RawMessage `json:"signals"`
	LastUpdated *string           `json:"last_updated"`
	Count       int               `json:"count"`
}

// HistoryStore is a JSON-file-backed, append-only record of previously
// emitted signals. One daily batch process owns the file; there is no
// cross-process locking.
type HistoryStore struct {
	path string
	log  *logger.Logger
}

// NewHistoryStore creates a store at the given path, creating the parent
// directory if needed. An unwritable parent is an operator error.
func NewHistoryStore(path string) (*HistoryStore, error) {
	if path == "" {
		return nil, fmt.Errorf("history path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	return &HistoryStore{path: path, log: logger.Named("history")}, nil
}

// Path returns the store's file location
func (h *HistoryStore) Path() string {
	return h.path
}

// Load reads every parseable history entry. A missing or corrupt file
// yields an empty history, never an error: bad history must not take down
// the pipeline. Individual malformed entries are skipped the same way.
func (h *HistoryStore) Load() []StoredSignal {
	file := h.loadFile()

	out := make([]StoredSignal, 0, len(file.Signals))
	for _, raw := range file.Signals {
		var rec historyRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			h.log.Warn().Err(err).Msg("skipping unparseable history entry")
			continue
		}
		if err := rec.Signal.Validate(); err != nil {
			h.log.Warn().Err(err).Str("id", rec.ID).Msg("skipping malformed history entry")
			continue
		}
		stored := StoredSignal{Signal: rec.Signal}
		if rec.Timestamp != "" {
			if ts, err := time.Parse(time.RFC3339, rec.Timestamp); err == nil {
				stored.ObservedAt = &ts
			}
		}
		out = append(out, stored)
	}
	return out
}

// LoadRecent returns the entries still inside the lookback window.
// Entries without a parseable timestamp are retained: when provenance is
// unknown, comparing against too much history beats comparing against too
// little.
func (h *HistoryStore) LoadRecent(windowDays int) []StoredSignal {
	cutoff := time.Now().UTC().AddDate(0, 0, -windowDays)

	var recent []StoredSignal
	for _, s := range h.Load() {
		if s.ObservedAt != nil && s.ObservedAt.Before(cutoff) {
			continue
		}
		recent = append(recent, s)
	}
	return recent
}

// Append stamps each signal with the current UTC time and writes it to the
// store. The whole file is read, extended, and atomically replaced; stale
// or unparseable existing entries are carried over untouched (pruning is a
// read-time filter only, disk growth is bounded by external rotation).
func (h *HistoryStore) Append(signals []types.Signal) error {
	file := h.loadFile()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, sig := range signals {
		raw, err := json.Marshal(historyRecord{Signal: sig, Timestamp: now})
		if err != nil {
			return fmt.Errorf("failed to marshal signal %s: %w", sig.ID, err)
		}
		file.Signals = append(file.Signals, raw)
	}
	file.LastUpdated = &now
	file.Count = len(file.Signals)

	return h.writeFile(file)
}

// loadFile reads the raw store, degrading to an empty store on any problem
func (h *HistoryStore) loadFile() historyFile {
	empty := historyFile{Signals: []json.RawMessage{}}

	data, err := os.ReadFile(h.path)
	if err != nil {
		if !os.IsNotExist(err) {
			h.log.Warn().Err(err).Str("path", h.path).Msg("failed to read history, starting empty")
		}
		return empty
	}

	var file historyFile
	if err := json.Unmarshal(data, &file); err != nil {
		h.log.Warn().Err(err).Str("path", h.path).Msg("history file is corrupt, starting empty")
		return empty
	}
	if file.Signals == nil {
		file.Signals = []json.RawMessage{}
	}
	return file
}

// writeFile persists the store via temp file plus rename so a crash never
// leaves a half-written history behind
func (h *HistoryStore) writeFile(file historyFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(h.path), ".history-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp history file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close history file: %w", err)
	}
	if err := os.Rename(tmpPath, h.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}
