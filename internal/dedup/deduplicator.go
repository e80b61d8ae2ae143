package dedup

import (
	"context"
	"fmt"

	"github.com/trendpulse/trendpulse/internal/ai"
	"github.com/trendpulse/trendpulse/internal/logger"
	"github.com/trendpulse/trendpulse/internal/types"
)

// Deduplicator runs the three-stage duplicate check over a batch of signals
// and maintains the history store.
//
// Example usage:
//
//	d, err := New(client, DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	unique, err := d.Deduplicate(ctx, signals)
type Deduplicator struct {
	judge *Judge
	store *HistoryStore
	cfg   Config
	log   *logger.Logger
}

// New creates a deduplication engine. The completion client backs the
// semantic judge; history lives at cfg.HistoryPath.
func New(client ai.CompletionClient, cfg Config) (*Deduplicator, error) {
	if client == nil {
		return nil, fmt.Errorf("completion client cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	store, err := NewHistoryStore(cfg.HistoryPath)
	if err != nil {
		return nil, err
	}
	return &Deduplicator{
		judge: NewJudge(client, cfg.Model),
		store: store,
		cfg:   cfg,
		log:   logger.Named("dedup"),
	}, nil
}

// History exposes the engine's store for inspection tooling
func (d *Deduplicator) History() *HistoryStore {
	return d.store
}

// Deduplicate filters the batch down to signals not already reported within
// the lookback window, then persists the survivors to history.
//
// Per signal, in input order:
//   - fingerprint already accepted in this batch: discard
//   - fingerprint present in recent history: discard
//   - no similar titles in history: accept without a judge call
//   - otherwise: semantic judgment over the top similar candidates
//
// Two new signals that merely resemble each other are not cross-compared;
// only exact fingerprint collisions are caught within a batch. A failed
// judgment keeps the signal (fail-open): a duplicate in the report is
// cheaper than a silently lost trend.
//
// Data-quality problems in history never surface as errors; only a failed
// write of the history store does, since that means operator attention.
func (d *Deduplicator) Deduplicate(ctx context.Context, signals []types.Signal) ([]types.Signal, error) {
	history := d.store.LoadRecent(d.cfg.LookbackDays)

	historyFPs := make(map[string]bool, len(history))
	for _, h := range history {
		historyFPs[Fingerprint(&h.Signal)] = true
	}

	seen := make(map[string]bool)
	unique := make([]types.Signal, 0, len(signals))

	for i := range signals {
		sig := signals[i]
		fp := Fingerprint(&sig)

		if seen[fp] {
			d.log.Debug().Str("id", sig.ID).Msg("duplicate within batch")
			continue
		}
		if historyFPs[fp] {
			d.log.Debug().Str("id", sig.ID).Msg("exact duplicate of history")
			continue
		}

		similar := FindSimilar(&sig, history)
		if len(similar) > 0 {
			isDup, err := d.judge.IsDuplicate(ctx, &sig, similar)
			if err != nil {
				// Fail open: one signal's classification failure must not
				// poison the batch, and losing real signals is worse than
				// reporting an occasional duplicate.
				d.log.Warn().Err(err).Str("id", sig.ID).Msg("semantic judgment failed, keeping signal")
			} else if isDup {
				d.log.Debug().Str("id", sig.ID).Int("candidates", len(similar)).Msg("semantic duplicate")
				continue
			}
		}

		seen[fp] = true
		unique = append(unique, sig)
	}

	if err := d.store.Append(unique); err != nil {
		return unique, fmt.Errorf("failed to persist signal history: %w", err)
	}

	d.log.Info().
		Int("incoming", len(signals)).
		Int("unique", len(unique)).
		Int("history", len(history)).
		Msg("deduplication complete")
	return unique, nil
}
