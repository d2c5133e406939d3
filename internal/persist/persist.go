// Package persist mirrors the last search into a key-value snapshot store
// under the two keys a browser front would keep in local storage.
package persist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MrSnakeDoc/netcompare/internal/domain"
	"github.com/MrSnakeDoc/netcompare/internal/logger"
	"github.com/MrSnakeDoc/netcompare/internal/store"
)

const (
	KeyAddress = "lastSearchAddress"
	KeyResults = "lastSearchResults"
)

// Snapshot is what Restore found. Missing or unreadable keys leave the
// matching field nil.
type Snapshot struct {
	Address *domain.Address
	Results *domain.ResultsBundle
}

// Adapter reads and writes the snapshot keys of one store (usually a
// session-scoped view).
type Adapter struct {
	kv     store.KV
	logger logger.Logger
}

func New(kv store.KV, log logger.Logger) *Adapter {
	return &Adapter{kv: kv, logger: log}
}

// Restore reads both keys. Store errors and malformed JSON are logged and
// the key is treated as absent, so restoring never fails.
func (a *Adapter) Restore(ctx context.Context) Snapshot {
	var snap Snapshot

	var addr domain.Address
	if a.load(ctx, KeyAddress, &addr) {
		snap.Address = &addr
	}

	var bundle domain.ResultsBundle
	if a.load(ctx, KeyResults, &bundle) {
		if bundle.Offers == nil {
			bundle.Offers = []domain.Offer{}
		}
		sel := bundle.Selections.Normalize()
		if err := sel.Validate(); err != nil {
			a.logger.Warn("stored selections invalid, using defaults",
				logger.String("key", KeyResults),
				logger.Error(err))
			sel = domain.DefaultSelections()
		}
		bundle.Selections = sel
		snap.Results = &bundle
	}

	return snap
}

func (a *Adapter) load(ctx context.Context, key string, out any) bool {
	raw, ok, err := a.kv.Get(ctx, key)
	if err != nil {
		a.logger.Error("failed to read persisted state",
			logger.String("key", key),
			logger.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		a.logger.Warn("ignoring malformed persisted state",
			logger.String("key", key),
			logger.Error(err))
		return false
	}
	return true
}

// SaveSearch records a successful fetch: the submitted address and a
// results bundle with default selections.
func (a *Adapter) SaveSearch(ctx context.Context, addr domain.Address, offers []domain.Offer) error {
	if err := a.save(ctx, KeyAddress, addr); err != nil {
		return err
	}
	return a.save(ctx, KeyResults, domain.NewResultsBundle(offers))
}

// SaveResults rewrites the results bundle. Bundles that do not come from a
// search are not written.
func (a *Adapter) SaveResults(ctx context.Context, bundle domain.ResultsBundle) error {
	if !bundle.HasSearched {
		return nil
	}
	if bundle.Offers == nil {
		bundle.Offers = []domain.Offer{}
	}
	bundle.Selections = bundle.Selections.Normalize()
	return a.save(ctx, KeyResults, bundle)
}

// Forget deletes both keys.
func (a *Adapter) Forget(ctx context.Context) error {
	if err := a.kv.Delete(ctx, KeyAddress, KeyResults); err != nil {
		return fmt.Errorf("failed to forget last search: %w", err)
	}
	return nil
}

func (a *Adapter) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := a.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}
