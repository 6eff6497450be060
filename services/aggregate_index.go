package services

import (
	"errors"
	"sync"

	"bot-companion-web/models"
)

// ErrCodeNotFound is returned by Lookup for a code that was never generated.
var ErrCodeNotFound = errors.New("code not found")

// Placeholders for claimed records written without every field.
const (
	UnknownClaimant = "unknown"
)

// AggregateIndex partitions the store's codes into available and claimed.
// It is a rebuildable cache; the store stays the source of truth. The mutex
// only protects the maps themselves, it does not order store writes.
type AggregateIndex struct {
	mu             sync.RWMutex
	available      map[string]models.RewardRecord
	claimed        map[string]models.RewardRecord
	totalGenerated int

	// codes added since the last BeginReconcile
	pending map[string]models.RewardRecord
}

func NewAggregateIndex() *AggregateIndex {
	return &AggregateIndex{
		available: map[string]models.RewardRecord{},
		claimed:   map[string]models.RewardRecord{},
	}
}

// BeginReconcile marks the start of a store load. Codes added from now on
// survive the following Reconcile even if the load missed them.
func (idx *AggregateIndex) BeginReconcile() {
	idx.mu.Lock()
	idx.pending = map[string]models.RewardRecord{}
	idx.mu.Unlock()
}

// Reconcile rebuilds both partitions from records.
func (idx *AggregateIndex) Reconcile(records map[string]models.RewardRecord) {
	available := make(map[string]models.RewardRecord, len(records))
	claimed := map[string]models.RewardRecord{}
	for code, rec := range records {
		if rec.Claimed {
			claimed[code] = rec
		} else {
			available[code] = rec
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	total := len(records)
	for code, rec := range idx.pending {
		if _, ok := records[code]; !ok {
			available[code] = rec
			total++
		}
	}
	idx.pending = nil

	idx.available = available
	idx.claimed = claimed
	idx.totalGenerated = total
}

// Add records a freshly generated code without rescanning the store.
func (idx *AggregateIndex) Add(code string, rec models.RewardRecord) int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	// a colliding code was overwritten as unclaimed in the store
	delete(idx.claimed, code)
	idx.available[code] = rec
	idx.totalGenerated++
	if idx.pending != nil {
		idx.pending[code] = rec
	}
	return idx.totalGenerated
}

func (idx *AggregateIndex) Stats() models.IndexStats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	top := 0
	for _, rec := range idx.claimed {
		if rec.Score > top {
			top = rec.Score
		}
	}
	return models.IndexStats{
		TotalGenerated: idx.totalGenerated,
		Available:      len(idx.available),
		Claimed:        len(idx.claimed),
		TopScore:       top,
	}
}

func (idx *AggregateIndex) Lookup(code string) (models.ClaimStatus, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if rec, ok := idx.claimed[code]; ok {
		status := models.ClaimStatus{
			Claimed:   true,
			Score:     rec.Score,
			ClaimedBy: UnknownClaimant,
			ClaimedAt: rec.ClaimedAt,
		}
		if rec.ClaimedBy != nil && *rec.ClaimedBy != "" {
			status.ClaimedBy = *rec.ClaimedBy
		}
		if status.ClaimedAt == nil {
			zero := 0.0
			status.ClaimedAt = &zero
		}
		return status, nil
	}
	if rec, ok := idx.available[code]; ok {
		return models.ClaimStatus{Claimed: false, Available: true, Score: rec.Score}, nil
	}
	return models.ClaimStatus{}, ErrCodeNotFound
}
