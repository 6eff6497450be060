// services/reward_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"bot-companion-web/logging"
	"bot-companion-web/models"

	"github.com/gofiber/fiber/v2"
	cache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

const (
	statsCacheKey = "christmas_stats"
	statsCacheTTL = 5 * time.Second
)

// RewardService ties the generator, the code store and the aggregate index
// together. One instance is built at boot and shared by every handler.
type RewardService struct {
	Store     CodeStore
	Index     *AggregateIndex
	Generator *RewardGenerator
	Metrics   *Metrics

	statsCache *cache.Cache
	statsMu    sync.Mutex
	statsGen   uint64
}

func NewRewardService(store CodeStore, generator *RewardGenerator, metrics *Metrics) *RewardService {
	return &RewardService{
		Store:      store,
		Index:      NewAggregateIndex(),
		Generator:  generator,
		Metrics:    metrics,
		statsCache: cache.New(statsCacheTTL, time.Minute),
	}
}

// Reload rebuilds the index from the store at boot. An unreadable store
// reconciles to empty.
func (s *RewardService) Reload() LoadResult {
	s.Index.BeginReconcile()
	result := s.Store.LoadAll()
	switch result.Status {
	case LoadMissing:
		log.Println("📭 [REWARDS] No code store yet, starting empty")
	case LoadCorrupt:
		log.Printf("⚠️  [REWARDS] Code store unreadable, treating as empty: %v", result.Err)
		s.Metrics.storeError("load")
	}

	s.apply(result)
	return result
}

// Refresh is the periodic variant of Reload: a store that cannot be read
// right now (for example mid-rewrite) leaves the current index in place.
func (s *RewardService) Refresh() LoadResult {
	s.Index.BeginReconcile()
	result := s.Store.LoadAll()
	if result.Status == LoadCorrupt {
		log.Printf("⚠️  [REWARDS] Skipping reconcile, code store unreadable: %v", result.Err)
		s.Metrics.storeError("load")
		return result
	}
	s.apply(result)
	return result
}

func (s *RewardService) apply(result LoadResult) {
	s.Index.Reconcile(result.Records)
	s.invalidateStats()

	stats := s.Index.Stats()
	s.Metrics.reconciled(result.Status)
	s.Metrics.observeIndex(stats.Available, stats.Claimed)
	log.WithFields(log.Fields{
		"status":    result.Status.String(),
		"total":     stats.TotalGenerated,
		"available": stats.Available,
		"claimed":   stats.Claimed,
	}).Debug("[REWARDS] index reconciled")
}

// Generate mints a code, persists it and updates the index. A persistence
// failure is returned alongside a complete result: the caller still gets the
// code and score, and the index already counts it.
func (s *RewardService) Generate() (models.GenerateResult, error) {
	code, score := s.Generator.Generate()

	rec, saveErr := s.Store.Save(code, score)
	total := s.Index.Add(code, rec)
	s.invalidateStats()
	s.Metrics.generated(score)

	result := models.GenerateResult{
		Code:           code,
		Score:          score,
		Message:        fmt.Sprintf("🧦 You got a %d-point sock! Redeem %s with the bot to claim it.", score, code),
		TotalGenerated: total,
	}
	if saveErr != nil {
		s.Metrics.storeError("save")
		persisted := false
		result.Persisted = &persisted
		return result, saveErr
	}
	return result, nil
}

// ChristmasStats returns the index summary, memoized briefly.
func (s *RewardService) ChristmasStats() models.IndexStats {
	if cached, ok := s.statsCache.Get(statsCacheKey); ok {
		return cached.(models.IndexStats)
	}
	gen := s.statsGeneration()
	stats := s.Index.Stats()
	s.cacheStats(gen, stats)
	return stats
}

func (s *RewardService) statsGeneration() uint64 {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.statsGen
}

// cacheStats stores stats computed at generation gen, unless the index
// changed since then.
func (s *RewardService) cacheStats(gen uint64, stats models.IndexStats) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	if gen == s.statsGen {
		s.statsCache.Set(statsCacheKey, stats, cache.DefaultExpiration)
	}
}

func (s *RewardService) invalidateStats() {
	s.statsMu.Lock()
	s.statsGen++
	s.statsCache.Flush()
	s.statsMu.Unlock()
}

func (s *RewardService) Lookup(code string) (models.ClaimStatus, error) {
	return s.Index.Lookup(strings.TrimSpace(code))
}

// --- Handlers ---

// GenerateSock mints a code for the caller.
func (s *RewardService) GenerateSock(c *fiber.Ctx) error {
	result, err := s.Generate()
	if err != nil {
		logging.WithCode(result.Code).WithError(err).Error("❌ [REWARDS] Failed to persist generated code")
	} else {
		logging.WithCode(result.Code).WithField("score", result.Score).Info("🧦 [REWARDS] Code generated")
	}
	return c.JSON(result)
}

// GetChristmasStats reports totals, the available/claimed split and the top claimed score.
func (s *RewardService) GetChristmasStats(c *fiber.Ctx) error {
	return c.JSON(s.ChristmasStats())
}

// GetClaimStatus answers whether a code was claimed, is still available, or never existed.
func (s *RewardService) GetClaimStatus(c *fiber.Ctx) error {
	code := c.Params("code")
	status, err := s.Lookup(code)
	if err != nil {
		if errors.Is(err, ErrCodeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Code not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Lookup failed"})
	}
	return c.JSON(status)
}
