package services

import (
	"sync"

	"bot-companion-web/models"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// Guild is the slice of a chat guild the stats reporter reads.
type Guild interface {
	MemberCount() int
}

// Bot is the hosting bot process, as seen at boot.
type Bot interface {
	Guilds() []Guild
}

// BotStats republishes the last counters it was given. It computes nothing itself.
type BotStats struct {
	mu       sync.RWMutex
	snapshot models.BotStatsSnapshot
}

func NewBotStats() *BotStats {
	return &BotStats{}
}

// Seed reads the guild count and summed member count from bot once.
func (b *BotStats) Seed(bot Bot) {
	if bot == nil {
		return
	}
	guilds := bot.Guilds()
	members := 0
	for _, g := range guilds {
		members += g.MemberCount()
	}
	b.Set(models.BotStatsSnapshot{GuildCount: len(guilds), MemberCount: members})
}

func (b *BotStats) Set(s models.BotStatsSnapshot) {
	b.mu.Lock()
	b.snapshot = s
	b.mu.Unlock()
}

func (b *BotStats) Snapshot() models.BotStatsSnapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshot
}

// StatsService exposes BotStats over HTTP.
type StatsService struct {
	Stats *BotStats
}

func NewStatsService(stats *BotStats) *StatsService {
	return &StatsService{Stats: stats}
}

// GetStats returns {guild_count, member_count}.
func (s *StatsService) GetStats(c *fiber.Ctx) error {
	return c.JSON(s.Stats.Snapshot())
}

// UpdateStats lets the bot push fresh counters.
func (s *StatsService) UpdateStats(c *fiber.Ctx) error {
	var req struct {
		GuildCount  *int `json:"guild_count"`
		MemberCount *int `json:"member_count"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.GuildCount == nil || req.MemberCount == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "guild_count and member_count are required"})
	}
	if *req.GuildCount < 0 || *req.MemberCount < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Counts must not be negative"})
	}

	snapshot := models.BotStatsSnapshot{GuildCount: *req.GuildCount, MemberCount: *req.MemberCount}
	s.Stats.Set(snapshot)
	log.Printf("🤖 [BOT_STATS] Updated: %d guilds, %d members", snapshot.GuildCount, snapshot.MemberCount)
	return c.JSON(snapshot)
}
