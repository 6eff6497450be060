package services

import (
	"errors"
	"math/rand/v2"
	"strings"

	"bot-companion-web/models"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// IntSource is the slice of *rand.Rand the generator needs.
type IntSource interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// RewardGenerator mints code strings and draws a weighted score for them.
// It performs no uniqueness check: a repeated code overwrites the earlier record.
type RewardGenerator struct {
	Prefix    string
	Length    int
	GroupSize int
	Tiers     []models.RewardTier

	src         IntSource
	totalWeight int
}

// NewRewardGenerator validates the tier table. A nil src uses the
// goroutine-safe global generator.
func NewRewardGenerator(prefix string, length, groupSize int, tiers []models.RewardTier, src IntSource) (*RewardGenerator, error) {
	if length <= 0 {
		return nil, errors.New("code length must be positive")
	}
	if len(tiers) == 0 {
		return nil, errors.New("at least one reward tier is required")
	}
	total := 0
	for _, t := range tiers {
		if t.Weight <= 0 || t.Score <= 0 {
			return nil, errors.New("reward tiers need positive score and weight")
		}
		total += t.Weight
	}
	if src == nil {
		src = globalSource{}
	}
	return &RewardGenerator{
		Prefix:      prefix,
		Length:      length,
		GroupSize:   groupSize,
		Tiers:       tiers,
		src:         src,
		totalWeight: total,
	}, nil
}

// Generate returns a fresh code and its score.
func (g *RewardGenerator) Generate() (string, int) {
	return g.NewCode(), g.DrawScore()
}

// NewCode returns PREFIX-XXXX-XXXX with the random part split into groups.
func (g *RewardGenerator) NewCode() string {
	buf := make([]byte, g.Length)
	for i := range buf {
		buf[i] = codeAlphabet[g.src.IntN(len(codeAlphabet))]
	}

	parts := make([]string, 0, 1+g.Length)
	if g.Prefix != "" {
		parts = append(parts, g.Prefix)
	}
	if g.GroupSize <= 0 || g.GroupSize >= g.Length {
		parts = append(parts, string(buf))
	} else {
		for start := 0; start < g.Length; start += g.GroupSize {
			end := min(start+g.GroupSize, g.Length)
			parts = append(parts, string(buf[start:end]))
		}
	}
	return strings.Join(parts, "-")
}

// DrawScore is a single categorical sample over the tier weights.
func (g *RewardGenerator) DrawScore() int {
	r := g.src.IntN(g.totalWeight)
	for _, t := range g.Tiers {
		if r < t.Weight {
			return t.Score
		}
		r -= t.Weight
	}
	return g.Tiers[len(g.Tiers)-1].Score
}
