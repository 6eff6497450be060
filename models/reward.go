package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// RewardTier is one of the fixed point values a generated code may carry,
// paired with its selection weight.
type RewardTier struct {
	Score  int `json:"score" yaml:"score"`
	Weight int `json:"weight" yaml:"weight"`
}

// DefaultRewardTiers: higher scores are rarer.
var DefaultRewardTiers = []RewardTier{
	{Score: 10, Weight: 50},
	{Score: 30, Weight: 30},
	{Score: 50, Weight: 15},
	{Score: 100, Weight: 5},
}

// RewardRecord is one entry of the code file, keyed by the code string.
// ClaimedBy and ClaimedAt are written by the bot when a code is redeemed.
type RewardRecord struct {
	Score     int      `json:"score"`
	CreatedAt float64  `json:"created_at"`
	Claimed   bool     `json:"claimed"`
	ClaimedBy *string  `json:"claimed_by"`
	ClaimedAt *float64 `json:"claimed_at,omitempty"`
}

// NewRewardRecord returns an unclaimed record stamped with now.
func NewRewardRecord(score int, now time.Time) RewardRecord {
	return RewardRecord{
		Score:     score,
		CreatedAt: UnixSeconds(now),
		Claimed:   false,
		ClaimedBy: nil,
	}
}

// UnixSeconds renders t as fractional seconds since the epoch.
func UnixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// UnmarshalJSON accepts the current object shape and the first file format,
// where each code mapped to a bare score. The bot writes claimant IDs either
// as strings or as raw snowflake numbers, so both are accepted.
func (r *RewardRecord) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] != '{' {
		var score float64
		if err := json.Unmarshal(trimmed, &score); err != nil {
			return err
		}
		*r = RewardRecord{Score: int(score)}
		return nil
	}

	var raw struct {
		Score     float64         `json:"score"`
		CreatedAt float64         `json:"created_at"`
		Claimed   bool            `json:"claimed"`
		ClaimedBy json.RawMessage `json:"claimed_by"`
		ClaimedAt json.RawMessage `json:"claimed_at"`
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}

	*r = RewardRecord{
		Score:     int(raw.Score),
		CreatedAt: raw.CreatedAt,
		Claimed:   raw.Claimed,
		ClaimedBy: decodeClaimant(raw.ClaimedBy),
		ClaimedAt: decodeTimestamp(raw.ClaimedAt),
	}
	return nil
}

func decodeClaimant(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		s = n.String()
		return &s
	}
	return nil
}

func decodeTimestamp(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	if parsed, err := strconv.ParseFloat(s, 64); err == nil {
		return &parsed
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05.999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			secs := UnixSeconds(t)
			return &secs
		}
	}
	return nil
}

// ClaimStatus is the answer to a claim-status lookup.
type ClaimStatus struct {
	Claimed   bool     `json:"claimed"`
	Available bool     `json:"available,omitempty"`
	Score     int      `json:"score"`
	ClaimedBy string   `json:"claimed_by,omitempty"`
	ClaimedAt *float64 `json:"claimed_at,omitempty"`
}

// IndexStats summarizes the aggregate index.
type IndexStats struct {
	TotalGenerated int `json:"total_generated"`
	Available      int `json:"available"`
	Claimed        int `json:"claimed"`
	TopScore       int `json:"top_score"`
}

// BotStatsSnapshot holds the counters published by the bot process.
type BotStatsSnapshot struct {
	GuildCount  int `json:"guild_count"`
	MemberCount int `json:"member_count"`
}

// GenerateResult is returned to the caller of the generation endpoint.
type GenerateResult struct {
	Code           string `json:"code"`
	Score          int    `json:"score"`
	Message        string `json:"message"`
	TotalGenerated int    `json:"total_generated"`
	Persisted      *bool  `json:"persisted,omitempty"`
}
