package models

// RewardCode is the SQL row behind GormCodeStore. The column set mirrors the
// JSON file so either backend round-trips the same records.
type RewardCode struct {
	Code        string   `gorm:"primaryKey;type:varchar(64)" json:"code"`
	Score       int      `gorm:"not null" json:"score"`
	CreatedUnix float64  `gorm:"column:created_at;not null" json:"created_at"`
	Claimed     bool     `gorm:"default:false;index" json:"claimed"`
	ClaimedBy   *string  `gorm:"type:varchar(64)" json:"claimed_by"`
	ClaimedAt   *float64 `json:"claimed_at,omitempty"`
}

func (RewardCode) TableName() string { return "reward_codes" }

// ToRecord drops the key.
func (r RewardCode) ToRecord() RewardRecord {
	return RewardRecord{
		Score:     r.Score,
		CreatedAt: r.CreatedUnix,
		Claimed:   r.Claimed,
		ClaimedBy: r.ClaimedBy,
		ClaimedAt: r.ClaimedAt,
	}
}

// RewardCodeFromRecord builds the row for code.
func RewardCodeFromRecord(code string, rec RewardRecord) RewardCode {
	return RewardCode{
		Code:        code,
		Score:       rec.Score,
		CreatedUnix: rec.CreatedAt,
		Claimed:     rec.Claimed,
		ClaimedBy:   rec.ClaimedBy,
		ClaimedAt:   rec.ClaimedAt,
	}
}
