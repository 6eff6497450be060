package services

import (
	"fmt"
	"time"

	"bot-companion-web/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCodeStore keeps records in the reward_codes table. Save is an upsert on
// the code, so a colliding code overwrites the earlier row like the file store.
type GormCodeStore struct {
	DB  *gorm.DB
	now func() time.Time
}

// OpenPostgresCodeStore connects with dsn and migrates the table.
func OpenPostgresCodeStore(dsn string) (*GormCodeStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewGormCodeStore(db)
}

func NewGormCodeStore(db *gorm.DB) (*GormCodeStore, error) {
	if err := db.AutoMigrate(&models.RewardCode{}); err != nil {
		return nil, fmt.Errorf("failed to migrate reward_codes: %w", err)
	}
	return &GormCodeStore{DB: db, now: time.Now}, nil
}

func (s *GormCodeStore) Save(code string, score int) (models.RewardRecord, error) {
	rec := models.NewRewardRecord(score, s.now())
	row := models.RewardCodeFromRecord(code, rec)

	if err := upsertCode(s.DB, &row).Error; err != nil {
		return rec, fmt.Errorf("upsert reward code %s: %w", code, err)
	}
	return rec, nil
}

func (s *GormCodeStore) LoadAll() LoadResult {
	var rows []models.RewardCode
	if err := s.DB.Find(&rows).Error; err != nil {
		return LoadResult{Records: map[string]models.RewardRecord{}, Status: LoadCorrupt, Err: err}
	}

	records := make(map[string]models.RewardRecord, len(rows))
	for _, row := range rows {
		records[row.Code] = row.ToRecord()
	}
	return LoadResult{Records: records, Status: LoadOK}
}

// upsertCode inserts row, replacing every column of an existing row with the same code.
func upsertCode(tx *gorm.DB, row *models.RewardCode) *gorm.DB {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		UpdateAll: true,
	}).Create(row)
}
