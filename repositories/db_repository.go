package repositories

import (
	"encoding/json"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"enricher-worker/domain"
	"enricher-worker/models"
)

type DBRepository interface {
	InsertSnapshots(jobID, symbol string, feed []domain.Content) error
}

type PostgresDBRepository struct {
	DB        *gorm.DB
	batchSize int
}

// OpenPostgres connects gorm to DATABASE_URL and migrates the snapshot table.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := db.AutoMigrate(&models.ContentSnapshot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate content_snapshots: %w", err)
	}
	return db, nil
}

func NewDBRepository(db *gorm.DB, batchSize int) *PostgresDBRepository {
	if batchSize <= 0 {
		batchSize = 100 // Default
	}
	return &PostgresDBRepository{
		DB:        db,
		batchSize: batchSize,
	}
}

// InsertSnapshots stores one row per post of an enriched feed page.
func (repo *PostgresDBRepository) InsertSnapshots(jobID, symbol string, feed []domain.Content) error {
	if len(feed) == 0 {
		return nil
	}

	rows := make([]models.ContentSnapshot, 0, len(feed))
	for _, post := range feed {
		payload, err := json.Marshal(post)
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot for %s: %w", post.Key(), err)
		}
		category, _ := post["category"].(string)
		rows = append(rows, models.ContentSnapshot{
			JobID:       jobID,
			Token:       symbol,
			Author:      post.Author(),
			Permlink:    post.Permlink(),
			Category:    category,
			Children:    intField(post["children"]),
			HasCuration: post.HasToken(symbol),
			Payload:     string(payload),
		})
	}

	if err := repo.DB.CreateInBatches(rows, repo.batchSize).Error; err != nil {
		return fmt.Errorf("failed to insert content snapshots: %w", err)
	}
	return nil
}

func intField(v any) int64 {
	switch n := v.(type) {
	case json.Number:
		i, _ := n.Int64()
		return i
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	default:
		return 0
	}
}
