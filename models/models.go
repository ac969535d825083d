package models

import (
	"time"
)

// ContentSnapshot is one enriched post as it was served for a job
type ContentSnapshot struct {
	ID          int       `gorm:"primaryKey;autoIncrement"`
	JobID       string    `gorm:"type:text;not null;index"`
	Token       string    `gorm:"type:text;not null"`
	Author      string    `gorm:"type:text;not null;index:idx_content_snapshots_post"`
	Permlink    string    `gorm:"type:text;not null;index:idx_content_snapshots_post"`
	Category    string    `gorm:"type:text"`
	Children    int64     `gorm:"default:0"`
	HasCuration bool      `gorm:"not null;default:false"`
	Payload     string    `gorm:"type:jsonb;not null"`
	SnapshotAt  time.Time `gorm:"type:timestamp with time zone;default:CURRENT_TIMESTAMP"`
}

// TableName overrides the table name
func (ContentSnapshot) TableName() string {
	return "content_snapshots"
}

