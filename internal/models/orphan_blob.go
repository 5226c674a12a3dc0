package models

import "time"

// OrphanBlob records a blob whose delete failed after its node was removed.
type OrphanBlob struct {
	ID        uint      `gorm:"primaryKey"`
	BlobKey   string    `gorm:"type:varchar(2048);not null"`
	LastError string    `gorm:"type:text"`
	Attempts  int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
