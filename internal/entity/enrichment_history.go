package entity

import (
	"time"

	"gorm.io/datatypes"
)

// EnrichmentHistory records one enrichment run for a ticker, including the
// full response payload that was served.
type EnrichmentHistory struct {
	ID          int64          `json:"id"`
	Ticker      string         `gorm:"index" json:"ticker"`
	Fingerprint string         `json:"fingerprint"`
	Status      string         `json:"status"`
	Payload     datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	EnrichedAt  time.Time      `json:"enriched_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (EnrichmentHistory) TableName() string {
	return "enrichment_histories"
}
