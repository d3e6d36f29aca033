package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StockSignal struct {
	ID              int64          `json:"id"`
	Ticker          string         `json:"ticker"`
	Direction       string         `json:"direction"`
	ConfidenceScore float64        `json:"confidence_score"`
	Reasons         pq.StringArray `gorm:"type:text[]" json:"reasons"`
	Fingerprint     string         `gorm:"index" json:"fingerprint"`
	Scenarios       datatypes.JSON `gorm:"type:jsonb" json:"scenarios"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"deleted_at"`
}

func (StockSignal) TableName() string {
	return "stock_signals"
}
