package entity

import (
	"database/sql"
	"time"
)

// WatchlistItem is a ticker the scheduler analyzes automatically on a cron
// expression.
type WatchlistItem struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	Ticker         string       `gorm:"unique;not null" json:"ticker"`
	CronExpression string       `gorm:"not null" json:"cron_expression"`
	IsActive       bool         `gorm:"default:true" json:"is_active"`
	TelegramID     int64        `json:"telegram_id"`
	LastEnqueuedAt sql.NullTime `json:"last_enqueued_at"`
	NextRunAt      sql.NullTime `json:"next_run_at"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WatchlistItem) TableName() string {
	return "watchlist_items"
}
