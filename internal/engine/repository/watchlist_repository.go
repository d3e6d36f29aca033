package repository

import (
	"context"
	"time"

	"golang-stock-insight/internal/entity"

	"gorm.io/gorm"
)

// NewWatchlistRepository creates a new GORM-based watchlist repository.
func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &watchlistRepository{db: db}
}

type watchlistRepository struct {
	db *gorm.DB
}

// Create adds a new ticker to the watchlist.
func (r *watchlistRepository) Create(ctx context.Context, item *entity.WatchlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// FindAll retrieves all watchlist items.
func (r *watchlistRepository) FindAll(ctx context.Context) ([]entity.WatchlistItem, error) {
	var items []entity.WatchlistItem
	if err := r.db.WithContext(ctx).Order("ticker").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindDue returns the active watchlist items whose next run is due.
func (r *watchlistRepository) FindDue(ctx context.Context, now time.Time) ([]entity.WatchlistItem, error) {
	var items []entity.WatchlistItem
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("next_run_at IS NULL OR next_run_at <= ?", now).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Update saves scheduling bookkeeping back to the item.
func (r *watchlistRepository) Update(ctx context.Context, item *entity.WatchlistItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteByTicker removes a ticker from the watchlist.
func (r *watchlistRepository) DeleteByTicker(ctx context.Context, ticker string) error {
	return r.db.WithContext(ctx).Where("ticker = ?", ticker).Delete(&entity.WatchlistItem{}).Error
}
