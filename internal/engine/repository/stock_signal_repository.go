package repository

import (
	"context"
	"errors"

	"golang-stock-insight/internal/entity"

	"gorm.io/gorm"
)

// NewStockSignalRepository creates a new GORM-based stock signal repository.
func NewStockSignalRepository(db *gorm.DB) StockSignalRepository {
	return &stockSignalRepository{db: db}
}

type stockSignalRepository struct {
	db *gorm.DB
}

// Create persists a finalized signal.
func (r *stockSignalRepository) Create(ctx context.Context, sig *entity.StockSignal) error {
	return r.db.WithContext(ctx).Create(sig).Error
}

// GetLatest returns the most recent signal for a ticker, or nil when none
// has been recorded yet.
func (r *stockSignalRepository) GetLatest(ctx context.Context, ticker string) (*entity.StockSignal, error) {
	var sig entity.StockSignal
	err := r.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("created_at DESC").
		First(&sig).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sig, nil
}
