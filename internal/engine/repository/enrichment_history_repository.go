package repository

import (
	"context"

	"golang-stock-insight/internal/entity"

	"gorm.io/gorm"
)

// NewEnrichmentHistoryRepository creates a new GORM-based enrichment history repository.
func NewEnrichmentHistoryRepository(db *gorm.DB) EnrichmentHistoryRepository {
	return &enrichmentHistoryRepository{db: db}
}

type enrichmentHistoryRepository struct {
	db *gorm.DB
}

// Create records one enrichment run.
func (r *enrichmentHistoryRepository) Create(ctx context.Context, history *entity.EnrichmentHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}
