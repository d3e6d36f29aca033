package repository

import (
	"context"
	"time"

	"golang-stock-insight/internal/engine/dto"
	"golang-stock-insight/internal/entity"
)

// EvidenceRepository fetches candidate evidence headlines for a ticker. It
// must honor the context deadline and return an empty list (not an error)
// when individual sources fail; an error only signals that nothing could be
// attempted, typically context expiry.
type EvidenceRepository interface {
	Fetch(ctx context.Context, ticker string, window time.Duration) ([]dto.EvidenceItem, error)
}

// SummarizerRepository produces a short human-readable summary for an
// enrichment result.
type SummarizerRepository interface {
	Summarize(ctx context.Context, ticker string, signalType string, points []dto.SupportingPoint) (string, error)
}

// StockSignalRepository persists finalized signals.
type StockSignalRepository interface {
	Create(ctx context.Context, sig *entity.StockSignal) error
	GetLatest(ctx context.Context, ticker string) (*entity.StockSignal, error)
}

// EnrichmentHistoryRepository persists enrichment runs.
type EnrichmentHistoryRepository interface {
	Create(ctx context.Context, history *entity.EnrichmentHistory) error
}

// WatchlistRepository manages the scheduled analysis watchlist.
type WatchlistRepository interface {
	Create(ctx context.Context, item *entity.WatchlistItem) error
	FindAll(ctx context.Context) ([]entity.WatchlistItem, error)
	FindDue(ctx context.Context, now time.Time) ([]entity.WatchlistItem, error)
	Update(ctx context.Context, item *entity.WatchlistItem) error
	DeleteByTicker(ctx context.Context, ticker string) error
}
