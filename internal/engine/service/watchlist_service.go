package service

import (
	"context"
	"fmt"
	"strings"

	"golang-stock-insight/internal/engine/dto"
	"golang-stock-insight/internal/engine/repository"
	"golang-stock-insight/internal/entity"
	"golang-stock-insight/pkg/logger"

	"github.com/robfig/cron/v3"
)

// WatchlistService manages the scheduled analysis watchlist.
type WatchlistService interface {
	Create(ctx context.Context, req *dto.CreateWatchlistRequest) (*entity.WatchlistItem, error)
	GetAll(ctx context.Context) ([]entity.WatchlistItem, error)
	Delete(ctx context.Context, ticker string) error
}

// NewWatchlistService creates a new watchlist service.
func NewWatchlistService(watchlistRepo repository.WatchlistRepository, log *logger.Logger) WatchlistService {
	return &watchlistService{
		watchlistRepo: watchlistRepo,
		log:           log,
		cronParser:    cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

type watchlistService struct {
	watchlistRepo repository.WatchlistRepository
	log           *logger.Logger
	cronParser    cron.Parser
}

// Create validates and stores a new watchlist item.
func (s *watchlistService) Create(ctx context.Context, req *dto.CreateWatchlistRequest) (*entity.WatchlistItem, error) {
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if !tickerPattern.MatchString(ticker) {
		return nil, fmt.Errorf("invalid ticker: %q", req.Ticker)
	}
	if _, err := s.cronParser.Parse(req.CronExpression); err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}

	item := &entity.WatchlistItem{
		Ticker:         ticker,
		CronExpression: req.CronExpression,
		IsActive:       true,
		TelegramID:     req.TelegramID,
	}
	if err := s.watchlistRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetAll returns every watchlist item.
func (s *watchlistService) GetAll(ctx context.Context) ([]entity.WatchlistItem, error) {
	return s.watchlistRepo.FindAll(ctx)
}

// Delete removes a ticker from the watchlist.
func (s *watchlistService) Delete(ctx context.Context, ticker string) error {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if !tickerPattern.MatchString(ticker) {
		return fmt.Errorf("invalid ticker: %q", ticker)
	}
	return s.watchlistRepo.DeleteByTicker(ctx, ticker)
}
