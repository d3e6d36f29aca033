package service

import (
	"context"
	"encoding/json"
	"time"

	"golang-stock-insight/internal/engine/config"
	"golang-stock-insight/internal/engine/dto"
	"golang-stock-insight/internal/engine/repository"
	"golang-stock-insight/internal/entity"
	"golang-stock-insight/pkg/common"
	"golang-stock-insight/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// WatchlistSchedulerService enqueues analysis tasks for watchlist items
// whose cron schedule is due.
type WatchlistSchedulerService interface {
	Start(ctx context.Context)
	ProcessWatchlist(ctx context.Context)
}

// NewWatchlistSchedulerService creates a new watchlist scheduler service.
func NewWatchlistSchedulerService(cfg *config.Config, log *logger.Logger,
	watchlistRepo repository.WatchlistRepository,
	redisClient *redis.Client) WatchlistSchedulerService {
	pollingInterval := cfg.Scheduler.PollingInterval
	if pollingInterval <= 0 {
		pollingInterval = time.Minute
	}
	return &watchlistSchedulerService{
		cfg:             cfg,
		log:             log,
		watchlistRepo:   watchlistRepo,
		redisClient:     redisClient,
		pollingInterval: pollingInterval,
		cronParser:      cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

type watchlistSchedulerService struct {
	cfg             *config.Config
	log             *logger.Logger
	watchlistRepo   repository.WatchlistRepository
	redisClient     *redis.Client
	pollingInterval time.Duration
	cronParser      cron.Parser
}

// Start begins the periodic watchlist processing loop.
func (s *watchlistSchedulerService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.pollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Watchlist scheduler stopping")
			return
		case <-ticker.C:
			s.ProcessWatchlist(ctx)
		}
	}
}

// ProcessWatchlist finds and enqueues the watchlist items that are due.
func (s *watchlistSchedulerService) ProcessWatchlist(ctx context.Context) {
	items, err := s.watchlistRepo.FindDue(ctx, time.Now())
	if err != nil {
		s.log.Error("Failed to find due watchlist items", logger.ErrorField(err))
		return
	}

	for i := range items {
		s.publishTask(ctx, &items[i])
	}
}

func (s *watchlistSchedulerService) publishTask(ctx context.Context, item *entity.WatchlistItem) {
	now := time.Now()

	payload, err := json.Marshal(dto.StreamDataStockAnalyzer{
		Ticker:     item.Ticker,
		TelegramID: item.TelegramID,
		NotifyUser: item.TelegramID != 0,
	})
	if err != nil {
		s.log.Error("Failed to marshal task payload", logger.ErrorField(err), logger.StringField("ticker", item.Ticker))
		return
	}

	if err := s.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamStockAnalyzer,
		Values: map[string]interface{}{"payload": string(payload)},
		MaxLen: s.cfg.Redis.StreamMaxLen,
	}).Err(); err != nil {
		s.log.Error("Failed to enqueue watchlist task", logger.ErrorField(err), logger.StringField("ticker", item.Ticker))
		return
	}

	s.log.Info("Watchlist task published", logger.StringField("ticker", item.Ticker))

	cronSchedule, err := s.cronParser.Parse(item.CronExpression)
	if err != nil {
		s.log.Error("Failed to parse cron expression", logger.ErrorField(err), logger.StringField("ticker", item.Ticker))
		return
	}

	item.LastEnqueuedAt.Time = now
	item.LastEnqueuedAt.Valid = true
	item.NextRunAt.Time = cronSchedule.Next(now)
	item.NextRunAt.Valid = true

	if err := s.watchlistRepo.Update(ctx, item); err != nil {
		s.log.Error("Failed to update next run time", logger.ErrorField(err), logger.StringField("ticker", item.Ticker))
	}
}
