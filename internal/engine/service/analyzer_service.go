package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang-stock-insight/internal/engine/config"
	"golang-stock-insight/internal/engine/dto"
	"golang-stock-insight/internal/engine/repository"
	"golang-stock-insight/internal/engine/signal"
	"golang-stock-insight/internal/entity"
	"golang-stock-insight/pkg/common"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/telegram"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
)

// AnalyzerService turns indicator snapshots into finalized, persisted
// trading signals with scenario projections.
type AnalyzerService interface {
	Analyze(ctx context.Context, req dto.AnalyzeRequest) (*dto.AnalyzeResponse, error)
	ProcessTask(ctx context.Context)
}

type analyzerService struct {
	cfg             *config.Config
	log             *logger.Logger
	redisClient     *redis.Client
	stockSignalRepo repository.StockSignalRepository
	aggregator      *signal.Aggregator
	telegramBot     telegram.Notifier
}

func NewAnalyzerService(cfg *config.Config, log *logger.Logger,
	redisClient *redis.Client,
	stockSignalRepo repository.StockSignalRepository,
	telegramBot telegram.Notifier) AnalyzerService {
	return &analyzerService{
		cfg:             cfg,
		log:             log,
		redisClient:     redisClient,
		stockSignalRepo: stockSignalRepo,
		aggregator:      signal.NewAggregator(cfg.Engine.HysteresisMargin),
		telegramBot:     telegramBot,
	}
}

// Analyze evaluates the indicator snapshot, aggregates the votes into a
// signal, projects the return scenarios, and persists the result.
func (s *analyzerService) Analyze(ctx context.Context, req dto.AnalyzeRequest) (*dto.AnalyzeResponse, error) {
	req.Ticker = strings.ToUpper(strings.TrimSpace(req.Ticker))
	if !tickerPattern.MatchString(req.Ticker) {
		return nil, fmt.Errorf("invalid ticker: %q", req.Ticker)
	}
	if req.VolatilityPct < 0 {
		return nil, fmt.Errorf("volatility must be non-negative: %f", req.VolatilityPct)
	}

	horizon := req.HorizonDays
	if horizon <= 0 {
		horizon = s.cfg.Engine.DefaultHorizonDays
	}

	votes := signal.EvaluateIndicators(req.Indicators.Snapshot())
	sig := s.aggregator.Aggregate(req.Ticker, votes)
	projection := signal.ProjectScenarios(sig, req.VolatilityPct, req.FundamentalScore, horizon)

	s.log.DebugContext(ctx, "Signal aggregated",
		logger.StringField("ticker", sig.Ticker),
		logger.StringField("direction", string(sig.Direction)),
		logger.Float64Field("confidence", sig.Confidence),
		logger.IntField("votes", len(votes)))

	if err := s.persistSignal(ctx, sig, projection); err != nil {
		s.log.Error("Failed to persist signal", logger.ErrorField(err), logger.StringField("ticker", sig.Ticker))
		return nil, err
	}

	return &dto.AnalyzeResponse{Signal: sig, Projection: projection}, nil
}

func (s *analyzerService) persistSignal(ctx context.Context, sig signal.Signal, projection signal.Projection) error {
	scenarios, err := json.Marshal(projection)
	if err != nil {
		return fmt.Errorf("failed to marshal projection: %w", err)
	}
	return s.stockSignalRepo.Create(ctx, &entity.StockSignal{
		Ticker:          sig.Ticker,
		Direction:       string(sig.Direction),
		ConfidenceScore: sig.Confidence,
		Reasons:         sig.Reasons,
		Fingerprint:     sig.Fingerprint,
		Scenarios:       datatypes.JSON(scenarios),
	})
}

// ProcessTask consumes one task from the analyzer stream. Tasks with a full
// request run a fresh analysis; watchlist tasks without one refresh the
// market context of the latest stored signal instead, since no new
// indicator data arrives with them.
func (s *analyzerService) ProcessTask(ctx context.Context) {
	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamStockAnalyzer, ">"},
		Count:    1,
		Block:    2 * time.Second,
	}).Result()
	if err != nil {
		if err == context.Canceled || err == redis.Nil {
			return
		}
		s.log.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}

	message := streams[0].Messages[0]
	taskData, ok := message.Values["payload"].(string)
	if !ok {
		s.log.Error("field 'payload' not found or not a string in stream message", logger.Field("message_id", message.ID))
		return
	}

	var streamData dto.StreamDataStockAnalyzer
	if err := json.Unmarshal([]byte(taskData), &streamData); err != nil {
		s.log.Error("Failed to unmarshal task data", logger.ErrorField(err), logger.Field("message_id", message.ID))
		return
	}

	s.log.Debug("Processing analyzer task", logger.StringField("ticker", streamData.Ticker))

	if err := s.handleTask(ctx, streamData); err != nil {
		s.log.Error("Failed to process analyzer task", logger.ErrorField(err), logger.Field("message_id", message.ID), logger.StringField("ticker", streamData.Ticker))
		return
	}

	if err := s.ackNDelAnalyzer(ctx, message.ID); err != nil {
		s.log.Error("Failed to acknowledge and delete analyzer task", logger.ErrorField(err), logger.Field("message_id", message.ID))
		return
	}

	s.log.Debug("Analyzer task processed successfully", logger.StringField("ticker", streamData.Ticker))
}

func (s *analyzerService) handleTask(ctx context.Context, streamData dto.StreamDataStockAnalyzer) error {
	if streamData.Request != nil {
		resp, err := s.Analyze(ctx, *streamData.Request)
		if err != nil {
			return err
		}
		s.notify(streamData, resp.Signal, resp.Projection)
		return s.enqueueContextRefresh(ctx, resp.Signal)
	}

	// Watchlist refresh path: no fresh indicators, so re-enrich the latest
	// stored signal. The trigger policy downstream rate-limits this.
	latest, err := s.stockSignalRepo.GetLatest(ctx, strings.ToUpper(strings.TrimSpace(streamData.Ticker)))
	if err != nil {
		return err
	}
	if latest == nil {
		s.log.Debug("No stored signal to refresh", logger.StringField("ticker", streamData.Ticker))
		return nil
	}

	sig := signal.Signal{
		Ticker:      latest.Ticker,
		Direction:   signal.Direction(latest.Direction),
		Confidence:  latest.ConfidenceScore,
		Reasons:     latest.Reasons,
		Fingerprint: latest.Fingerprint,
	}

	var projection signal.Projection
	if len(latest.Scenarios) > 0 {
		if err := json.Unmarshal(latest.Scenarios, &projection); err != nil {
			s.log.Error("Failed to unmarshal stored projection", logger.ErrorField(err), logger.StringField("ticker", latest.Ticker))
		}
	}
	s.notify(streamData, sig, projection)

	return s.enqueueContextRefresh(ctx, sig)
}

func (s *analyzerService) notify(streamData dto.StreamDataStockAnalyzer, sig signal.Signal, projection signal.Projection) {
	if !streamData.NotifyUser || !s.cfg.Telegram.Enabled || s.telegramBot == nil {
		return
	}
	msg := telegram.FormatSignalMessage(sig, projection)
	if err := s.telegramBot.SendMessageUser(msg, streamData.TelegramID); err != nil {
		s.log.Error("Failed to send telegram notification", logger.ErrorField(err), logger.StringField("ticker", sig.Ticker))
	}
}

// enqueueContextRefresh chains the finalized signal onto the enrichment
// stream so supporting market context is gathered in the background.
func (s *analyzerService) enqueueContextRefresh(ctx context.Context, sig signal.Signal) error {
	payload, err := json.Marshal(dto.StreamDataContextEnrichment{
		Ticker:        sig.Ticker,
		SignalType:    string(sig.Direction),
		SignalReasons: sig.Reasons,
		Confidence:    sig.Confidence,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal enrichment payload: %w", err)
	}
	if err := s.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamContextEnrichment,
		Values: map[string]interface{}{"payload": string(payload)},
	}).Err(); err != nil {
		return fmt.Errorf("failed to enqueue context refresh: %w", err)
	}
	return nil
}

func (s *analyzerService) ackNDelAnalyzer(ctx context.Context, messageID string) error {
	if err := s.redisClient.XAck(ctx, common.RedisStreamStockAnalyzer, common.RedisStreamGroup, messageID).Err(); err != nil {
		return fmt.Errorf("failed to ack message: %w", err)
	}
	if err := s.redisClient.XDel(ctx, common.RedisStreamStockAnalyzer, messageID).Err(); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}
