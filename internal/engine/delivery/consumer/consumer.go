package consumer

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang-stock-insight/internal/engine/config"
	"golang-stock-insight/internal/engine/service"
	"golang-stock-insight/pkg/common"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// RedisConsumer manages the consumption of tasks from the Redis streams.
type RedisConsumer struct {
	cfg               *config.Config
	redisClient       *redis.Client
	analyzerService   service.AnalyzerService
	enrichmentService service.EnrichmentService
	logger            *logger.Logger
	stopChan          chan struct{}
	wg                sync.WaitGroup
}

// NewRedisConsumer creates a new RedisConsumer.
func NewRedisConsumer(
	cfg *config.Config,
	redisClient *redis.Client,
	analyzerService service.AnalyzerService,
	enrichmentService service.EnrichmentService,
	log *logger.Logger,
) *RedisConsumer {
	return &RedisConsumer{
		cfg:               cfg,
		redisClient:       redisClient,
		analyzerService:   analyzerService,
		enrichmentService: enrichmentService,
		logger:            log,
		stopChan:          make(chan struct{}),
	}
}

// Start begins the consumer's task processing loops.
func (c *RedisConsumer) Start(ctx context.Context) {
	c.logger.Info("Redis consumer started")
	c.ensureGroup(ctx, common.RedisStreamStockAnalyzer)
	c.ensureGroup(ctx, common.RedisStreamContextEnrichment)
	c.RegisterStreamHandler(ctx, c.analyzerService.ProcessTask, common.RedisStreamStockAnalyzer, c.streamTimeout(c.cfg.Consumer.StockAnalyzerTimeout))
	c.RegisterStreamHandler(ctx, c.enrichmentService.ProcessTask, common.RedisStreamContextEnrichment, c.streamTimeout(c.cfg.Consumer.ContextEnrichmentTimeout))
}

func (c *RedisConsumer) ensureGroup(ctx context.Context, streamName string) {
	err := c.redisClient.XGroupCreateMkStream(ctx, streamName, common.RedisStreamGroup, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		c.logger.Error("Failed to create consumer group", logger.ErrorField(err), logger.Field("stream", streamName))
	}
}

func (c *RedisConsumer) streamTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return time.Minute
	}
	return timeout
}

// RegisterStreamHandler runs fn in a loop until the context is canceled or
// the consumer stops. Each iteration gets its own timeout.
func (c *RedisConsumer) RegisterStreamHandler(ctx context.Context, fn func(ctx context.Context), streamName string, timeout time.Duration) {
	c.logger.Info("Registering stream handler", logger.Field("stream", streamName))
	c.wg.Add(1)
	utils.GoSafe(func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Redis consumer stopping due to context cancellation")
				return
			case <-c.stopChan:
				c.logger.Info("Redis consumer stopping")
				return
			default:
				ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
				fn(ctxTimeout)
				cancel()
			}
		}
	})
}

// Stop gracefully shuts down the consumer.
func (c *RedisConsumer) Stop() {
	close(c.stopChan)
	c.wg.Wait()
	c.logger.Info("Redis consumer stopped")
}
