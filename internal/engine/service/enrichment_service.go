package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang-stock-insight/internal/engine/config"
	"golang-stock-insight/internal/engine/dto"
	"golang-stock-insight/internal/engine/marketcontext"
	"golang-stock-insight/internal/engine/repository"
	"golang-stock-insight/internal/engine/signal"
	"golang-stock-insight/internal/entity"
	"golang-stock-insight/pkg/common"
	"golang-stock-insight/pkg/logger"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
)

const (
	defaultCallerID    = "system"
	maxSourcesPerClaim = 5
)

var tickerPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

// EnrichmentService attaches cited market context to a trading signal.
type EnrichmentService interface {
	Enrich(ctx context.Context, req dto.EnrichmentRequest) (*dto.EnrichmentResponse, error)
	ProcessTask(ctx context.Context)
}

type enrichmentService struct {
	cfg            *config.Config
	log            *logger.Logger
	redisClient    *redis.Client
	evidenceRepo   repository.EvidenceRepository
	summarizerRepo repository.SummarizerRepository
	historyRepo    repository.EnrichmentHistoryRepository
	scorer         *marketcontext.RelevanceScorer
	trigger        *marketcontext.TriggerStore
	cache          *marketcontext.CacheStore
	fetchGroup     singleflight.Group
}

func NewEnrichmentService(cfg *config.Config, log *logger.Logger,
	redisClient *redis.Client,
	evidenceRepo repository.EvidenceRepository,
	summarizerRepo repository.SummarizerRepository,
	historyRepo repository.EnrichmentHistoryRepository) EnrichmentService {
	return &enrichmentService{
		cfg:            cfg,
		log:            log,
		redisClient:    redisClient,
		evidenceRepo:   evidenceRepo,
		summarizerRepo: summarizerRepo,
		historyRepo:    historyRepo,
		scorer:         marketcontext.NewRelevanceScorer(cfg.Engine.RelevanceThreshold),
		trigger: marketcontext.NewTriggerStore(marketcontext.TriggerConfig{
			Cooldown:          cfg.Engine.Cooldown(),
			DailyCap:          cfg.Engine.DailyTriggerCap,
			CapCountsExplicit: cfg.Engine.DailyCapCountsExplicit,
		}),
		cache: marketcontext.NewCacheStore(cfg.Engine.CacheTTL()),
	}
}

// Enrich validates the request, consults the cache and trigger policy, and
// when allowed runs the fetch-filter-grade-summarize pipeline. Every return
// path yields a structurally valid response; collaborator failures degrade
// the mcp_status instead of surfacing as errors.
func (s *enrichmentService) Enrich(ctx context.Context, req dto.EnrichmentRequest) (*dto.EnrichmentResponse, error) {
	req.Ticker = strings.ToUpper(strings.TrimSpace(req.Ticker))
	if !tickerPattern.MatchString(req.Ticker) {
		return nil, fmt.Errorf("invalid ticker: %q", req.Ticker)
	}
	if req.Confidence < 0 || req.Confidence > 1 {
		return nil, fmt.Errorf("confidence out of range: %f", req.Confidence)
	}
	direction, err := signal.ParseDirection(req.SignalType)
	if err != nil {
		return nil, err
	}

	if !s.cfg.Engine.Enabled {
		return &dto.EnrichmentResponse{
			SupportingPoints: []dto.SupportingPoint{},
			DataSourcesUsed:  []string{},
			MCPStatus:        dto.MCPStatusDisabled,
			EnrichedAt:       time.Now(),
		}, nil
	}

	fingerprint := signal.Fingerprint(req.Ticker, direction, req.SignalReasons, req.Confidence)

	if cached, ok := s.cache.Get(req.Ticker, fingerprint); ok {
		s.log.DebugContext(ctx, "Serving cached context", logger.StringField("ticker", req.Ticker))
		return cached, nil
	}

	callerID := req.UserID
	if callerID == "" {
		callerID = defaultCallerID
	}

	// Concurrent callers for the same ticker+fingerprint share one flight:
	// the trigger decision and the fetch both happen at most once, and every
	// waiter receives the in-flight result.
	v, err, _ := s.fetchGroup.Do(req.Ticker+"|"+fingerprint, func() (interface{}, error) {
		if cached, ok := s.cache.Get(req.Ticker, fingerprint); ok {
			return cached, nil
		}

		decision := s.trigger.Evaluate(req.Ticker, fingerprint, callerID, req.ExplicitUserAction)
		if !decision.Run {
			s.log.DebugContext(ctx, "Enrichment skipped",
				logger.StringField("ticker", req.Ticker),
				logger.StringField("reason", string(decision.Reason)))
			if stale, ok := s.cache.GetStale(req.Ticker); ok {
				return stale, nil
			}
			return &dto.EnrichmentResponse{
				ContextSummary:   "No market context available yet; refresh skipped (" + string(decision.Reason) + ").",
				SupportingPoints: []dto.SupportingPoint{},
				DataSourcesUsed:  []string{},
				MCPStatus:        dto.MCPStatusPartial,
				EnrichedAt:       time.Now(),
				Stale:            true,
			}, nil
		}

		return s.enrich(ctx, req, direction, fingerprint)
	})
	if err != nil {
		return nil, err
	}
	return v.(*dto.EnrichmentResponse), nil
}

func (s *enrichmentService) enrich(ctx context.Context, req dto.EnrichmentRequest, direction signal.Direction, fingerprint string) (*dto.EnrichmentResponse, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.Engine.Timeout())
	defer cancel()

	window := time.Duration(s.cfg.News.WindowDays) * 24 * time.Hour
	evidence, fetchErr := s.evidenceRepo.Fetch(fetchCtx, req.Ticker, window)
	if fetchErr != nil {
		s.log.Error("Evidence fetch failed",
			logger.ErrorField(fetchErr),
			logger.StringField("ticker", req.Ticker))
	}

	points := s.buildSupportingPoints(direction, req.SignalReasons, evidence)

	resp := &dto.EnrichmentResponse{
		SupportingPoints: points,
		DataSourcesUsed:  sourcesUsed(points),
		MCPStatus:        enrichmentStatus(fetchErr, evidence, points),
		EnrichedAt:       time.Now(),
	}
	resp.ContextSummary = s.summarize(ctx, req.Ticker, string(direction), points)

	s.cache.Set(req.Ticker, fingerprint, resp)
	s.recordHistory(ctx, req.Ticker, fingerprint, resp)

	return resp, nil
}

// buildSupportingPoints filters the evidence by relevance and groups
// duplicate headlines into one claim backed by multiple sources. The
// confidence tier depends on the corroborating source count only.
func (s *enrichmentService) buildSupportingPoints(direction signal.Direction, reasons []string, evidence []dto.EvidenceItem) []dto.SupportingPoint {
	type group struct {
		claim     string
		relevance float64
		sources   []dto.CitationSource
	}

	groups := make(map[string]*group)
	var order []string

	for i := range evidence {
		item := &evidence[i]
		assessment := s.scorer.Assess(direction, reasons, item.Headline)
		item.Relevance = assessment.Score
		if !assessment.Accepted {
			s.log.Debug("Evidence rejected",
				logger.StringField("headline", item.Headline),
				logger.StringField("reason", assessment.RejectReason),
				logger.Float64Field("score", assessment.Score))
			continue
		}

		key := normalizeClaim(item.Headline)
		g, ok := groups[key]
		if !ok {
			g = &group{claim: item.Headline, relevance: assessment.Score}
			groups[key] = g
			order = append(order, key)
		}
		if assessment.Score > g.relevance {
			g.claim = item.Headline
			g.relevance = assessment.Score
		}
		if len(g.sources) < maxSourcesPerClaim {
			g.sources = append(g.sources, dto.CitationSource{
				Title:       item.Headline,
				Publisher:   item.Publisher,
				URL:         item.URL,
				PublishedAt: item.PublishedAt,
			})
		}
	}

	points := make([]dto.SupportingPoint, 0, len(order))
	for _, key := range order {
		g := groups[key]
		points = append(points, dto.SupportingPoint{
			Claim:          g.claim,
			Sources:        g.sources,
			Confidence:     string(marketcontext.GradeCitations(len(g.sources))),
			RelevanceScore: g.relevance,
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].RelevanceScore > points[j].RelevanceScore
	})
	return points
}

// summarize asks the summarizer for a context paragraph and falls back to a
// deterministic rendering when the call fails or there is nothing to say.
func (s *enrichmentService) summarize(ctx context.Context, ticker, signalType string, points []dto.SupportingPoint) string {
	if len(points) == 0 {
		return fmt.Sprintf("No relevant market context found for %s.", ticker)
	}

	summary, err := s.summarizerRepo.Summarize(ctx, ticker, signalType, points)
	if err != nil || strings.TrimSpace(summary) == "" {
		if err != nil {
			s.log.Error("Summarizer failed, using fallback summary",
				logger.ErrorField(err), logger.StringField("ticker", ticker))
		}
		claims := make([]string, 0, len(points))
		for _, p := range points {
			claims = append(claims, p.Claim)
		}
		return fmt.Sprintf("Recent coverage on %s: %s.", ticker, strings.Join(claims, "; "))
	}
	return summary
}

func (s *enrichmentService) recordHistory(ctx context.Context, ticker, fingerprint string, resp *dto.EnrichmentResponse) {
	if s.historyRepo == nil {
		return
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("Failed to marshal enrichment payload", logger.ErrorField(err))
		return
	}
	history := &entity.EnrichmentHistory{
		Ticker:      ticker,
		Fingerprint: fingerprint,
		Status:      string(resp.MCPStatus),
		Payload:     datatypes.JSON(payload),
		EnrichedAt:  resp.EnrichedAt,
	}
	if err := s.historyRepo.Create(ctx, history); err != nil {
		s.log.Error("Failed to record enrichment history", logger.ErrorField(err), logger.StringField("ticker", ticker))
	}
}

// ProcessTask consumes one background enrichment request from the stream.
func (s *enrichmentService) ProcessTask(ctx context.Context) {
	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamContextEnrichment, ">"},
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

	var streamData dto.StreamDataContextEnrichment
	if err := json.Unmarshal([]byte(taskData), &streamData); err != nil {
		s.log.Error("Failed to unmarshal task data", logger.ErrorField(err), logger.Field("message_id", message.ID))
		return
	}

	if _, err := s.Enrich(ctx, dto.EnrichmentRequest{
		Ticker:        streamData.Ticker,
		SignalType:    streamData.SignalType,
		SignalReasons: streamData.SignalReasons,
		Confidence:    streamData.Confidence,
	}); err != nil {
		s.log.Error("Failed to enrich context", logger.ErrorField(err), logger.StringField("ticker", streamData.Ticker))
		return
	}

	if err := s.ackNDel(ctx, common.RedisStreamContextEnrichment, message.ID); err != nil {
		s.log.Error("Failed to acknowledge and delete enrichment task", logger.ErrorField(err), logger.Field("message_id", message.ID))
	}
}

func (s *enrichmentService) ackNDel(ctx context.Context, stream, messageID string) error {
	if err := s.redisClient.XAck(ctx, stream, common.RedisStreamGroup, messageID).Err(); err != nil {
		return fmt.Errorf("failed to ack message: %w", err)
	}
	if err := s.redisClient.XDel(ctx, stream, messageID).Err(); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// enrichmentStatus classifies the run. A fetch failure with nothing gathered
// is failed; a fetch failure after partial results, or a clean fetch that
// produced no accepted evidence, is partial.
func enrichmentStatus(fetchErr error, evidence []dto.EvidenceItem, points []dto.SupportingPoint) dto.MCPStatus {
	switch {
	case fetchErr != nil && len(evidence) == 0:
		return dto.MCPStatusFailed
	case fetchErr != nil, len(points) == 0:
		return dto.MCPStatusPartial
	default:
		return dto.MCPStatusSuccess
	}
}

func sourcesUsed(points []dto.SupportingPoint) []string {
	seen := make(map[string]struct{})
	used := []string{}
	for _, p := range points {
		for _, src := range p.Sources {
			if src.Publisher == "" {
				continue
			}
			if _, ok := seen[src.Publisher]; ok {
				continue
			}
			seen[src.Publisher] = struct{}{}
			used = append(used, src.Publisher)
		}
	}
	return used
}

// normalizeClaim collapses punctuation and case so near-identical headlines
// from different outlets corroborate one claim.
func normalizeClaim(headline string) string {
	lower := strings.ToLower(headline)
	var b strings.Builder
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
