package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"golang-stock-insight/internal/engine/dto"
	"golang-stock-insight/internal/engine/signal"
	"golang-stock-insight/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSignalRepo struct {
	mu      sync.Mutex
	signals []*entity.StockSignal
}

func (f *fakeSignalRepo) Create(ctx context.Context, sig *entity.StockSignal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signals = append(f.signals, sig)
	return nil
}

func (f *fakeSignalRepo) GetLatest(ctx context.Context, ticker string) (*entity.StockSignal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.signals) - 1; i >= 0; i-- {
		if f.signals[i].Ticker == ticker {
			return f.signals[i], nil
		}
	}
	return nil, nil
}

func fptr(v float64) *float64 { return &v }

func bullishRequest() dto.AnalyzeRequest {
	return dto.AnalyzeRequest{
		Ticker:        "acme",
		VolatilityPct: 24.0,
		HorizonDays:   30,
		Indicators: dto.IndicatorValues{
			Price: 105,
			SMA20: fptr(102),
			SMA50: fptr(100),
			RSI:   fptr(25),
		},
	}
}

func TestAnalyzerService_Analyze(t *testing.T) {
	repo := &fakeSignalRepo{}
	svc := NewAnalyzerService(newTestConfig(), newTestLogger(t), nil, repo, nil)

	resp, err := svc.Analyze(context.Background(), bullishRequest())
	require.NoError(t, err)

	// SMA cross 0.25 + price above SMA50 0.15 + RSI oversold 0.3 = 0.7 bullish.
	assert.Equal(t, "ACME", resp.Signal.Ticker)
	assert.Equal(t, signal.DirectionBuy, resp.Signal.Direction)
	assert.InDelta(t, 0.7, resp.Signal.Confidence, 1e-9)
	assert.Len(t, resp.Signal.Reasons, 3)
	assert.NotEmpty(t, resp.Signal.Fingerprint)
	assert.Len(t, resp.Projection.Scenarios, 3)

	var totalProbability float64
	for _, sc := range resp.Projection.Scenarios {
		totalProbability += sc.Probability
	}
	assert.InDelta(t, 1.0, totalProbability, 1e-9)

	require.Len(t, repo.signals, 1)
	stored := repo.signals[0]
	assert.Equal(t, "ACME", stored.Ticker)
	assert.Equal(t, "buy", stored.Direction)
	assert.Equal(t, resp.Signal.Fingerprint, stored.Fingerprint)

	var storedProjection signal.Projection
	require.NoError(t, json.Unmarshal(stored.Scenarios, &storedProjection))
	assert.Equal(t, resp.Projection, storedProjection)
}

func TestAnalyzerService_AnalyzeValidation(t *testing.T) {
	svc := NewAnalyzerService(newTestConfig(), newTestLogger(t), nil, &fakeSignalRepo{}, nil)

	tests := []struct {
		name   string
		mutate func(*dto.AnalyzeRequest)
	}{
		{"empty ticker", func(r *dto.AnalyzeRequest) { r.Ticker = " " }},
		{"malformed ticker", func(r *dto.AnalyzeRequest) { r.Ticker = "AC ME" }},
		{"negative volatility", func(r *dto.AnalyzeRequest) { r.VolatilityPct = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := bullishRequest()
			tt.mutate(&req)
			_, err := svc.Analyze(context.Background(), req)
			assert.Error(t, err)
		})
	}
}

func TestAnalyzerService_NoIndicatorsStaysNeutral(t *testing.T) {
	repo := &fakeSignalRepo{}
	svc := NewAnalyzerService(newTestConfig(), newTestLogger(t), nil, repo, nil)

	req := dto.AnalyzeRequest{
		Ticker:        "ACME",
		VolatilityPct: 24.0,
		Indicators:    dto.IndicatorValues{Price: 100},
	}
	resp, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, signal.DirectionNeutral, resp.Signal.Direction)
	assert.Equal(t, signal.NeutralConfidence, resp.Signal.Confidence)
	assert.Empty(t, resp.Signal.Reasons)
}

func TestAnalyzerService_RepersistedSignalRoundTrips(t *testing.T) {
	repo := &fakeSignalRepo{}
	svc := NewAnalyzerService(newTestConfig(), newTestLogger(t), nil, repo, nil)

	resp, err := svc.Analyze(context.Background(), bullishRequest())
	require.NoError(t, err)

	latest, err := repo.GetLatest(context.Background(), "ACME")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, resp.Signal.Fingerprint, latest.Fingerprint)
	assert.Equal(t, []string(latest.Reasons), resp.Signal.Reasons)
}
