package signal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func TestEvaluateIndicators_EmptySnapshot(t *testing.T) {
	votes := EvaluateIndicators(IndicatorSnapshot{})
	assert.Empty(t, votes, "undefined indicators must contribute no votes")
}

func TestEvaluateIndicators_UndefinedValuesSkipped(t *testing.T) {
	votes := EvaluateIndicators(IndicatorSnapshot{
		Price: 100,
		SMA20: f(math.NaN()),
		SMA50: f(98),
		RSI:   f(math.Inf(1)),
	})
	// Only the price-vs-SMA50 check has defined inputs.
	assert.Len(t, votes, 1)
	assert.Equal(t, VoteBullish, votes[0].Direction)
}

func TestEvaluateIndicators_BullishSetup(t *testing.T) {
	votes := EvaluateIndicators(IndicatorSnapshot{
		Price:       105,
		SMA20:       f(103),
		SMA50:       f(100),
		RSI:         f(25),
		MACDLine:    f(1.2),
		MACDSignal:  f(0.8),
		MomentumPct: f(3.5),
	})

	var bullish, bearish int
	for _, v := range votes {
		assert.Greater(t, v.Weight, 0.0)
		assert.LessOrEqual(t, v.Weight, 1.0)
		assert.NotEmpty(t, v.Reason)
		switch v.Direction {
		case VoteBullish:
			bullish++
		case VoteBearish:
			bearish++
		}
	}
	assert.Equal(t, 5, bullish)
	assert.Zero(t, bearish)
}

func TestEvaluateIndicators_RSIThresholds(t *testing.T) {
	tests := []struct {
		name string
		rsi  float64
		want VoteDirection
	}{
		{"oversold", 28, VoteBullish},
		{"overbought", 75, VoteBearish},
		{"neutral range", 50, VoteNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			votes := EvaluateIndicators(IndicatorSnapshot{RSI: f(tt.rsi)})
			assert.Len(t, votes, 1)
			assert.Equal(t, tt.want, votes[0].Direction)
		})
	}
}

func TestEvaluateIndicators_CustomThresholds(t *testing.T) {
	votes := EvaluateIndicators(IndicatorSnapshot{
		RSI:         f(35),
		RSIOversold: 40,
	})
	assert.Len(t, votes, 1)
	assert.Equal(t, VoteBullish, votes[0].Direction)
}

func TestEvaluateIndicators_VolumeSurgeIsNeutral(t *testing.T) {
	votes := EvaluateIndicators(IndicatorSnapshot{
		Volume:    f(2_000_000),
		AvgVolume: f(1_000_000),
	})
	assert.Len(t, votes, 1)
	assert.Equal(t, VoteNeutral, votes[0].Direction)
}
