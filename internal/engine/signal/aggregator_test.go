package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_DecisionRule(t *testing.T) {
	tests := []struct {
		name           string
		votes          []IndicatorVote
		wantDirection  Direction
		wantConfidence float64
	}{
		{
			name: "bullish majority beyond margin",
			votes: []IndicatorVote{
				{VoteBullish, 0.4, "sma crossover"},
				{VoteBullish, 0.3, "macd"},
				{VoteBearish, 0.2, "rsi overbought"},
			},
			wantDirection:  DirectionBuy,
			wantConfidence: 0.7,
		},
		{
			name: "bearish majority beyond margin",
			votes: []IndicatorVote{
				{VoteBearish, 0.5, "downtrend"},
				{VoteBearish, 0.3, "negative momentum"},
				{VoteBullish, 0.2, "rsi oversold"},
			},
			wantDirection:  DirectionSell,
			wantConfidence: 0.8,
		},
		{
			name: "difference inside margin stays neutral",
			votes: []IndicatorVote{
				{VoteBullish, 0.4, "sma crossover"},
				{VoteBearish, 0.3, "macd"},
			},
			wantDirection:  DirectionNeutral,
			wantConfidence: NeutralConfidence,
		},
		{
			name: "exactly at margin stays neutral",
			votes: []IndicatorVote{
				{VoteBullish, 0.25, "sma crossover"},
				{VoteBearish, 0.1, "macd"},
			},
			wantDirection:  DirectionNeutral,
			wantConfidence: NeutralConfidence,
		},
		{
			name:           "no votes stays neutral",
			votes:          nil,
			wantDirection:  DirectionNeutral,
			wantConfidence: NeutralConfidence,
		},
	}

	agg := NewAggregator(DefaultMargin)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := agg.Aggregate("BBCA", tt.votes)
			assert.Equal(t, tt.wantDirection, sig.Direction)
			assert.InDelta(t, tt.wantConfidence, sig.Confidence, 1e-9)
		})
	}
}

func TestAggregator_ConfidenceCeiling(t *testing.T) {
	agg := NewAggregator(DefaultMargin)
	sig := agg.Aggregate("TLKM", []IndicatorVote{
		{VoteBullish, 0.9, "a"},
		{VoteBullish, 0.9, "b"},
		{VoteBullish, 0.9, "c"},
	})
	assert.Equal(t, DirectionBuy, sig.Direction)
	assert.Equal(t, MaxConfidence, sig.Confidence)
	assert.LessOrEqual(t, sig.Confidence, MaxConfidence)
	assert.GreaterOrEqual(t, sig.Confidence, 0.0)
}

func TestAggregator_NeutralReasonsRetained(t *testing.T) {
	agg := NewAggregator(DefaultMargin)
	sig := agg.Aggregate("ASII", []IndicatorVote{
		{VoteBullish, 0.5, "uptrend"},
		{VoteNeutral, 0.1, "RSI in neutral range"},
	})
	assert.Equal(t, DirectionBuy, sig.Direction)
	assert.InDelta(t, 0.5, sig.Confidence, 1e-9)
	assert.Contains(t, sig.Reasons, "RSI in neutral range")
}

func TestAggregator_CustomMargin(t *testing.T) {
	agg := NewAggregator(0.05)
	sig := agg.Aggregate("BBRI", []IndicatorVote{
		{VoteBullish, 0.4, "a"},
		{VoteBearish, 0.3, "b"},
	})
	assert.Equal(t, DirectionBuy, sig.Direction)

	// Non-positive margin falls back rather than allowing hair-trigger flips.
	agg = NewAggregator(0)
	sig = agg.Aggregate("BBRI", []IndicatorVote{
		{VoteBullish, 0.4, "a"},
		{VoteBearish, 0.3, "b"},
	})
	assert.Equal(t, DirectionNeutral, sig.Direction)
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"BUY", DirectionBuy, false},
		{"buy", DirectionBuy, false},
		{"SELL", DirectionSell, false},
		{"HOLD", DirectionNeutral, false},
		{"NEUTRAL", DirectionNeutral, false},
		{" Buy ", DirectionBuy, false},
		{"SHORT", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFingerprint_Stability(t *testing.T) {
	reasons := []string{"sma crossover", "rsi oversold"}

	fp1 := Fingerprint("BBCA", DirectionBuy, reasons, 0.72)
	fp2 := Fingerprint("BBCA", DirectionBuy, []string{"rsi oversold", "sma crossover"}, 0.72)
	assert.Equal(t, fp1, fp2, "reason order must not matter")

	// Sub-cent confidence jitter rounds away.
	fp3 := Fingerprint("BBCA", DirectionBuy, reasons, 0.7201)
	assert.Equal(t, fp1, fp3)

	assert.NotEqual(t, fp1, Fingerprint("TLKM", DirectionBuy, reasons, 0.72))
	assert.NotEqual(t, fp1, Fingerprint("BBCA", DirectionSell, reasons, 0.72))
	assert.NotEqual(t, fp1, Fingerprint("BBCA", DirectionBuy, []string{"sma crossover"}, 0.72))
	assert.NotEqual(t, fp1, Fingerprint("BBCA", DirectionBuy, reasons, 0.73))
}
