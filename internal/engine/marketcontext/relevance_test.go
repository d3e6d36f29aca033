package marketcontext

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"golang-stock-insight/internal/engine/signal"
)

var oversoldReasons = []string{"RSI oversold at 28.0"}

func TestRelevanceScorer_ScoreComposition(t *testing.T) {
	s := NewRelevanceScorer(DefaultRelevanceThreshold)

	tests := []struct {
		name      string
		direction signal.Direction
		headline  string
		want      float64
	}{
		{
			name:      "no keyword match scores zero",
			direction: signal.DirectionBuy,
			headline:  "Central bank keeps interest rates unchanged",
			want:      0,
		},
		{
			name:      "single keyword match gets base score",
			direction: signal.DirectionNeutral,
			headline:  "Analysts flag oversold conditions across the sector",
			want:      0.4,
		},
		{
			name:      "additional distinct keywords add 0.1 each",
			direction: signal.DirectionNeutral,
			headline:  "Oversold technical indicator levels draw attention",
			want:      0.6,
		},
		{
			name:      "aligned polarity adds 0.2",
			direction: signal.DirectionBuy,
			headline:  "Oversold shares rally as buyers step in",
			want:      0.6,
		},
		{
			name:      "quantified claim adds 0.1",
			direction: signal.DirectionNeutral,
			headline:  "Stock oversold after 12% slide, data shows",
			want:      0.5,
		},
		{
			name:      "score is capped at 1.0",
			direction: signal.DirectionBuy,
			headline:  "Oversold RSI indicator signals technical momentum rally, shares surge 8%",
			want:      1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(tt.direction, oversoldReasons, tt.headline)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestRelevanceScorer_HardRejections(t *testing.T) {
	s := NewRelevanceScorer(DefaultRelevanceThreshold)

	tests := []struct {
		name     string
		headline string
		reason   string
	}{
		{
			name:     "below threshold",
			headline: "Analysts flag oversold conditions across the sector",
			reason:   "below relevance threshold",
		},
		{
			name:     "too short",
			headline: "Oversold rally",
			reason:   "headline too short",
		},
		{
			name:     "generic claim with no quantified fact",
			headline: "Company plans to improve technical momentum indicator coverage",
			reason:   "generic claim",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := s.Assess(signal.DirectionBuy, oversoldReasons, tt.headline)
			assert.False(t, a.Accepted)
			assert.Equal(t, tt.reason, a.RejectReason)
		})
	}
}

func TestRelevanceScorer_QuantifiedClaimIsNotGeneric(t *testing.T) {
	s := NewRelevanceScorer(DefaultRelevanceThreshold)
	a := s.Assess(signal.DirectionBuy, oversoldReasons,
		"Company plans to lift oversold RSI technical momentum coverage by 20%")
	assert.True(t, a.Accepted)
	assert.GreaterOrEqual(t, a.Score, DefaultRelevanceThreshold)
}

func TestRelevanceScorer_SellPolarity(t *testing.T) {
	s := NewRelevanceScorer(DefaultRelevanceThreshold)
	score := s.Score(signal.DirectionSell,
		[]string{"20-day moving average below 50-day moving average"},
		"Downtrend deepens as shares plunge on weak trend outlook")
	// trend keywords plus negative polarity alignment
	assert.Greater(t, score, 0.5)
}

func TestRelevanceScorer_FilterRoundTrip(t *testing.T) {
	// Anything that survives the filter must re-pass it: the accepted set
	// contains no rejects.
	s := NewRelevanceScorer(DefaultRelevanceThreshold)
	headlines := []string{
		"Oversold RSI indicator signals technical momentum rally, shares surge 8%",
		"Analysts flag oversold conditions across the sector",
		"Oversold rally",
		"Company plans to improve technical momentum indicator coverage",
		"Stock oversold after 12% slide, technical rebound seen",
	}

	var accepted []string
	for _, h := range headlines {
		if s.Assess(signal.DirectionBuy, oversoldReasons, h).Accepted {
			accepted = append(accepted, h)
		}
	}
	assert.NotEmpty(t, accepted)
	for _, h := range accepted {
		assert.True(t, s.Assess(signal.DirectionBuy, oversoldReasons, h).Accepted)
	}
}
