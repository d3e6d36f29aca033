package signal

import (
	"fmt"
	"strings"
)

// Direction is the aggregated directional call for a ticker.
type Direction string

const (
	DirectionBuy     Direction = "buy"
	DirectionSell    Direction = "sell"
	DirectionNeutral Direction = "neutral"
)

// VoteDirection is the direction of a single indicator vote.
type VoteDirection string

const (
	VoteBullish VoteDirection = "bullish"
	VoteBearish VoteDirection = "bearish"
	VoteNeutral VoteDirection = "neutral"
)

const (
	// MaxConfidence is the ceiling for any signal confidence. A signal may
	// never claim near-certainty.
	MaxConfidence = 0.95

	// NeutralConfidence is the fixed confidence of a neutral call. Neutral
	// is an explicit statement, not a low-confidence buy.
	NeutralConfidence = 0.5

	// DefaultMargin is the hysteresis band between bullish and bearish
	// weight sums. One side must beat the other by at least this much to
	// produce a directional call.
	DefaultMargin = 0.15
)

// IndicatorVote is one evaluated indicator's contribution.
type IndicatorVote struct {
	Direction VoteDirection `json:"direction"`
	Weight    float64       `json:"weight"`
	Reason    string        `json:"reason"`
}

// Signal is the aggregation result for one ticker.
type Signal struct {
	Ticker      string    `json:"ticker"`
	Direction   Direction `json:"direction"`
	Confidence  float64   `json:"confidence"`
	Reasons     []string  `json:"reasons"`
	Fingerprint string    `json:"fingerprint"`
}

// ParseDirection converts a wire signal type (BUY/SELL/HOLD/NEUTRAL) into a
// Direction. Conversion happens once on ingress so the engine only ever
// deals with the closed enum.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return DirectionBuy, nil
	case "SELL":
		return DirectionSell, nil
	case "HOLD", "NEUTRAL":
		return DirectionNeutral, nil
	default:
		return "", fmt.Errorf("unknown signal type: %q", s)
	}
}

// Aggregator combines indicator votes into a single directional signal.
type Aggregator struct {
	margin float64
}

// NewAggregator creates an aggregator with the given hysteresis margin.
// A non-positive margin falls back to the default; the margin must stay
// above zero so small weight differences cannot flip the direction.
func NewAggregator(margin float64) *Aggregator {
	if margin <= 0 {
		margin = DefaultMargin
	}
	return &Aggregator{margin: margin}
}

// Aggregate sums bullish and bearish vote weights and applies the decision
// rule. Neutral votes do not contribute to either sum but their reasons are
// kept for transparency.
func (a *Aggregator) Aggregate(ticker string, votes []IndicatorVote) Signal {
	var bullish, bearish float64
	reasons := make([]string, 0, len(votes))

	for _, v := range votes {
		switch v.Direction {
		case VoteBullish:
			bullish += v.Weight
		case VoteBearish:
			bearish += v.Weight
		}
		if v.Reason != "" {
			reasons = append(reasons, v.Reason)
		}
	}

	sig := Signal{
		Ticker:  ticker,
		Reasons: reasons,
	}

	switch {
	case bullish > bearish+a.margin:
		sig.Direction = DirectionBuy
		sig.Confidence = clampConfidence(bullish)
	case bearish > bullish+a.margin:
		sig.Direction = DirectionSell
		sig.Confidence = clampConfidence(bearish)
	default:
		sig.Direction = DirectionNeutral
		sig.Confidence = NeutralConfidence
	}

	sig.Fingerprint = Fingerprint(sig.Ticker, sig.Direction, sig.Reasons, sig.Confidence)
	return sig
}

func clampConfidence(c float64) float64 {
	if c > MaxConfidence {
		return MaxConfidence
	}
	if c < 0 {
		return 0
	}
	return c
}
