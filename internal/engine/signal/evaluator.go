package signal

import (
	"fmt"
	"math"
)

// IndicatorSnapshot holds already-computed technical indicator values for
// one ticker. Nil pointers mean the indicator could not be computed from the
// available history and must not produce a vote.
type IndicatorSnapshot struct {
	Price       float64
	SMA20       *float64
	SMA50       *float64
	RSI         *float64
	MACDLine    *float64
	MACDSignal  *float64
	MomentumPct *float64
	Volume      *float64
	AvgVolume   *float64

	// Reference thresholds. Zero values fall back to the usual defaults.
	RSIOversold       float64
	RSIOverbought     float64
	MomentumThreshold float64
	VolumeSurgeRatio  float64
}

const (
	defaultRSIOversold       = 30
	defaultRSIOverbought     = 70
	defaultMomentumThreshold = 2.0
	defaultVolumeSurgeRatio  = 1.5
)

// EvaluateIndicators turns a snapshot into an ordered list of independent
// votes. Each indicator contributes on its own; there is no cross-indicator
// interaction here. Undefined indicators contribute no vote at all rather
// than a zero-weight placeholder, so missing history cannot silently dilute
// the aggregate.
func EvaluateIndicators(snap IndicatorSnapshot) []IndicatorVote {
	oversold := snap.RSIOversold
	if oversold == 0 {
		oversold = defaultRSIOversold
	}
	overbought := snap.RSIOverbought
	if overbought == 0 {
		overbought = defaultRSIOverbought
	}
	momentumThreshold := snap.MomentumThreshold
	if momentumThreshold == 0 {
		momentumThreshold = defaultMomentumThreshold
	}
	surgeRatio := snap.VolumeSurgeRatio
	if surgeRatio == 0 {
		surgeRatio = defaultVolumeSurgeRatio
	}

	var votes []IndicatorVote

	if defined(snap.SMA20) && defined(snap.SMA50) {
		if *snap.SMA20 > *snap.SMA50 {
			votes = append(votes, IndicatorVote{VoteBullish, 0.25, "20-day moving average above 50-day moving average"})
		} else if *snap.SMA20 < *snap.SMA50 {
			votes = append(votes, IndicatorVote{VoteBearish, 0.25, "20-day moving average below 50-day moving average"})
		}
	}

	if defined(snap.SMA50) && snap.Price > 0 {
		if snap.Price > *snap.SMA50 {
			votes = append(votes, IndicatorVote{VoteBullish, 0.15, "price trading above 50-day moving average"})
		} else if snap.Price < *snap.SMA50 {
			votes = append(votes, IndicatorVote{VoteBearish, 0.15, "price trading below 50-day moving average"})
		}
	}

	if defined(snap.RSI) {
		switch {
		case *snap.RSI <= oversold:
			votes = append(votes, IndicatorVote{VoteBullish, 0.3, fmt.Sprintf("RSI oversold at %.1f", *snap.RSI)})
		case *snap.RSI >= overbought:
			votes = append(votes, IndicatorVote{VoteBearish, 0.3, fmt.Sprintf("RSI overbought at %.1f", *snap.RSI)})
		default:
			votes = append(votes, IndicatorVote{VoteNeutral, 0.1, "RSI in neutral range"})
		}
	}

	if defined(snap.MACDLine) && defined(snap.MACDSignal) {
		if *snap.MACDLine > *snap.MACDSignal {
			votes = append(votes, IndicatorVote{VoteBullish, 0.2, "MACD line above signal line"})
		} else if *snap.MACDLine < *snap.MACDSignal {
			votes = append(votes, IndicatorVote{VoteBearish, 0.2, "MACD line below signal line"})
		}
	}

	if defined(snap.MomentumPct) {
		switch {
		case *snap.MomentumPct >= momentumThreshold:
			votes = append(votes, IndicatorVote{VoteBullish, 0.2, fmt.Sprintf("positive momentum of %.1f%%", *snap.MomentumPct)})
		case *snap.MomentumPct <= -momentumThreshold:
			votes = append(votes, IndicatorVote{VoteBearish, 0.2, fmt.Sprintf("negative momentum of %.1f%%", *snap.MomentumPct)})
		}
	}

	if defined(snap.Volume) && defined(snap.AvgVolume) && *snap.AvgVolume > 0 {
		if *snap.Volume >= *snap.AvgVolume*surgeRatio {
			votes = append(votes, IndicatorVote{VoteNeutral, 0.1, "trading volume well above average"})
		}
	}

	return votes
}

func defined(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
