package signal

import "math"

// ScenarioLabel names one of the three projected outcome bands.
type ScenarioLabel string

const (
	ScenarioBest  ScenarioLabel = "best"
	ScenarioBase  ScenarioLabel = "base"
	ScenarioWorst ScenarioLabel = "worst"
)

// ScenarioOutcome is one probability-weighted projected outcome.
type ScenarioOutcome struct {
	Label             ScenarioLabel `json:"label"`
	ExpectedReturnPct float64       `json:"expected_return_pct"`
	Probability       float64       `json:"probability"`
}

// Projection holds the three scenario outcomes and the risk/reward ratio.
// RiskRewardDefined is false when the downside magnitude is zero, in which
// case RiskReward holds no meaningful value.
type Projection struct {
	Scenarios         []ScenarioOutcome `json:"scenarios"`
	RiskReward        float64           `json:"risk_reward"`
	RiskRewardDefined bool              `json:"risk_reward_defined"`
}

const (
	// trendingConfidence is the confidence above which the regime is
	// treated as trending rather than ranging.
	trendingConfidence = 0.7

	// scenarioSpread scales the volatility offset between the base case
	// and the best/worst bands.
	scenarioSpread = 1.5

	tradingDaysPerYear = 252
)

// ProjectScenarios computes best/base/worst outcome bands for a signal.
// volatilityPct is an annualized volatility estimate in percent,
// fundamentalScore an optional 0-100 score that tilts the base case, and
// horizonDays the projection horizon. The three probabilities always sum to
// exactly 1.0: base and the favored band are assigned and the last band is
// the remainder.
func ProjectScenarios(sig Signal, volatilityPct float64, fundamentalScore *float64, horizonDays int) Projection {
	if horizonDays <= 0 {
		horizonDays = 30
	}
	periodVol := volatilityPct * math.Sqrt(float64(horizonDays)/tradingDaysPerYear)

	var dir float64
	switch sig.Direction {
	case DirectionBuy:
		dir = 1
	case DirectionSell:
		dir = -1
	}

	base := dir * sig.Confidence * periodVol
	if fundamentalScore != nil {
		score := math.Max(0, math.Min(100, *fundamentalScore))
		base += (score - 50) / 50 * 0.25 * periodVol
	}

	best := base + scenarioSpread*periodVol
	worst := base - scenarioSpread*periodVol

	pBase, pBest, pWorst := scenarioProbabilities(sig)

	outcomes := []ScenarioOutcome{
		{Label: ScenarioBest, ExpectedReturnPct: round2(best), Probability: pBest},
		{Label: ScenarioBase, ExpectedReturnPct: round2(base), Probability: pBase},
		{Label: ScenarioWorst, ExpectedReturnPct: round2(worst), Probability: pWorst},
	}

	proj := Projection{Scenarios: outcomes}

	downside := outcomes[1].ExpectedReturnPct - outcomes[2].ExpectedReturnPct
	if downside > 0 {
		upside := outcomes[0].ExpectedReturnPct - outcomes[1].ExpectedReturnPct
		proj.RiskReward = upside / downside
		proj.RiskRewardDefined = true
	}

	return proj
}

// scenarioProbabilities assigns band probabilities by regime. In a trending
// regime the band aligned with the signal direction gets the extra mass; in
// a ranging regime the tails are symmetric. The base probability is derived
// as the remainder so the sum is exactly 1.0.
func scenarioProbabilities(sig Signal) (pBase, pBest, pWorst float64) {
	trending := sig.Confidence >= trendingConfidence && sig.Direction != DirectionNeutral

	if !trending {
		pBest, pWorst = 0.2, 0.2
		pBase = 1.0 - pBest - pWorst
		return pBase, pBest, pWorst
	}

	if sig.Direction == DirectionBuy {
		pBest, pWorst = 0.3, 0.2
	} else {
		pBest, pWorst = 0.2, 0.3
	}
	pBase = 1.0 - pBest - pWorst
	return pBase, pBest, pWorst
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
