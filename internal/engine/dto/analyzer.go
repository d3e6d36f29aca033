package dto

import (
	"golang-stock-insight/internal/engine/signal"
)

// AnalyzeRequest is the payload for an on-demand analysis of one ticker.
type AnalyzeRequest struct {
	Ticker           string   `json:"ticker"`
	VolatilityPct    float64  `json:"volatility_pct"`
	FundamentalScore *float64 `json:"fundamental_score,omitempty"`
	HorizonDays      int      `json:"horizon_days"`

	Indicators IndicatorValues `json:"indicators"`
}

// IndicatorValues carries the already-computed technical indicator values.
// Missing fields mean the indicator could not be computed.
type IndicatorValues struct {
	Price       float64  `json:"price"`
	SMA20       *float64 `json:"sma_20,omitempty"`
	SMA50       *float64 `json:"sma_50,omitempty"`
	RSI         *float64 `json:"rsi,omitempty"`
	MACDLine    *float64 `json:"macd_line,omitempty"`
	MACDSignal  *float64 `json:"macd_signal,omitempty"`
	MomentumPct *float64 `json:"momentum_pct,omitempty"`
	Volume      *float64 `json:"volume,omitempty"`
	AvgVolume   *float64 `json:"avg_volume,omitempty"`
}

// Snapshot converts the wire values into an evaluator snapshot.
func (v IndicatorValues) Snapshot() signal.IndicatorSnapshot {
	return signal.IndicatorSnapshot{
		Price:       v.Price,
		SMA20:       v.SMA20,
		SMA50:       v.SMA50,
		RSI:         v.RSI,
		MACDLine:    v.MACDLine,
		MACDSignal:  v.MACDSignal,
		MomentumPct: v.MomentumPct,
		Volume:      v.Volume,
		AvgVolume:   v.AvgVolume,
	}
}

// AnalyzeResponse is the finalized signal object for one analysis request.
type AnalyzeResponse struct {
	Signal     signal.Signal     `json:"signal"`
	Projection signal.Projection `json:"projection"`
}

// StreamDataStockAnalyzer is the payload carried on the analyzer stream.
// Async API calls include the full request; scheduled watchlist runs carry
// only the ticker and trigger a context refresh of the latest stored signal.
type StreamDataStockAnalyzer struct {
	Ticker     string          `json:"ticker"`
	TelegramID int64           `json:"telegram_id"`
	NotifyUser bool            `json:"notify_user"`
	Request    *AnalyzeRequest `json:"request,omitempty"`
}
