package dto

// CreateWatchlistRequest adds a ticker to the scheduled analysis watchlist.
type CreateWatchlistRequest struct {
	Ticker         string `json:"ticker"`
	CronExpression string `json:"cron_expression"`
	TelegramID     int64  `json:"telegram_id,omitempty"`
}
