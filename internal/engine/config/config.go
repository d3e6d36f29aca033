package config

import (
	"time"

	"golang-stock-insight/pkg/config"
)

// Engine holds the signal and context engine configuration.
type Engine struct {
	Enabled                bool    `mapstructure:"enabled"`
	TimeoutSeconds         int     `mapstructure:"timeout_seconds"`
	CooldownMinutes        int     `mapstructure:"cooldown_minutes"`
	DailyTriggerCap        int     `mapstructure:"daily_trigger_cap"`
	CacheTTLSeconds        int     `mapstructure:"cache_ttl_seconds"`
	RelevanceThreshold     float64 `mapstructure:"relevance_threshold"`
	HysteresisMargin       float64 `mapstructure:"hysteresis_margin"`
	DailyCapCountsExplicit bool    `mapstructure:"daily_cap_counts_explicit"`
	DefaultHorizonDays     int     `mapstructure:"default_horizon_days"`
}

// Timeout returns the evidence fetch timeout.
func (e Engine) Timeout() time.Duration {
	if e.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// Cooldown returns the automatic re-enrichment cooldown window.
func (e Engine) Cooldown() time.Duration {
	if e.CooldownMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(e.CooldownMinutes) * time.Minute
}

// CacheTTL returns the context cache entry lifetime.
func (e Engine) CacheTTL() time.Duration {
	if e.CacheTTLSeconds <= 0 {
		return 300 * time.Second
	}
	return time.Duration(e.CacheTTLSeconds) * time.Second
}

// News holds the configuration for the news evidence source.
type News struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxItems            int    `mapstructure:"max_items"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	WindowDays          int    `mapstructure:"window_days"`
	ResolveArticles     bool   `mapstructure:"resolve_articles"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Scheduler holds the watchlist scheduler configuration.
type Scheduler struct {
	PollingInterval time.Duration `mapstructure:"polling_interval"`
}

// Consumer holds the redis stream consumer configuration.
type Consumer struct {
	StockAnalyzerTimeout     time.Duration `mapstructure:"stock_analyzer_timeout"`
	ContextEnrichmentTimeout time.Duration `mapstructure:"context_enrichment_timeout"`
}

// Config holds the full configuration for the context service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	API       config.API      `mapstructure:"api"`
	Engine    Engine          `mapstructure:"engine"`
	News      News            `mapstructure:"news"`
	Gemini    Gemini          `mapstructure:"gemini"`
	Telegram  Telegram        `mapstructure:"telegram"`
	Scheduler Scheduler       `mapstructure:"scheduler"`
	Consumer  Consumer        `mapstructure:"consumer"`
}

// Load loads the context service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
