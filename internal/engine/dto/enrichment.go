package dto

import "time"

// MCPStatus describes the outcome of an enrichment run.
type MCPStatus string

const (
	MCPStatusSuccess  MCPStatus = "success"
	MCPStatusPartial  MCPStatus = "partial"
	MCPStatusFailed   MCPStatus = "failed"
	MCPStatusDisabled MCPStatus = "disabled"
)

// EnrichmentRequest asks the engine to attach market context to a signal.
type EnrichmentRequest struct {
	Ticker             string   `json:"ticker"`
	SignalType         string   `json:"signal_type"`
	SignalReasons      []string `json:"signal_reasons"`
	Confidence         float64  `json:"confidence"`
	ExplicitUserAction bool     `json:"explicit_user_action"`
	UserID             string   `json:"user_id,omitempty"`
}

// CitationSource is one source backing a supporting point.
type CitationSource struct {
	Title       string     `json:"title"`
	Publisher   string     `json:"publisher"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// SupportingPoint is one cited claim attached to the enrichment response.
// Confidence is derived from the source count only, never set directly.
type SupportingPoint struct {
	Claim          string           `json:"claim"`
	Sources        []CitationSource `json:"sources"`
	Confidence     string           `json:"confidence"`
	RelevanceScore float64          `json:"relevance_score"`
}

// EnrichmentResponse is the engine's answer to an enrichment request. Every
// code path produces a structurally valid response.
type EnrichmentResponse struct {
	ContextSummary   string            `json:"context_summary"`
	SupportingPoints []SupportingPoint `json:"supporting_points"`
	DataSourcesUsed  []string          `json:"data_sources_used"`
	MCPStatus        MCPStatus         `json:"mcp_status"`
	EnrichedAt       time.Time         `json:"enriched_at"`
	Stale            bool              `json:"stale,omitempty"`
}

// EvidenceItem is one fetched candidate headline before relevance filtering.
type EvidenceItem struct {
	Headline    string     `json:"headline"`
	URL         string     `json:"url"`
	Publisher   string     `json:"publisher"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Relevance   float64    `json:"relevance"`
}

// StreamDataContextEnrichment is the payload carried on the enrichment
// stream for background refreshes.
type StreamDataContextEnrichment struct {
	Ticker        string   `json:"ticker"`
	SignalType    string   `json:"signal_type"`
	SignalReasons []string `json:"signal_reasons"`
	Confidence    float64  `json:"confidence"`
}
