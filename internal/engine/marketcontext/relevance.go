package marketcontext

import (
	"regexp"
	"strings"

	"golang-stock-insight/internal/engine/signal"
)

// DefaultRelevanceThreshold is the minimum score a headline needs to be
// surfaced as evidence.
const DefaultRelevanceThreshold = 0.6

const minHeadlineLength = 20

// reasonKeywords maps markers found in signal reason text to the keyword
// set used for headline matching. The table is fixed so scoring stays
// deterministic and auditable.
var reasonKeywords = map[string][]string{
	"oversold":       {"oversold", "overbought", "technical", "momentum", "indicator", "rsi"},
	"overbought":     {"oversold", "overbought", "technical", "momentum", "indicator", "rsi"},
	"rsi":            {"rsi", "oversold", "overbought", "technical", "indicator"},
	"moving average": {"moving average", "trend", "crossover", "uptrend", "downtrend", "technical"},
	"macd":           {"macd", "crossover", "trend", "technical"},
	"momentum":       {"momentum", "rally", "surge", "decline", "technical"},
	"volume":         {"volume", "trading activity", "accumulation", "turnover"},
	"uptrend":        {"uptrend", "trend", "rally", "breakout"},
	"downtrend":      {"downtrend", "trend", "selloff", "breakdown"},
}

var positiveWords = []string{
	"surge", "jump", "gain", "rally", "beat", "record", "growth",
	"upgrade", "profit", "rise", "soar", "strong", "outperform",
}

var negativeWords = []string{
	"fall", "drop", "plunge", "miss", "loss", "downgrade", "cut",
	"weak", "decline", "slump", "warn", "tumble", "underperform",
}

// genericClaimPatterns reject headlines built on vague verbs with no
// quantified fact. The list is the whole rejection policy; nothing else in
// the scorer decides what counts as boilerplate.
var genericClaimPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bplans? to\b`),
	regexp.MustCompile(`(?i)\bmay consider\b`),
	regexp.MustCompile(`(?i)\bis considering\b`),
	regexp.MustCompile(`(?i)\bcould (?:soon )?(?:be|become|see)\b`),
	regexp.MustCompile(`(?i)\baims? to\b`),
	regexp.MustCompile(`(?i)\bhopes? to\b`),
	regexp.MustCompile(`(?i)\blooks? to\b`),
	regexp.MustCompile(`(?i)\bexplores? options\b`),
}

var quantifiedClaimPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?\s*%|(?:\$|€|£|¥|Rp\s?|IDR\s?|USD\s?)\d)`)

// Assessment is the outcome of scoring one headline against a signal.
type Assessment struct {
	Score        float64
	Accepted     bool
	RejectReason string
}

// RelevanceScorer scores candidate headlines against the reasons behind a
// signal and rejects off-topic or boilerplate items. Rejection is a hard
// filter, not a demotion.
type RelevanceScorer struct {
	threshold float64
}

// NewRelevanceScorer creates a scorer with the given acceptance threshold.
func NewRelevanceScorer(threshold float64) *RelevanceScorer {
	if threshold <= 0 {
		threshold = DefaultRelevanceThreshold
	}
	return &RelevanceScorer{threshold: threshold}
}

// Assess computes the relevance score for a headline and decides whether it
// may be surfaced as evidence.
func (s *RelevanceScorer) Assess(direction signal.Direction, reasons []string, headline string) Assessment {
	headline = strings.TrimSpace(headline)
	score := s.Score(direction, reasons, headline)

	if len(headline) < minHeadlineLength {
		return Assessment{Score: score, RejectReason: "headline too short"}
	}
	if isGenericClaim(headline) {
		return Assessment{Score: score, RejectReason: "generic claim"}
	}
	if score < s.threshold {
		return Assessment{Score: score, RejectReason: "below relevance threshold"}
	}
	return Assessment{Score: score, Accepted: true}
}

// Score computes the 0-1 relevance value: base 0.4 for any keyword match,
// +0.1 per additional distinct keyword, +0.2 for polarity alignment with the
// signal direction, +0.1 for a quantified claim, capped at 1.0.
func (s *RelevanceScorer) Score(direction signal.Direction, reasons []string, headline string) float64 {
	lower := strings.ToLower(headline)

	matches := 0
	for _, kw := range keywordsForReasons(reasons) {
		if strings.Contains(lower, kw) {
			matches++
		}
	}

	if matches == 0 {
		return 0
	}

	score := 0.4 + 0.1*float64(matches-1)

	if polarityAligned(direction, lower) {
		score += 0.2
	}
	if quantifiedClaimPattern.MatchString(headline) {
		score += 0.1
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// keywordsForReasons extracts the distinct keyword set for the given reason
// texts via the fixed mapping table.
func keywordsForReasons(reasons []string) []string {
	seen := make(map[string]struct{})
	var keywords []string
	for _, reason := range reasons {
		lower := strings.ToLower(reason)
		for marker, kws := range reasonKeywords {
			if !strings.Contains(lower, marker) {
				continue
			}
			for _, kw := range kws {
				if _, ok := seen[kw]; ok {
					continue
				}
				seen[kw] = struct{}{}
				keywords = append(keywords, kw)
			}
		}
	}
	return keywords
}

func polarityAligned(direction signal.Direction, lowerHeadline string) bool {
	var positive, negative int
	for _, w := range positiveWords {
		if strings.Contains(lowerHeadline, w) {
			positive++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lowerHeadline, w) {
			negative++
		}
	}

	switch direction {
	case signal.DirectionBuy:
		return positive > negative
	case signal.DirectionSell:
		return negative > positive
	default:
		return false
	}
}

func isGenericClaim(headline string) bool {
	if quantifiedClaimPattern.MatchString(headline) {
		return false
	}
	for _, p := range genericClaimPatterns {
		if p.MatchString(headline) {
			return true
		}
	}
	return false
}
