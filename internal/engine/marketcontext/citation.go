package marketcontext

// ConfidenceTier grades how well corroborated a claim is.
type ConfidenceTier string

const (
	TierHigh   ConfidenceTier = "high"
	TierMedium ConfidenceTier = "medium"
	TierLow    ConfidenceTier = "low"
)

// GradeCitations maps a source count to a confidence tier. The grade answers
// exactly one question, how many independent sources corroborate the claim,
// so nothing else (publisher reputation, relevance, recency) may feed into
// it.
func GradeCitations(sourceCount int) ConfidenceTier {
	switch {
	case sourceCount >= 2:
		return TierHigh
	case sourceCount == 1:
		return TierMedium
	default:
		return TierLow
	}
}
