package telegram

import (
	"fmt"
	"strings"

	"golang-stock-insight/internal/engine/dto"
	"golang-stock-insight/internal/engine/signal"
)

// FormatSignalMessage formats a finalized signal and its scenario projection
// into a Markdown string for Telegram.
func FormatSignalMessage(sig signal.Signal, projection signal.Projection) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📈 *- - - - - %s - - - - -*\n", sig.Ticker))

	var directionIcon string
	switch sig.Direction {
	case signal.DirectionBuy:
		directionIcon = "🟢"
	case signal.DirectionSell:
		directionIcon = "🔴"
	default:
		directionIcon = "🟡"
	}
	sb.WriteString(fmt.Sprintf("%s *Signal:* %s\n", directionIcon, strings.ToUpper(string(sig.Direction))))
	sb.WriteString(fmt.Sprintf("🎯 *Confidence:* %.0f%%\n", sig.Confidence*100))

	if len(sig.Reasons) > 0 {
		sb.WriteString("💬 *Reasons:*\n")
		for _, reason := range sig.Reasons {
			sb.WriteString(fmt.Sprintf("  • %s\n", reason))
		}
	}

	if len(projection.Scenarios) > 0 {
		sb.WriteString("\n🔮 *Scenarios:*\n")
		for _, sc := range projection.Scenarios {
			var icon string
			switch sc.Label {
			case signal.ScenarioBest:
				icon = "😊"
			case signal.ScenarioWorst:
				icon = "😟"
			default:
				icon = "😐"
			}
			sb.WriteString(fmt.Sprintf("%s *%s:* %+.2f%% (p=%.2f)\n", icon, sc.Label, sc.ExpectedReturnPct, sc.Probability))
		}
		if projection.RiskRewardDefined {
			sb.WriteString(fmt.Sprintf("⚖️ *Risk/Reward:* %.2f\n", projection.RiskReward))
		}
	}

	return sb.String()
}

// FormatContextMessage formats an enrichment response into a Markdown string
// for Telegram.
func FormatContextMessage(ticker string, resp *dto.EnrichmentResponse) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📰 *Market Context: %s*\n\n", ticker))
	sb.WriteString(fmt.Sprintf("💬 %s\n", resp.ContextSummary))

	if len(resp.SupportingPoints) > 0 {
		sb.WriteString("\n🧾 *Evidence:*\n")
		for _, p := range resp.SupportingPoints {
			sb.WriteString(fmt.Sprintf("  • %s _(confidence: %s)_\n", p.Claim, p.Confidence))
		}
	}
	if len(resp.DataSourcesUsed) > 0 {
		sb.WriteString(fmt.Sprintf("\n🔗 *Sources:* %s\n", strings.Join(resp.DataSourcesUsed, ", ")))
	}
	if resp.Stale {
		sb.WriteString("\n⚠️ _Context may be outdated; refresh was skipped._\n")
	}

	return sb.String()
}
