package repository

import (
	"fmt"
	"strings"

	"golang-stock-insight/internal/engine/dto"
)

// BuildContextSummaryPrompt renders the prompt used to summarize graded
// supporting points into a short market context paragraph.
func BuildContextSummaryPrompt(ticker, signalType string, points []dto.SupportingPoint) string {
	var sb strings.Builder

	sb.WriteString("You are a financial news assistant. Summarize the market context below into one short paragraph.\n")
	sb.WriteString("Only use the facts given. Do not invent numbers or events.\n\n")
	sb.WriteString(fmt.Sprintf("Ticker: %s\nSignal: %s\n\nEvidence:\n", ticker, signalType))

	for i, p := range points {
		publishers := make([]string, 0, len(p.Sources))
		for _, s := range p.Sources {
			publishers = append(publishers, s.Publisher)
		}
		sb.WriteString(fmt.Sprintf("%d. %s (sources: %s, confidence: %s)\n",
			i+1, p.Claim, strings.Join(publishers, ", "), p.Confidence))
	}

	sb.WriteString("\nRespond with JSON only, in the exact format:\n")
	sb.WriteString(`{"summary": "<one paragraph>"}`)
	sb.WriteString("\n")

	return sb.String()
}
