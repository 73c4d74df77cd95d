package services

import (
	"context"
	"strings"
)

// riskyKeywords is the fixed vocabulary of risk-indicating phrases.
var riskyKeywords = []string{
	"penalty", "termination", "breach", "fine",
	"automatic renewal", "binding arbitration",
	"liquidated damages", "non-compete", "non-disclosure",
	"late fee", "without notice", "waiver of rights",
	"exclusive jurisdiction", "governing law", "intellectual property",
}

// FindRiskyTerms returns the unique set of vocabulary phrases present in the
// text, matched case-insensitively. The result is in vocabulary order, but
// callers should treat it as a set.
func FindRiskyTerms(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, kw := range riskyKeywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}
	return found
}

const riskAnalysisSystemPrompt = "You are a legal risk analysis assistant. Identify clauses in contracts that could pose legal or financial risks to the signer, explain why, and suggest ways to mitigate them."

// RiskAnalysis asks the user's own-key chat model for a clause-level risk
// breakdown of the document.
func RiskAnalysis(ctx context.Context, text, apiKey, baseURL string) (string, error) {
	p := NewOpenAIProvider(apiKey, baseURL)
	return p.complete(ctx, riskAnalysisSystemPrompt, text)
}
