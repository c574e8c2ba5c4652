package service

import (
	"github.com/shopspring/decimal"

	"github.com/vesturport/spjall/internal/config"
)

// Pricing holds the USD price per 1M tokens for each side of a request.
// Both default to zero, in which case estimates come out as zero and the
// logged figure is just noise-free.
type Pricing struct {
	PromptPerMTok     decimal.Decimal
	CompletionPerMTok decimal.Decimal
}

func PricingFromConfig(cfg *config.Config) Pricing {
	return Pricing{
		PromptPerMTok:     decimal.NewFromFloat(cfg.PromptPricePerM),
		CompletionPerMTok: decimal.NewFromFloat(cfg.CompletionPricePerM),
	}
}

var tokensPerM = decimal.NewFromInt(1_000_000)

// Estimate returns the approximate USD cost of one completed request.
func (p Pricing) Estimate(promptTokens, completionTokens int) decimal.Decimal {
	prompt := p.PromptPerMTok.Mul(decimal.NewFromInt(int64(promptTokens))).Div(tokensPerM)
	completion := p.CompletionPerMTok.Mul(decimal.NewFromInt(int64(completionTokens))).Div(tokensPerM)
	return prompt.Add(completion)
}

// EstimateTokens approximates the token count of a text (4 chars ≈ 1 token).
func EstimateTokens(s string) int {
	if s == "" {
		return 0
	}
	n := len(s) / 4
	if n == 0 {
		n = 1
	}
	return n
}
