package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/vesturport/spjall/internal/service"
)

func TestPricingEstimate(t *testing.T) {
	p := service.Pricing{
		PromptPerMTok:     decimal.NewFromFloat(2),
		CompletionPerMTok: decimal.NewFromFloat(6),
	}

	// 500k prompt tokens at $2/M plus 250k completion tokens at $6/M.
	got := p.Estimate(500_000, 250_000)
	assert.True(t, got.Equal(decimal.NewFromFloat(2.5)), "got %s", got)

	assert.True(t, service.Pricing{}.Estimate(1000, 1000).IsZero())
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, service.EstimateTokens(""))
	assert.Equal(t, 1, service.EstimateTokens("abc"), "short text still counts as one token")
	assert.Equal(t, 4, service.EstimateTokens("sixteen chars!!!"))
}
