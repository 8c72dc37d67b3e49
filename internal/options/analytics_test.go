package options

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PutScout/internal/model"
)

var asOf = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func TestAnnualizedReturn_WorkedExample(t *testing.T) {
	// premium $2, strike $90, 30 DTE: 2/88 * (365/30) ~ 27.65%
	r := AnnualizedReturn(2, 90, 30)
	assert.InDelta(t, 0.2765, r, 0.001)
}

func TestAnnualizedReturn_Degenerate(t *testing.T) {
	assert.Zero(t, AnnualizedReturn(10, 10, 30))  // zero capital at risk
	assert.Zero(t, AnnualizedReturn(12, 10, 30))  // negative capital at risk
	assert.Zero(t, AnnualizedReturn(2, 90, 0))    // no time left
}

func TestMarginOfSafety(t *testing.T) {
	assert.InDelta(t, 0.10, MarginOfSafety(100, 90), 1e-9)
	assert.InDelta(t, -0.05, MarginOfSafety(100, 105), 1e-9)
	assert.Zero(t, MarginOfSafety(0, 90))
}

func TestDTE(t *testing.T) {
	assert.Equal(t, 30, DTE(asOf.AddDate(0, 0, 30), asOf))
	assert.Equal(t, 0, DTE(asOf, asOf))
	assert.Equal(t, -5, DTE(asOf.AddDate(0, 0, -5), asOf))
}

func TestAnalyze_HardFilter(t *testing.T) {
	expiration := asOf.AddDate(0, 0, 30)
	tests := []struct {
		name  string
		quote model.OptionQuote
		ok    bool
	}{
		{"passes", model.OptionQuote{Strike: 90, LastPrice: 2, ImpliedVolatility: 0.30, Expiration: expiration}, true},
		{"expired", model.OptionQuote{Strike: 90, LastPrice: 2, ImpliedVolatility: 0.30, Expiration: asOf}, false},
		{"zero premium", model.OptionQuote{Strike: 90, LastPrice: 0, ImpliedVolatility: 0.30, Expiration: expiration}, false},
		{"zero strike", model.OptionQuote{Strike: 0, LastPrice: 2, ImpliedVolatility: 0.30, Expiration: expiration}, false},
		{"below min return", model.OptionQuote{Strike: 95, LastPrice: 0.10, ImpliedVolatility: 0.30, Expiration: expiration}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Analyze(&tt.quote, 100, 0.04, DefaultMinReturn, asOf)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestAnalyze_Metrics(t *testing.T) {
	q := model.OptionQuote{Strike: 90, LastPrice: 2, ImpliedVolatility: 0.30, Expiration: asOf.AddDate(0, 0, 30)}

	a, ok := Analyze(&q, 100, 0.04, DefaultMinReturn, asOf)
	require.True(t, ok)

	assert.Equal(t, 30, a.DTE)
	assert.InDelta(t, 0.2765, a.AnnualizedReturn, 0.001)
	assert.InDelta(t, 0.10, a.MarginOfSafety, 1e-9)
	assert.Less(t, a.Delta, 0.0)
	assert.Greater(t, a.Delta, -1.0)
}
