package scoring

import (
	"math"

	"PutScout/internal/model"
	"PutScout/internal/options"
)

// Weights is the category weight vector for the composite score. Weights are
// configuration, not constants: several vectors are in active use (see the
// named profiles in the config package).
type Weights struct {
	ReturnOnCapital   float64 `yaml:"return_on_capital"`
	ProbabilitySafety float64 `yaml:"probability_safety"`
	Technicals        float64 `yaml:"technicals"`
	RiskManagement    float64 `yaml:"risk_management"`
}

// Bands holds the worst/best endpoints for every sub-score. Endpoints where
// best < worst are lower-is-better metrics.
type Bands struct {
	AnnReturnWorst float64 `yaml:"ann_return_worst"`
	AnnReturnBest  float64 `yaml:"ann_return_best"`
	DeltaWorst     float64 `yaml:"delta_worst"`
	DeltaBest      float64 `yaml:"delta_best"`
	MarginWorst    float64 `yaml:"margin_worst"`
	MarginBest     float64 `yaml:"margin_best"`
	RSIWorst       float64 `yaml:"rsi_worst"`
	RSIBest        float64 `yaml:"rsi_best"`
	SMAWorst       float64 `yaml:"sma_worst"`
	SMABest        float64 `yaml:"sma_best"`
	RiskPctWorst   float64 `yaml:"risk_pct_worst"`
	RiskPctBest    float64 `yaml:"risk_pct_best"`
}

// DefaultBands are the endpoints from the reference strategy.
func DefaultBands() Bands {
	return Bands{
		AnnReturnWorst: 0.08, AnnReturnBest: 0.25,
		DeltaWorst: 0.35, DeltaBest: 0.10,
		MarginWorst: 0.05, MarginBest: 0.20,
		RSIWorst: 65, RSIBest: 35,
		SMAWorst: 0, SMABest: 0.15,
		RiskPctWorst: 0.10, RiskPctBest: 0.01,
	}
}

// Model scores candidates under one weight vector and band set.
type Model struct {
	Weights        Weights
	Bands          Bands
	PortfolioValue float64
}

// Score computes the four category scores and the 0~100 composite for one
// analyzed put.
func (m *Model) Score(q *model.OptionQuote, a options.Analytics, ind *model.IndicatorSet) (float64, []model.CategoryScore) {
	b := m.Bands

	// 1. Return on Capital: annualized return + IV rank
	ivRank := ind.IVRank(q.ImpliedVolatility)
	scoreReturn := LinearScale(a.AnnualizedReturn, b.AnnReturnWorst, b.AnnReturnBest)
	scoreIV := LinearScale(ivRank, 0, 1)
	catReturn := (scoreReturn + scoreIV) / 2

	// 2. Probability & Safety: |delta| + margin of safety
	scoreDelta := LinearScale(math.Abs(a.Delta), b.DeltaWorst, b.DeltaBest)
	scoreMargin := LinearScale(a.MarginOfSafety, b.MarginWorst, b.MarginBest)
	catSafety := (scoreDelta + scoreMargin) / 2

	// 3. Technicals: RSI + price vs 200-day SMA
	scoreRSI := LinearScale(ind.RSI14, b.RSIWorst, b.RSIBest)
	smaPct := 0.0
	if ind.SMA200 > 0 {
		smaPct = (ind.CurrentPrice - ind.SMA200) / ind.SMA200
	}
	scoreSMA := LinearScale(smaPct, b.SMAWorst, b.SMABest)
	catTech := (scoreRSI + scoreSMA) / 2

	// 4. Risk Management: capital at risk as a fraction of the portfolio
	riskPct := 1.0
	if m.PortfolioValue > 0 {
		riskPct = (q.Strike - q.LastPrice) * 100 / m.PortfolioValue
	}
	catRisk := LinearScale(riskPct, b.RiskPctWorst, b.RiskPctBest)

	categories := []model.CategoryScore{
		{Name: "Return on Capital", Score: catReturn, Weight: m.Weights.ReturnOnCapital, Weighted: catReturn * m.Weights.ReturnOnCapital},
		{Name: "Probability & Safety", Score: catSafety, Weight: m.Weights.ProbabilitySafety, Weighted: catSafety * m.Weights.ProbabilitySafety},
		{Name: "Technicals", Score: catTech, Weight: m.Weights.Technicals, Weighted: catTech * m.Weights.Technicals},
		{Name: "Risk Management", Score: catRisk, Weight: m.Weights.RiskManagement, Weighted: catRisk * m.Weights.RiskManagement},
	}

	composite := 0.0
	for _, c := range categories {
		composite += c.Weighted
	}
	return composite / 5 * 100, categories
}
