package spread

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"PutScout/internal/model"
)

// LegBands are the delta windows for the two legs of a bull put spread.
// Deltas are negative; the short window sits closer to the money.
type LegBands struct {
	ShortDeltaMin float64 `yaml:"short_delta_min"` // e.g. -0.30
	ShortDeltaMax float64 `yaml:"short_delta_max"` // e.g. -0.20
	LongDeltaMin  float64 `yaml:"long_delta_min"`  // e.g. -0.20
	LongDeltaMax  float64 `yaml:"long_delta_max"`  // e.g. -0.10, exclusive
}

// DefaultLegBands is the reference delta-band convention.
func DefaultLegBands() LegBands {
	return LegBands{
		ShortDeltaMin: -0.30,
		ShortDeltaMax: -0.20,
		LongDeltaMin:  -0.20,
		LongDeltaMax:  -0.10,
	}
}

// DefaultMinCreditRatio is the minimum net credit as a fraction of the
// spread width.
const DefaultMinCreditRatio = 1.0 / 3.0

// FindBestPutSpread selects a bull put spread from a delta-annotated put
// chain: the short leg is the put inside the short delta band with the
// largest |delta| (richest premium), the long leg the put below the short
// strike inside the long band with the smallest |delta|. Returns the spread
// and a pass message, or nil and the first failing rule's message.
func FindBestPutSpread(chain []model.AnnotatedPut, legs LegBands, minCreditRatio float64) (*model.SpreadCandidate, string) {
	if minCreditRatio <= 0 {
		minCreditRatio = DefaultMinCreditRatio
	}

	var short *model.AnnotatedPut
	for i := range chain {
		put := &chain[i]
		if put.Delta < legs.ShortDeltaMin || put.Delta > legs.ShortDeltaMax {
			continue
		}
		if short == nil || math.Abs(put.Delta) > math.Abs(short.Delta) {
			short = put
		}
	}
	if short == nil {
		return nil, fmt.Sprintf("No short strike found with delta between %.2f and %.2f.",
			legs.ShortDeltaMax, legs.ShortDeltaMin)
	}

	var long *model.AnnotatedPut
	for i := range chain {
		put := &chain[i]
		if put.Strike >= short.Strike {
			continue
		}
		if put.Delta < legs.LongDeltaMin || put.Delta >= legs.LongDeltaMax {
			continue
		}
		if long == nil || math.Abs(put.Delta) < math.Abs(long.Delta) {
			long = put
		}
	}
	if long == nil {
		return nil, "No suitable long strike found to complete the spread."
	}

	width := short.Strike - long.Strike
	if width <= 0 {
		return nil, "Spread width is zero or negative, invalid pair."
	}

	netCredit := decimal.NewFromFloat(short.Premium).
		Sub(decimal.NewFromFloat(long.Premium)).
		Round(2)
	minCredit := decimal.NewFromFloat(width).
		Mul(decimal.NewFromFloat(minCreditRatio)).
		Round(2)

	if netCredit.LessThan(minCredit) {
		return nil, fmt.Sprintf("Net credit $%s is less than %.0f%% of spread width ($%s).",
			netCredit.StringFixed(2), minCreditRatio*100, minCredit.StringFixed(2))
	}

	credit, _ := netCredit.Float64()
	maxRisk := width - credit
	if maxRisk <= 0 {
		return nil, "Calculated max risk is zero or negative."
	}

	returnOnRisk, _ := decimal.NewFromFloat(credit / maxRisk * 100).Round(2).Float64()
	return &model.SpreadCandidate{
		ShortStrike:  short.Strike,
		ShortDelta:   short.Delta,
		LongStrike:   long.Strike,
		LongDelta:    long.Delta,
		Width:        width,
		NetCredit:    credit,
		MaxRisk:      maxRisk,
		ReturnOnRisk: returnOnRisk,
	}, "Spread passed all structural filters."
}
