package deploy

import (
	"fmt"

	"PutScout/internal/calculator"
	"PutScout/internal/model"
)

// Trigger is one tranche of the staged capital-deployment ladder: when price
// falls to or below the trend EMA, the tranche fires and a fraction of the
// remaining reserve is deployed.
type Trigger struct {
	Weeks    int     // EMA horizon in weeks
	Days     int     // daily-bar span approximating it
	EMA      float64
	Fired    bool
	Fraction float64 // fraction of the remaining reserve to deploy
}

// Status is the deployment dashboard state for one benchmark symbol.
type Status struct {
	Ticker       string
	CurrentPrice float64
	Triggers     []Trigger
}

// ladder approximates the 26/52/104-week EMAs with daily spans.
var ladder = []struct {
	weeks    int
	days     int
	fraction float64
}{
	{26, 130, 0.20},
	{52, 260, 0.50},
	{104, 520, 0.80},
}

// Evaluate computes the EMA ladder for a price series. The longest horizon
// wants ~520 trading days of history; shorter series still evaluate, the EMA
// just carries less memory.
func Evaluate(series *model.PriceSeries) (*Status, error) {
	if series.Empty() {
		return nil, fmt.Errorf("no price history for %s", series.Ticker)
	}
	closes := series.Closes()

	status := &Status{
		Ticker:       series.Ticker,
		CurrentPrice: series.CurrentPrice,
	}
	for _, step := range ladder {
		ema, err := calculator.CalculateEMA(closes, step.days)
		if err != nil {
			return nil, fmt.Errorf("EMA(%d): %w", step.days, err)
		}
		status.Triggers = append(status.Triggers, Trigger{
			Weeks:    step.weeks,
			Days:     step.days,
			EMA:      ema,
			Fired:    series.CurrentPrice <= ema,
			Fraction: step.fraction,
		})
	}
	return status, nil
}

// Plan converts fired triggers into dollar amounts from a cash reserve,
// consuming the remainder tranche by tranche.
func (s *Status) Plan(reserve float64) []float64 {
	amounts := make([]float64, len(s.Triggers))
	remaining := reserve
	for i, t := range s.Triggers {
		if !t.Fired || remaining <= 0 {
			continue
		}
		amounts[i] = remaining * t.Fraction
		remaining -= amounts[i]
	}
	return amounts
}
