package deploy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PutScout/internal/model"
	"PutScout/internal/provider"
)

func TestEvaluate_FlatSeriesFiresEverything(t *testing.T) {
	closes := make([]float64, 600)
	for i := range closes {
		closes[i] = 100
	}

	status, err := Evaluate(provider.SeriesFromCloses("QQQ", closes))
	require.NoError(t, err)
	require.Len(t, status.Triggers, 3)

	assert.Equal(t, 26, status.Triggers[0].Weeks)
	assert.Equal(t, 130, status.Triggers[0].Days)
	assert.Equal(t, 52, status.Triggers[1].Weeks)
	assert.Equal(t, 104, status.Triggers[2].Weeks)

	for _, trigger := range status.Triggers {
		assert.InDelta(t, 100, trigger.EMA, 1e-9)
		assert.True(t, trigger.Fired) // price == EMA counts as touched
	}
}

func TestEvaluate_UptrendFiresNothing(t *testing.T) {
	closes := make([]float64, 600)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.5
	}

	status, err := Evaluate(provider.SeriesFromCloses("QQQ", closes))
	require.NoError(t, err)

	for _, trigger := range status.Triggers {
		assert.Less(t, trigger.EMA, status.CurrentPrice)
		assert.False(t, trigger.Fired)
	}
}

func TestEvaluate_DrawdownFiresShortHorizonFirst(t *testing.T) {
	// Long flat stretch, then a sharp drop. The 26-week EMA tracks price
	// down fastest, so the current price sits below every horizon.
	closes := make([]float64, 600)
	for i := range closes {
		closes[i] = 100
	}
	for i := 560; i < 600; i++ {
		closes[i] = 100 - float64(i-559)
	}

	status, err := Evaluate(provider.SeriesFromCloses("QQQ", closes))
	require.NoError(t, err)
	assert.Equal(t, 60.0, status.CurrentPrice)
	for _, trigger := range status.Triggers {
		assert.True(t, trigger.Fired)
	}
}

func TestEvaluate_EmptySeries(t *testing.T) {
	_, err := Evaluate(&model.PriceSeries{Ticker: "QQQ"})
	assert.Error(t, err)
}

func TestPlan_ConsumesReserveTrancheByTranche(t *testing.T) {
	status := &Status{
		Triggers: []Trigger{
			{Fired: true, Fraction: 0.20},
			{Fired: true, Fraction: 0.50},
			{Fired: true, Fraction: 0.80},
		},
	}

	amounts := status.Plan(1000)
	require.Len(t, amounts, 3)
	assert.InDelta(t, 200, amounts[0], 1e-9) // 20% of 1000
	assert.InDelta(t, 400, amounts[1], 1e-9) // 50% of remaining 800
	assert.InDelta(t, 320, amounts[2], 1e-9) // 80% of remaining 400
}

func TestPlan_SkipsUnfiredTriggers(t *testing.T) {
	status := &Status{
		Triggers: []Trigger{
			{Fired: true, Fraction: 0.20},
			{Fired: false, Fraction: 0.50},
			{Fired: true, Fraction: 0.80},
		},
	}

	amounts := status.Plan(1000)
	assert.InDelta(t, 200, amounts[0], 1e-9)
	assert.Zero(t, amounts[1])
	assert.InDelta(t, 640, amounts[2], 1e-9) // 80% of remaining 800

	assert.Equal(t, []float64{0, 0, 0}, status.Plan(0))
}
