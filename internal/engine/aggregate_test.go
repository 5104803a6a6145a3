package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhouse-labs/propscore/internal/model"
)

func TestAggregate_EqualWeights(t *testing.T) {
	metrics := metricSet{
		model.DimensionPrice: {Value: 80, Present: true},
		model.DimensionSize:  {Value: 40, Present: true},
	}
	score, ok := aggregate(metrics, criteriaFor(model.DimensionPrice, model.DimensionSize))
	require.True(t, ok)
	assert.InDelta(t, 60, score, 0.001)
}

func TestAggregate_ExplicitWeights(t *testing.T) {
	metrics := metricSet{
		model.DimensionPrice: {Value: 100, Present: true},
		model.DimensionSize:  {Value: 0, Present: true},
	}
	c := criteriaFor(model.DimensionPrice, model.DimensionSize)
	c.Weights = map[model.ScoringDimension]float64{
		model.DimensionPrice: 0.75,
		model.DimensionSize:  0.25,
	}
	score, ok := aggregate(metrics, c)
	require.True(t, ok)
	assert.InDelta(t, 75, score, 0.001)
}

func TestAggregate_RenormalizesOverPresentDimensions(t *testing.T) {
	metrics := metricSet{
		model.DimensionPrice:      {Value: 90, Present: true},
		model.DimensionSize:       {Value: 70, Present: true},
		model.DimensionInvestment: {Present: false},
	}
	score, ok := aggregate(metrics, criteriaFor(
		model.DimensionPrice, model.DimensionSize, model.DimensionInvestment))
	require.True(t, ok)
	// Mean of the two present dimensions, not dragged down by the
	// absent third.
	assert.InDelta(t, 80, score, 0.001)
}

func TestAggregate_NoPresentDimensions(t *testing.T) {
	metrics := metricSet{
		model.DimensionInvestment: {Present: false},
	}
	score, ok := aggregate(metrics, criteriaFor(model.DimensionInvestment))
	assert.False(t, ok)
	assert.Zero(t, score)
}

func TestAggregate_ZeroWeightDimensionIgnored(t *testing.T) {
	metrics := metricSet{
		model.DimensionPrice: {Value: 100, Present: true},
		model.DimensionSize:  {Value: 0, Present: true},
	}
	c := criteriaFor(model.DimensionPrice, model.DimensionSize)
	c.Weights = map[model.ScoringDimension]float64{
		model.DimensionPrice: 1,
		model.DimensionSize:  0,
	}
	score, ok := aggregate(metrics, c)
	require.True(t, ok)
	assert.InDelta(t, 100, score, 0.001)
}

func TestValidateCriteria(t *testing.T) {
	tests := []struct {
		name     string
		criteria model.ComparisonCriteria
		wantErr  bool
	}{
		{"empty criteria defaults to all enabled", model.ComparisonCriteria{}, false},
		{"explicit enable", criteriaFor(model.DimensionPrice), false},
		{
			"all disabled",
			model.ComparisonCriteria{Enabled: map[model.ScoringDimension]bool{model.DimensionPrice: false}},
			true,
		},
		{
			"unknown dimension",
			model.ComparisonCriteria{Enabled: map[model.ScoringDimension]bool{"vibes": true}},
			true,
		},
		{
			"NaN weight",
			model.ComparisonCriteria{
				Enabled: map[model.ScoringDimension]bool{model.DimensionPrice: true},
				Weights: map[model.ScoringDimension]float64{model.DimensionPrice: math.NaN()},
			},
			true,
		},
		{
			"negative weight",
			model.ComparisonCriteria{
				Enabled: map[model.ScoringDimension]bool{model.DimensionPrice: true},
				Weights: map[model.ScoringDimension]float64{model.DimensionPrice: -0.1},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCriteria(tt.criteria)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidCriteria)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoundScore(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{100, 100},
		{49.4, 49},
		{49.5, 50},  // round half to even
		{50.5, 50},  // round half to even
		{-3, 0},     // clamped
		{104.2, 100}, // clamped
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundScore(tt.in), "roundScore(%v)", tt.in)
	}
}
