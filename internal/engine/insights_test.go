package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhouse-labs/propscore/internal/model"
)

func TestInsights_StrengthsAndWeaknesses(t *testing.T) {
	metrics := metricSet{
		model.DimensionPrice:     {Value: 95, Present: true},
		model.DimensionSize:      {Value: 85, Present: true},
		model.DimensionLocation:  {Value: 70, Present: true},
		model.DimensionCondition: {Value: 30, Present: true},
		model.DimensionFeature:   {Value: 10, Present: true},
	}
	criteria := criteriaFor(
		model.DimensionPrice, model.DimensionSize, model.DimensionLocation,
		model.DimensionCondition, model.DimensionFeature,
	)

	strengths, weaknesses := insights(metrics, criteria, DefaultConfig())

	// Best-first strengths from the top three dimensions over 60.
	require.Len(t, strengths, 3)
	assert.Equal(t, insightTemplates[model.DimensionPrice].strength, strengths[0])
	assert.Equal(t, insightTemplates[model.DimensionSize].strength, strengths[1])
	assert.Equal(t, insightTemplates[model.DimensionLocation].strength, strengths[2])

	// Worst-first weaknesses from the bottom three under 50. Location
	// at 70 sits in the bottom three but clears the threshold.
	require.Len(t, weaknesses, 2)
	assert.Equal(t, insightTemplates[model.DimensionFeature].weakness, weaknesses[0])
	assert.Equal(t, insightTemplates[model.DimensionCondition].weakness, weaknesses[1])
}

func TestInsights_ThresholdsSuppressNoise(t *testing.T) {
	// Every score in the dead zone between the thresholds: no insights.
	metrics := metricSet{
		model.DimensionPrice: {Value: 55, Present: true},
		model.DimensionSize:  {Value: 52, Present: true},
	}
	criteria := criteriaFor(model.DimensionPrice, model.DimensionSize)

	strengths, weaknesses := insights(metrics, criteria, DefaultConfig())
	assert.Empty(t, strengths)
	assert.Empty(t, weaknesses)
}

func TestInsights_AbsentDimensionsSkipped(t *testing.T) {
	metrics := metricSet{
		model.DimensionPrice:      {Value: 90, Present: true},
		model.DimensionInvestment: {Present: false},
	}
	criteria := criteriaFor(model.DimensionPrice, model.DimensionInvestment)

	strengths, weaknesses := insights(metrics, criteria, DefaultConfig())
	assert.Equal(t, []string{insightTemplates[model.DimensionPrice].strength}, strengths)
	assert.Empty(t, weaknesses)
}

func TestInsights_DisabledDimensionsIgnored(t *testing.T) {
	metrics := metricSet{
		model.DimensionPrice: {Value: 90, Present: true},
		model.DimensionSize:  {Value: 5, Present: true},
	}
	// Size is scored but not part of the criteria.
	criteria := criteriaFor(model.DimensionPrice)

	strengths, weaknesses := insights(metrics, criteria, DefaultConfig())
	assert.Len(t, strengths, 1)
	assert.Empty(t, weaknesses)
}

func TestInsights_EveryDimensionHasTemplates(t *testing.T) {
	for _, d := range model.AllDimensions() {
		tpl, ok := insightTemplates[d]
		require.True(t, ok, "dimension %s has no templates", d)
		assert.NotEmpty(t, tpl.strength)
		assert.NotEmpty(t, tpl.weakness)
	}
}
