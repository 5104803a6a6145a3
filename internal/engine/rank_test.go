package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankCohort_DescendingByScore(t *testing.T) {
	ranks := rankCohort([]rankEntry{
		{id: "a", score: 40},
		{id: "b", score: 90},
		{id: "c", score: 65},
	})
	assert.Equal(t, 1, ranks["b"])
	assert.Equal(t, 2, ranks["c"])
	assert.Equal(t, 3, ranks["a"])
}

func TestRankCohort_TieBrokenByPriceKey(t *testing.T) {
	ranks := rankCohort([]rankEntry{
		{id: "a", score: 70, priceKey: 20},
		{id: "b", score: 70, priceKey: 80},
	})
	assert.Equal(t, 1, ranks["b"])
	assert.Equal(t, 2, ranks["a"])
}

func TestRankCohort_FinalTieBrokenByID(t *testing.T) {
	ranks := rankCohort([]rankEntry{
		{id: "zulu", score: 70, priceKey: 50},
		{id: "alpha", score: 70, priceKey: 50},
	})
	assert.Equal(t, 1, ranks["alpha"])
	assert.Equal(t, 2, ranks["zulu"])
}

func TestRankCohort_DenseUniquePermutation(t *testing.T) {
	entries := []rankEntry{
		{id: "a", score: 50},
		{id: "b", score: 50},
		{id: "c", score: 50},
		{id: "d", score: 80},
	}
	ranks := rankCohort(entries)

	seen := make(map[int]bool)
	for _, r := range ranks {
		assert.False(t, seen[r], "rank %d assigned twice", r)
		seen[r] = true
	}
	for want := 1; want <= len(entries); want++ {
		assert.True(t, seen[want], "missing rank %d", want)
	}
}

func TestRankCohort_InputOrderIrrelevant(t *testing.T) {
	forward := rankCohort([]rankEntry{
		{id: "a", score: 30}, {id: "b", score: 60}, {id: "c", score: 60},
	})
	reversed := rankCohort([]rankEntry{
		{id: "c", score: 60}, {id: "b", score: 60}, {id: "a", score: 30},
	})
	assert.Equal(t, forward, reversed)
}
