package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-scripts/placescout/internal/types"
)

func TestSortByRatingThenReviews(t *testing.T) {
	results := []types.MergedResult{
		{Name: "A", Rating: 4.2, ReviewCount: 10},
		{Name: "B", Rating: 4.8, ReviewCount: 2},
		{Name: "C", Rating: 4.2, ReviewCount: 50},
	}

	Sort(results)

	assert.Equal(t, "B", results[0].Name)
	assert.Equal(t, "C", results[1].Name)
	assert.Equal(t, "A", results[2].Name)
}

func TestSortIsStableOnFullTies(t *testing.T) {
	results := []types.MergedResult{
		{Name: "first", Rating: 4.0, ReviewCount: 10},
		{Name: "second", Rating: 4.0, ReviewCount: 10},
		{Name: "third", Rating: 4.0, ReviewCount: 10},
	}

	Sort(results)

	assert.Equal(t, "first", results[0].Name)
	assert.Equal(t, "second", results[1].Name)
	assert.Equal(t, "third", results[2].Name)
}

func TestSortEmpty(t *testing.T) {
	assert.NotPanics(t, func() { Sort(nil) })
}
