package redundancy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNaiveDropsDominatedRow(t *testing.T) {
	// row layout: [intercept, f0, f1, cost_coef]
	matrix := [][]float64{
		{0, 1, 2, -1}, // dominated by row 1
		{0, 0, 1, -1},
		{0, 5, 5, -1},
	}
	// Row 1 (0,1) dominates row 0 (1,2) coordinatewise and row 2 (5,5).
	survive, err := Naive{}.Eliminate(context.Background(), matrix, Config{})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, survive)
}

func TestNaiveKeepsIncomparableRows(t *testing.T) {
	matrix := [][]float64{
		{0, 1, 5, -1},
		{0, 5, 1, -1},
	}
	survive, err := Naive{}.Eliminate(context.Background(), matrix, Config{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 1}, survive)
}

func TestNaiveMonotoneUnderRestriction(t *testing.T) {
	full := [][]float64{
		{0, 1, 5, -1},
		{0, 5, 1, -1},
		{0, 0, 0, -1}, // dominates both
	}
	survFull, err := Naive{}.Eliminate(context.Background(), full, Config{})
	require.NoError(t, err)
	require.Equal(t, []int{2}, survFull)

	restricted := [][]float64{full[0], full[2]}
	survRestricted, err := Naive{}.Eliminate(context.Background(), restricted, Config{})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, survRestricted) // index 2 of full is now index 1
}

func TestNaiveIdempotentOnItsOwnOutput(t *testing.T) {
	matrix := [][]float64{
		{0, 1, 5, -1},
		{0, 5, 1, -1},
		{0, 3, 3, -1}, // dominated by neither
	}
	first, err := Naive{}.Eliminate(context.Background(), matrix, Config{})
	require.NoError(t, err)

	restricted := make([][]float64, len(first))
	for i, idx := range first {
		restricted[i] = matrix[idx]
	}
	second, err := Naive{}.Eliminate(context.Background(), restricted, Config{})
	require.NoError(t, err)
	assert.Len(t, second, len(first))
}
