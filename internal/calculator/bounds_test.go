package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/model"
)

func TestCalculateBounds_Empty(t *testing.T) {
	_, err := CalculateBounds(nil, nil)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = CalculateBounds([]model.Point{{X: math.NaN(), Y: 1}}, nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestCalculateBounds_CombinesBothSets(t *testing.T) {
	a := []model.Point{{X: 101, Y: 100.21}, {X: 102, Y: 101.21}, {X: 103, Y: 102.21}}
	b := []model.Point{{X: 99, Y: 103}, {X: math.Inf(1), Y: 0}}

	got, err := CalculateBounds(a, b)
	require.NoError(t, err)
	assert.Equal(t, model.Range{Min: 99, Max: 103}, got.X)
	assert.Equal(t, model.Range{Min: 100.21, Max: 103}, got.Y)
}

func TestCalculateBounds_OneSided(t *testing.T) {
	got, err := CalculateBounds(nil, []model.Point{{X: 1, Y: 5}})
	require.NoError(t, err)
	assert.Equal(t, model.Range{Min: 1, Max: 1}, got.X)
	assert.Equal(t, model.Range{Min: 5, Max: 5}, got.Y)
}

func TestSeriesBounds(t *testing.T) {
	got, err := SeriesBounds(chrono(3, 1, 2), chrono(4, 0))
	require.NoError(t, err)
	assert.Equal(t, model.Range{Min: 0, Max: 2}, got.X)
	assert.Equal(t, model.Range{Min: 0, Max: 4}, got.Y)
}
