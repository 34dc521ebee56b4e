package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/model"
)

func TestSMASeries(t *testing.T) {
	closes := chrono(1, 2, 3, 4, 5)

	sma, err := SMASeries(closes, 3)
	require.NoError(t, err)
	assert.Equal(t, model.OrderChronological, sma.Order)
	require.Equal(t, 3, sma.Len())
	assert.Equal(t, "d2", sma.Observations[0].Timestamp)
	assert.Equal(t, "d4", sma.Observations[2].Timestamp)
	assert.InDeltaSlice(t, []float64{2, 3, 4}, sma.Values(), 1e-9)
}

func TestSMASeries_AcceptsNewestFirst(t *testing.T) {
	sma, err := SMASeries(chrono(1, 2, 3, 4).Reversed(), 2)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.5, 2.5, 3.5}, sma.Values(), 1e-9)
}

func TestSMASeries_Errors(t *testing.T) {
	_, err := SMASeries(chrono(1, 2), 0)
	assert.Error(t, err)

	_, err = SMASeries(chrono(1, 2), 3)
	assert.ErrorIs(t, err, ErrNoData)
}
