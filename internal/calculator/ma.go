package calculator

import (
	"errors"
	"fmt"

	"github.com/markcheno/go-talib"

	"StockLens/internal/model"
)

// SMASeries computes the simple moving average of closes over period. The
// result is chronological and has one observation per close from index
// period-1 on, stamped with that close's timestamp.
func SMASeries(closes model.Series, period int) (model.Series, error) {
	if period <= 0 {
		return model.Series{}, errors.New("period must be positive")
	}
	src := closes.InOrder(model.OrderChronological)
	if src.Len() < period {
		return model.Series{}, fmt.Errorf("not enough data for SMA(%d): have %d closes: %w", period, src.Len(), ErrNoData)
	}

	sma := talib.Sma(src.Values(), period)

	out := make([]model.Observation, 0, src.Len()-period+1)
	for i := period - 1; i < src.Len(); i++ {
		out = append(out, model.Observation{Timestamp: src.Observations[i].Timestamp, Value: sma[i]})
	}
	return model.Chronological(out), nil
}
