package calculator

import (
	"math"

	"StockLens/internal/model"
)

// CalculateBounds returns the combined x and y extents of both point sets.
// Non-finite points are ignored. ErrNoData is returned when no finite point
// remains, instead of an inverted range.
func CalculateBounds(a, b []model.Point) (model.Bounds, error) {
	bounds := model.Bounds{
		X: model.Range{Min: math.Inf(1), Max: math.Inf(-1)},
		Y: model.Range{Min: math.Inf(1), Max: math.Inf(-1)},
	}
	n := 0
	for _, set := range [][]model.Point{a, b} {
		for _, p := range set {
			if !finite(p.X) || !finite(p.Y) {
				continue
			}
			n++
			bounds.X.Min = math.Min(bounds.X.Min, p.X)
			bounds.X.Max = math.Max(bounds.X.Max, p.X)
			bounds.Y.Min = math.Min(bounds.Y.Min, p.Y)
			bounds.Y.Max = math.Max(bounds.Y.Max, p.Y)
		}
	}
	if n == 0 {
		return model.Bounds{}, ErrNoData
	}
	return bounds, nil
}

// SeriesBounds returns the bounds of two series plotted against their
// sample index.
func SeriesBounds(a, b model.Series) (model.Bounds, error) {
	return CalculateBounds(indexPoints(a), indexPoints(b))
}

func indexPoints(s model.Series) []model.Point {
	points := make([]model.Point, len(s.Observations))
	for i, o := range s.Observations {
		points[i] = model.Point{X: float64(i), Y: o.Value}
	}
	return points
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
