package calculator

import (
	"fmt"
	"math"

	"StockLens/internal/model"
)

// parallelEpsilon is the smallest slope difference treated as a crossing.
const parallelEpsilon = 1e-9

// DetectCrossovers finds where the short SMA crosses the long SMA. Each
// adjacent pair of samples is treated as two line segments; a crossing
// within the pair is golden when short moves from below to above long and
// death for the reverse.
//
// Both series must be chronological and index-aligned (same length, same
// date at each index). Mismatched lengths are rejected with ErrMisaligned;
// use filter.AlignByDate first.
func DetectCrossovers(short, long model.Series) (golden, death []model.Crossover, err error) {
	if short.Order != model.OrderChronological || long.Order != model.OrderChronological {
		return nil, nil, ErrNotChronological
	}
	if short.Len() != long.Len() {
		return nil, nil, fmt.Errorf("%w: short=%d long=%d", ErrMisaligned, short.Len(), long.Len())
	}

	s, l := short.Observations, long.Observations
	last := len(s) - 1
	for i := 0; i < last; i++ {
		s0, s1 := s[i].Value, s[i+1].Value
		l0, l1 := l[i].Value, l[i+1].Value

		denom := (s1 - s0) - (l1 - l0)
		if math.Abs(denom) < parallelEpsilon {
			continue
		}
		t := (l0 - s0) / denom
		if t < 0 || t > 1 {
			continue
		}

		var kind model.CrossKind
		switch {
		case s0 < l0 && s1 > l1:
			kind = model.CrossGolden
		case s0 > l0 && s1 < l1:
			kind = model.CrossDeath
		default:
			continue
		}

		pos := float64(i) + t
		idx := int(math.Floor(pos))
		if idx > last {
			idx = last
		}
		c := model.Crossover{
			Date:     s[idx].Timestamp,
			Value:    s0 + t*(s1-s0),
			Kind:     kind,
			Position: pos,
		}
		if kind == model.CrossGolden {
			golden = append(golden, c)
		} else {
			death = append(death, c)
		}
	}
	return golden, death, nil
}
