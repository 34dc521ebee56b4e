package model

// Order tags which direction time runs in a Series.
type Order int

const (
	// OrderChronological runs oldest to newest.
	OrderChronological Order = iota
	// OrderNewestFirst is the provider order: newest sample first.
	OrderNewestFirst
)

func (o Order) String() string {
	if o == OrderNewestFirst {
		return "newest-first"
	}
	return "chronological"
}

// Observation is a single price or SMA sample as delivered by a provider.
type Observation struct {
	Timestamp string  `json:"date"`
	Value     float64 `json:"value"`
}

// Series is an ordered run of observations. The ordering is part of the
// value so consumers that need time moving forward can check it.
type Series struct {
	Order        Order         `json:"-"`
	Observations []Observation `json:"observations"`
}

// NewestFirst wraps provider-ordered observations.
func NewestFirst(obs []Observation) Series {
	return Series{Order: OrderNewestFirst, Observations: obs}
}

// Chronological wraps observations that already run oldest to newest.
func Chronological(obs []Observation) Series {
	return Series{Order: OrderChronological, Observations: obs}
}

// Len returns the number of observations.
func (s Series) Len() int { return len(s.Observations) }

// Reversed returns a copy with the observations and the order tag flipped.
func (s Series) Reversed() Series {
	n := len(s.Observations)
	out := make([]Observation, n)
	for i, o := range s.Observations {
		out[n-1-i] = o
	}
	next := OrderChronological
	if s.Order == OrderChronological {
		next = OrderNewestFirst
	}
	return Series{Order: next, Observations: out}
}

// InOrder returns a copy of s running in the requested order.
func (s Series) InOrder(o Order) Series {
	if s.Order == o {
		out := make([]Observation, len(s.Observations))
		copy(out, s.Observations)
		return Series{Order: o, Observations: out}
	}
	return s.Reversed()
}

// Values returns the sample values in series order.
func (s Series) Values() []float64 {
	vals := make([]float64, len(s.Observations))
	for i, o := range s.Observations {
		vals[i] = o.Value
	}
	return vals
}

// Quote is the latest price snapshot for a symbol.
type Quote struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ChangePct float64 `json:"changes_percentage"`
	Open      float64 `json:"open"`
	DayLow    float64 `json:"day_low"`
	DayHigh   float64 `json:"day_high"`
}
