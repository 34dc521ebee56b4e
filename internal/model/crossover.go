package model

import (
	"fmt"
	"strings"
)

// CrossKind is the direction of an SMA crossover.
type CrossKind string

const (
	CrossGolden CrossKind = "GOLDEN"
	CrossDeath  CrossKind = "DEATH"
)

// Crossover is one point where the short SMA crosses the long SMA.
type Crossover struct {
	Date     string    `json:"date"`
	Value    float64   `json:"value"`
	Kind     CrossKind `json:"kind"`
	Position float64   `json:"position"` // fractional sample index of the crossing
}

// Label renders the crossover as "golden:MM-DD: value", dropping the year.
func (c Crossover) Label() string {
	date := c.Date
	if len(date) >= 10 && date[4] == '-' {
		date = date[5:10]
	}
	return fmt.Sprintf("%s:%s: %.2f", strings.ToLower(string(c.Kind)), date, c.Value)
}

// CompactChart is the month-day keyed view of a short/long SMA pair.
type CompactChart struct {
	Short  []Point `json:"short"`
	Long   []Point `json:"long"`
	Bounds Bounds  `json:"bounds"`
}

// CrossoverReport is the full analysis of one symbol's SMA pair.
type CrossoverReport struct {
	Symbol      string       `json:"symbol"`
	ShortPeriod int          `json:"short_period"`
	LongPeriod  int          `json:"long_period"`
	Short       Series       `json:"short"`
	Long        Series       `json:"long"`
	Golden      []Crossover  `json:"golden"`
	Death       []Crossover  `json:"death"`
	Bounds      Bounds       `json:"bounds"`
	Compact     CompactChart `json:"compact"`
}

// Latest returns the most recent crossover of either kind.
func (r *CrossoverReport) Latest() (Crossover, bool) {
	var latest Crossover
	found := false
	for _, list := range [][]Crossover{r.Golden, r.Death} {
		for _, c := range list {
			if !found || c.Position > latest.Position {
				latest, found = c, true
			}
		}
	}
	return latest, found
}
