package recorder

import (
	"time"

	"github.com/google/uuid"

	"StockLens/internal/model"
)

// CrossoverEvent is one detected crossing, keyed by symbol, kind, date and
// the SMA period pair.
type CrossoverEvent struct {
	Symbol      string
	ShortPeriod int
	LongPeriod  int
	Kind        model.CrossKind
	Date        string
	Value       float64
	Position    float64
}

// EventsFromReport flattens a report into recordable events, golden first.
func EventsFromReport(rep *model.CrossoverReport) []CrossoverEvent {
	events := make([]CrossoverEvent, 0, len(rep.Golden)+len(rep.Death))
	for _, list := range [][]model.Crossover{rep.Golden, rep.Death} {
		for _, c := range list {
			events = append(events, CrossoverEvent{
				Symbol:      rep.Symbol,
				ShortPeriod: rep.ShortPeriod,
				LongPeriod:  rep.LongPeriod,
				Kind:        c.Kind,
				Date:        c.Date,
				Value:       c.Value,
				Position:    c.Position,
			})
		}
	}
	return events
}

// ScanRun summarizes one watchlist scan.
type ScanRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Symbols    int
	Failed     int
	NewEvents  int
}

// NewScanRun starts a run with a fresh ID.
func NewScanRun(startedAt time.Time) *ScanRun {
	return &ScanRun{ID: uuid.NewString(), StartedAt: startedAt}
}

// Recorder persists crossover history for deduplicated alerting.
type Recorder interface {
	// RecordCrossover stores evt and reports whether it was new.
	RecordCrossover(evt *CrossoverEvent) (bool, error)
	RecordScan(run *ScanRun) error
	Close() error
}
