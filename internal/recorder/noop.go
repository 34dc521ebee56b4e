package recorder

import (
	"fmt"
	"sync"
)

// NoopRecorder is used when SQLite is not configured. Nothing is persisted,
// but crossovers are deduplicated in memory for the life of the process.
type NoopRecorder struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewNoopRecorder() *NoopRecorder {
	return &NoopRecorder{seen: make(map[string]struct{})}
}

func (n *NoopRecorder) RecordCrossover(evt *CrossoverEvent) (bool, error) {
	key := fmt.Sprintf("%s|%s|%s|%d|%d", evt.Symbol, evt.Kind, evt.Date, evt.ShortPeriod, evt.LongPeriod)

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.seen == nil {
		n.seen = make(map[string]struct{})
	}
	if _, ok := n.seen[key]; ok {
		return false, nil
	}
	n.seen[key] = struct{}{}
	return true, nil
}

func (n *NoopRecorder) RecordScan(_ *ScanRun) error { return nil }
func (n *NoopRecorder) Close() error                { return nil }
