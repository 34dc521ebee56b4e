package watchlist

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"StockLens/internal/model"
)

var (
	ErrInvalidSymbol = errors.New("invalid symbol")
	ErrDuplicate     = errors.New("symbol already watched")
	ErrNotWatched    = errors.New("symbol not watched")
)

var symbolPattern = regexp.MustCompile(`^\^?[A-Z0-9][A-Z0-9.\-]{0,9}$`)

// Manager holds the watched symbols with concurrency safety. Every
// mutation is persisted before it returns.
type Manager struct {
	mu       sync.Mutex
	state    *model.WatchlistState
	filePath string
}

// NewManager creates a Manager, loading state from disk and seeding it with
// defaults when the file is missing or empty.
func NewManager(filePath string, defaults []string) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}

	if len(state.Symbols) == 0 {
		for _, s := range defaults {
			if sym, err := Normalize(s); err == nil && !slices.Contains(state.Symbols, sym) {
				state.Symbols = append(state.Symbols, sym)
			}
		}
	}

	m := &Manager{state: state, filePath: filePath}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// Normalize upper-cases and validates a ticker.
func Normalize(symbol string) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if !symbolPattern.MatchString(sym) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	return sym, nil
}

// List returns a copy of the watched symbols in insertion order.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.state.Symbols)
}

// Contains reports whether symbol is watched.
func (m *Manager) Contains(symbol string) bool {
	sym, err := Normalize(symbol)
	if err != nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Contains(m.state.Symbols, sym)
}

// Add appends symbol and returns its normalized form.
func (m *Manager) Add(symbol string) (string, error) {
	sym, err := Normalize(symbol)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if slices.Contains(m.state.Symbols, sym) {
		return sym, fmt.Errorf("%w: %s", ErrDuplicate, sym)
	}
	m.state.Symbols = append(m.state.Symbols, sym)
	if err := m.save(); err != nil {
		m.state.Symbols = m.state.Symbols[:len(m.state.Symbols)-1]
		return "", fmt.Errorf("save watchlist: %w", err)
	}
	return sym, nil
}

// Remove drops symbol from the list.
func (m *Manager) Remove(symbol string) (string, error) {
	sym, err := Normalize(symbol)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.Index(m.state.Symbols, sym)
	if i < 0 {
		return sym, fmt.Errorf("%w: %s", ErrNotWatched, sym)
	}
	prev := m.state.Symbols
	m.state.Symbols = slices.Delete(slices.Clone(prev), i, i+1)
	if err := m.save(); err != nil {
		m.state.Symbols = prev
		return "", fmt.Errorf("save watchlist: %w", err)
	}
	return sym, nil
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}
