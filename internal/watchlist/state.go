package watchlist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"StockLens/internal/model"
)

// LoadState reads the watchlist from a JSON file. Returns an empty state if
// the file doesn't exist. A bare JSON array of symbols is also accepted.
func LoadState(filePath string) (*model.WatchlistState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.WatchlistState{}, nil
		}
		return nil, err
	}

	var state model.WatchlistState
	var legacy []string
	if err := json.Unmarshal(data, &legacy); err == nil {
		state.Symbols = legacy
	} else if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse watchlist %s: %w", filePath, err)
	}
	state.Symbols = normalizeAll(state.Symbols)
	return &state, nil
}

// normalizeAll normalizes symbols, dropping invalid entries and duplicates
// while keeping first-seen order.
func normalizeAll(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		sym, err := Normalize(s)
		if err != nil || slices.Contains(out, sym) {
			continue
		}
		out = append(out, sym)
	}
	return out
}

// SaveState writes the watchlist to a JSON file, creating its directory.
func SaveState(filePath string, state *model.WatchlistState) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, data, 0644)
}
