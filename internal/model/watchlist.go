package model

import "time"

// WatchlistState is the persisted set of watched symbols.
type WatchlistState struct {
	Symbols   []string  `json:"symbols"`
	UpdatedAt time.Time `json:"updated_at"`
}
