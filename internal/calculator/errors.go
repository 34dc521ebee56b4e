package calculator

import "errors"

var (
	// ErrNoData means there was nothing to compute over.
	ErrNoData = errors.New("no data")
	// ErrMisaligned means two series that must be index-aligned differ in length.
	ErrMisaligned = errors.New("series lengths differ")
	// ErrNotChronological means a series was not running oldest to newest.
	ErrNotChronological = errors.New("series is not chronological")
)
