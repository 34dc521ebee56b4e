package model

import "fmt"

// NoDataTitle marks a window that has nothing to plot.
const NoDataTitle = "no data"

// Point is a single chart coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies in the range, up to tol.
func (r Range) Contains(v, tol float64) bool {
	return v >= r.Min-tol && v <= r.Max+tol
}

// Bounds holds the x and y extents of one or more point sets.
type Bounds struct {
	X Range `json:"x"`
	Y Range `json:"y"`
}

// WindowKind selects the time granularity of a chart window.
type WindowKind string

const (
	WindowIntraday WindowKind = "intraday"
	WindowMonth    WindowKind = "month"
	WindowYear     WindowKind = "year"
)

// ParseWindowKind maps a user-supplied string onto a WindowKind.
func ParseWindowKind(s string) (WindowKind, error) {
	switch WindowKind(s) {
	case WindowIntraday, WindowMonth, WindowYear:
		return WindowKind(s), nil
	case "":
		return WindowMonth, nil
	default:
		return "", fmt.Errorf("unknown window %q", s)
	}
}

// ChartWindow is a render-ready set of coordinates, axis extents and
// sparse x-axis labels for one chart view.
type ChartWindow struct {
	Kind    WindowKind `json:"kind"`
	Title   string     `json:"title"`
	Points  []Point    `json:"points"`
	XLabels []string   `json:"x_labels"`
	XBounds Range      `json:"x_bounds"`
	YBounds Range      `json:"y_bounds"`
}

// EmptyWindow returns the explicit "no data" window for kind.
func EmptyWindow(kind WindowKind) ChartWindow {
	return ChartWindow{Kind: kind, Title: NoDataTitle}
}

// HasData reports whether the window has anything to plot.
func (w ChartWindow) HasData() bool { return len(w.Points) > 0 }
