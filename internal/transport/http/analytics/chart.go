package analytics

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"StockLens/internal/model"
)

// NoSMAData titles the page served when a symbol has no SMA series.
const NoSMAData = "SMA Data not available"

// renderCrossoverChart draws both SMA lines over their dates with a mark
// point at every crossover and the crossover labels as subtitle.
func renderCrossoverChart(w io.Writer, rep *model.CrossoverReport) error {
	dates := make([]string, rep.Short.Len())
	for i, o := range rep.Short.Observations {
		dates[i] = o.Timestamp
	}

	yRange := padRange(rep.Bounds.Y, yPadding)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: rep.Symbol + " analytics",
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Long/short Simple Moving Average for %s", rep.Symbol),
			Subtitle: crossoverSubtitle(rep),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Min: yRange.Min,
			Max: yRange.Max,
		}),
		charts.WithLegendOpts(opts.Legend{Right: "5%"}),
	)

	line.SetXAxis(dates).
		AddSeries(fmt.Sprintf("SMA %d", rep.ShortPeriod), lineData(rep.Short),
			charts.WithMarkPointNameCoordItemOpts(markPoints(rep.Golden, dates)...)).
		AddSeries(fmt.Sprintf("SMA %d", rep.LongPeriod), lineData(rep.Long),
			charts.WithMarkPointNameCoordItemOpts(markPoints(rep.Death, dates)...))

	return line.Render(w)
}

// yPadding is the share of the value span added above and below the lines
// so marks at the extremes stay inside the plot.
const yPadding = 0.1

func padRange(r model.Range, frac float64) model.Range {
	pad := (r.Max - r.Min) * frac
	return model.Range{Min: r.Min - pad, Max: r.Max + pad}
}

// renderMessageChart renders an empty chart carrying only a title.
func renderMessageChart(w io.Writer, message string) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: message}),
		charts.WithTitleOpts(opts.Title{Title: message}),
	)
	return line.Render(w)
}

func lineData(s model.Series) []opts.LineData {
	items := make([]opts.LineData, 0, s.Len())
	for _, o := range s.Observations {
		items = append(items, opts.LineData{Name: o.Timestamp, Value: o.Value})
	}
	return items
}

// markPoints anchors each crossover on the category axis at the sample it
// falls after.
func markPoints(crosses []model.Crossover, dates []string) []opts.MarkPointNameCoordItem {
	if len(dates) == 0 {
		return nil
	}
	items := make([]opts.MarkPointNameCoordItem, 0, len(crosses))
	for _, c := range crosses {
		i := min(max(int(c.Position), 0), len(dates)-1)
		items = append(items, opts.MarkPointNameCoordItem{
			Name:       string(c.Kind),
			Coordinate: []interface{}{dates[i], c.Value},
			Value:      fmt.Sprintf("%.2f", c.Value),
		})
	}
	return items
}

func crossoverSubtitle(rep *model.CrossoverReport) string {
	var parts []string
	for _, list := range [][]model.Crossover{rep.Golden, rep.Death} {
		for _, c := range list {
			parts = append(parts, c.Label())
		}
	}
	return strings.Join(parts, "\n")
}
