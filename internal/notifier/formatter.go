package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"StockLens/internal/model"
	"StockLens/internal/recorder"
)

// NotEnoughData is the reply for a window with nothing to plot.
const NotEnoughData = "not enough data"

// FormatCrossoverReport formats a symbol's SMA crossovers into a Telegram message.
func FormatCrossoverReport(rep *model.CrossoverReport) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📈 <b>%s</b> SMA%d / SMA%d\n",
		html.EscapeString(rep.Symbol), rep.ShortPeriod, rep.LongPeriod))
	if n := rep.Short.Len(); n > 0 {
		last := n - 1
		b.WriteString(fmt.Sprintf("Latest %s: short %.2f | long %.2f\n",
			rep.Short.Observations[last].Timestamp,
			rep.Short.Observations[last].Value,
			rep.Long.Observations[last].Value))
	}

	crosses := append(append([]model.Crossover{}, rep.Golden...), rep.Death...)
	if len(crosses) == 0 {
		b.WriteString("\nNo crossovers this year.")
		return b.String()
	}
	sort.Slice(crosses, func(i, j int) bool { return crosses[i].Position < crosses[j].Position })

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Kind", "Date", "Value"})
	for _, c := range crosses {
		t.AppendRow(table.Row{string(c.Kind), c.Date, fmt.Sprintf("%.2f", c.Value)})
	}
	b.WriteString("\n<pre>")
	b.WriteString(html.EscapeString(t.Render()))
	b.WriteString("</pre>\n")

	if latest, ok := rep.Latest(); ok {
		b.WriteString(fmt.Sprintf("Last: %s\n", html.EscapeString(latest.Label())))
	}
	return b.String()
}

// FormatWindow summarizes a chart window as text.
func FormatWindow(symbol string, w model.ChartWindow) string {
	if !w.HasData() {
		return fmt.Sprintf("<b>%s</b> %s: %s", html.EscapeString(symbol), w.Kind, NotEnoughData)
	}
	first, last := w.Points[0].Y, w.Points[len(w.Points)-1].Y
	change := 0.0
	if first != 0 {
		change = (last - first) / first * 100
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🕒 <b>%s</b>\n", html.EscapeString(w.Title)))
	b.WriteString(fmt.Sprintf("Samples: %d\n", len(w.Points)))
	b.WriteString(fmt.Sprintf("Range: %.2f – %.2f\n", w.YBounds.Min, w.YBounds.Max))
	b.WriteString(fmt.Sprintf("First → last: %.2f → %.2f (%+.2f%%)\n", first, last, change))
	if len(w.XLabels) > 0 {
		b.WriteString(fmt.Sprintf("Axis: %s\n", html.EscapeString(strings.Join(w.XLabels, " · "))))
	}
	return b.String()
}

// FormatWatchlist lists the watched symbols.
func FormatWatchlist(symbols []string) string {
	if len(symbols) == 0 {
		return "📋 Watchlist is empty. Use /add SYMBOL."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 <b>Watchlist</b> (%d)\n", len(symbols)))
	for _, s := range symbols {
		b.WriteString("• " + html.EscapeString(s) + "\n")
	}
	return b.String()
}

// FormatQuote formats a price snapshot.
func FormatQuote(q *model.Quote) string {
	name := q.Name
	if name == "" {
		name = q.Symbol
	}
	return fmt.Sprintf("<b>%s</b> (%s)\nPrice: $%.2f (%+.2f%%)\nOpen: %.2f | Low: %.2f | High: %.2f",
		html.EscapeString(name), html.EscapeString(q.Symbol),
		q.Price, q.ChangePct, q.Open, q.DayLow, q.DayHigh)
}

// FormatAlert formats a newly recorded crossover.
func FormatAlert(evt *recorder.CrossoverEvent) string {
	icon := "🟢"
	if evt.Kind == model.CrossDeath {
		icon = "🔴"
	}
	return fmt.Sprintf("%s <b>%s</b> %s cross SMA%d/SMA%d on %s at %.2f",
		icon, html.EscapeString(evt.Symbol), strings.ToLower(string(evt.Kind)),
		evt.ShortPeriod, evt.LongPeriod, evt.Date, evt.Value)
}

// FormatScanSummary reports the outcome of a watchlist scan.
func FormatScanSummary(run *recorder.ScanRun) string {
	return fmt.Sprintf("🔎 <b>Scan finished</b>\nSymbols: %d | failed: %d | new crossovers: %d\nDuration: %s",
		run.Symbols, run.Failed, run.NewEvents, run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
}

// HelpText lists the supported commands.
const HelpText = `<b>Commands</b>
/watchlist - list watched symbols
/add SYM - watch a symbol
/remove SYM - stop watching a symbol
/quote SYM - latest price
/cross SYM - SMA crossovers this year
/chart SYM [intraday|month|year] - price window summary
/scan - scan the watchlist now`
