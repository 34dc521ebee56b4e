// Package calendar resolves which calendar day counts as the current
// trading day for US equity market data.
package calendar

import (
	"time"
)

// Exchange approximates the exchange timezone as a fixed UTC-5 offset.
// Daylight saving time is not applied.
var Exchange = time.FixedZone("UTC-5", -5*60*60)

const (
	openHour   = 9
	openMinute = 30

	// SessionMinutes is the length of the regular session, 09:30 to 16:00.
	SessionMinutes = 390

	// DateLayout is the ISO date format used for provider queries.
	DateLayout = "2006-01-02"
)

// daysBackToFriday is how many days before a weekday the previous Friday
// falls. Friday maps to the Friday one week earlier.
var daysBackToFriday = map[time.Weekday]int{
	time.Monday:    3,
	time.Tuesday:   4,
	time.Wednesday: 5,
	time.Thursday:  6,
	time.Friday:    7,
	time.Saturday:  1,
	time.Sunday:    2,
}

// MostRecentTradingDay returns midnight (exchange time) of the most recent
// day the market has been open as of now. Weekends resolve to Friday; any
// time before the 09:30 open resolves to the previous session.
func MostRecentTradingDay(now time.Time) time.Time {
	local := now.In(Exchange)
	today := midnight(local)

	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return LastFriday(now)
	case time.Monday:
		if beforeOpen(local) {
			return LastFriday(now)
		}
		return today
	default:
		if beforeOpen(local) {
			return today.AddDate(0, 0, -1)
		}
		return today
	}
}

// LastFriday steps back from now to a Friday using the fixed per-weekday
// offset table.
func LastFriday(now time.Time) time.Time {
	local := now.In(Exchange)
	return midnight(local).AddDate(0, 0, -daysBackToFriday[local.Weekday()])
}

// SessionOpen returns 09:30 exchange time on the given day.
func SessionOpen(day time.Time) time.Time {
	d := day.In(Exchange)
	return time.Date(d.Year(), d.Month(), d.Day(), openHour, openMinute, 0, 0, Exchange)
}

// FormatDate renders a day as YYYY-MM-DD in exchange time.
func FormatDate(day time.Time) string {
	return day.In(Exchange).Format(DateLayout)
}

func beforeOpen(local time.Time) bool {
	return local.Before(SessionOpen(local))
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
