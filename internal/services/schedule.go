package services

import (
	"time"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/models"
)

// Weekday name to numeric index, Sunday = 0 through Saturday = 6.
// Accent-stripped spellings are accepted; older records carry them.
var weekdayIndexes = map[string]int{
	models.DayLunes:     1,
	models.DayMartes:    2,
	models.DayMiercoles: 3,
	"Miercoles":         3,
	models.DayJueves:    4,
	models.DayViernes:   5,
	models.DaySabado:    6,
	"Sabado":            6,
}

func weekdayIndex(day string) (int, bool) {
	index, ok := weekdayIndexes[day]
	return index, ok
}

var dayNames = map[time.Weekday]string{
	time.Monday:    models.DayLunes,
	time.Tuesday:   models.DayMartes,
	time.Wednesday: models.DayMiercoles,
	time.Thursday:  models.DayJueves,
	time.Friday:    models.DayViernes,
	time.Saturday:  models.DaySabado,
}

// DayName returns the route vocabulary name for a weekday, or "" for
// Sunday, which has no route.
func DayName(weekday time.Weekday) string {
	return dayNames[weekday]
}

// monFirstIndex maps a day name onto the Monday-first 0..5 ordering the
// week view uses.
func monFirstIndex(day string) (int, bool) {
	index, ok := weekdayIndexes[day]
	if !ok {
		return 0, false
	}
	return index - 1, true
}

// todayMonFirst is today's slot in the Monday-first ordering. Sunday has
// no slot and yields -1, which makes every route day count as upcoming.
func todayMonFirst(now time.Time) int {
	return int(now.Weekday()) - 1
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func atNoon(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from one local date to another.
// Re-anchored in UTC so 23-hour clock-change days do not undercount.
func daysBetween(from, to time.Time) int {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// NextVisitDate computes when the client is next due for the given day,
// or nil when the client has no resolvable schedule. Day-level math runs
// at local midnight; the returned value sits at noon so a timezone-naive
// consumer cannot roll it across a date boundary.
func NextVisitDate(client models.Client, forDay string, now time.Time) *time.Time {
	// A specific date wins over all weekday logic, whatever the frequency.
	if client.SpecificDate != nil {
		date := atNoon(*client.SpecificDate)
		return &date
	}

	if client.Frequency == models.FrequencyOnce {
		return nil
	}

	day := forDay
	if day == "" {
		day = client.VisitDay
	}
	target, ok := weekdayIndex(day)
	if !ok {
		return nil
	}

	today := startOfDay(now)
	diff := (target - int(now.Weekday()) + 7) % 7
	next := today.AddDate(0, 0, diff)

	// Phase the multi-week cycles against the last confirmed visit.
	// Weekly and once carry no correction.
	interval := client.Frequency.IntervalWeeks()
	if interval > 1 && client.LastVisited != nil {
		lastVisited := startOfDay(*client.LastVisited)
		if !lastVisited.Before(today) {
			// Visited today or pre-marked ahead: skip a full cycle so the
			// client does not reappear on the very next occurrence.
			next = next.AddDate(0, 0, interval*7)
		} else {
			gapDays := daysBetween(lastVisited, next)
			if gapDays < interval*7-3 && gapDays < 7 {
				// The naive slot lands too close to the last visit for this
				// cadence; defer to the following week of the cycle.
				next = next.AddDate(0, 0, interval*7-7)
			}
		}
	}

	date := atNoon(next)
	return &date
}
