package dates

import (
	"fmt"
	"math"
	"time"
)

// DateRange returns the inclusive span for a named period relative to today.
// Weeks begin on the configured week start.
func (p *Parser) DateRange(period Period) (Range, bool) {
	today := p.Today()
	weekStart := today.AddDate(0, 0, -((int(today.Weekday()) - int(p.weekStart) + 7) % 7))

	switch period {
	case PeriodToday:
		return Range{Start: today, End: today}, true
	case PeriodTomorrow:
		t := today.AddDate(0, 0, 1)
		return Range{Start: t, End: t}, true
	case PeriodThisWeek:
		return weekRange(weekStart), true
	case PeriodNextWeek:
		return weekRange(weekStart.AddDate(0, 0, 7)), true
	case PeriodLastWeek:
		return weekRange(weekStart.AddDate(0, 0, -7)), true
	case PeriodThisMonth:
		return monthRange(firstOfMonth(today)), true
	case PeriodNextMonth:
		return monthRange(firstOfMonth(today).AddDate(0, 1, 0)), true
	case PeriodLastMonth:
		return monthRange(firstOfMonth(today).AddDate(0, -1, 0)), true
	default:
		return Range{}, false
	}
}

func weekRange(start time.Time) Range {
	return Range{Start: start, End: start.AddDate(0, 0, 6)}
}

func monthRange(first time.Time) Range {
	return Range{Start: first, End: first.AddDate(0, 1, -1)}
}

// DaysFromToday returns the signed number of days from today to the date
// input refers to.
func (p *Parser) DaysFromToday(input string) (int, bool) {
	t, _, ok := p.resolve(input)
	if !ok {
		return 0, false
	}
	return daysBetween(p.Today(), t), true
}

// IsOverdue reports whether input refers to a day before today.
func (p *Parser) IsOverdue(input string) bool {
	d, ok := p.DaysFromToday(input)
	return ok && d < 0
}

// IsToday reports whether input refers to today.
func (p *Parser) IsToday(input string) bool {
	d, ok := p.DaysFromToday(input)
	return ok && d == 0
}

// DueWithinDays reports whether input falls between today and today+days,
// both inclusive.
func (p *Parser) DueWithinDays(input string, days int) bool {
	d, ok := p.DaysFromToday(input)
	return ok && d >= 0 && d <= days
}

// RelativeDescription describes input relative to today, e.g. "tomorrow"
// or "3 days ago".
func (p *Parser) RelativeDescription(input string) (string, bool) {
	d, ok := p.DaysFromToday(input)
	if !ok {
		return "", false
	}
	return Describe(d), true
}

// Describe buckets a signed day offset into a short phrase.
func Describe(days int) string {
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "yesterday"
	case days >= 2 && days <= 6:
		return fmt.Sprintf("in %d days", days)
	case days <= -2 && days >= -6:
		return fmt.Sprintf("%d days ago", -days)
	case days >= 7 && days <= 13:
		return "next week"
	case days <= -7 && days >= -13:
		return "last week"
	case days > 0:
		return fmt.Sprintf("in %d weeks", int(math.Round(float64(days)/7)))
	default:
		return fmt.Sprintf("%d weeks ago", int(math.Round(float64(-days)/7)))
	}
}
