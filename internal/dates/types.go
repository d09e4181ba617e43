package dates

import "time"

// Layouts for literal dates.
const (
	// LiteralLayout is the form embedded in generated scripts, e.g. "18 July 2025".
	LiteralLayout = "2 January 2006"

	// ISOLayout is accepted verbatim on input.
	ISOLayout = "2006-01-02"
)

// Token is a normalized date expression.
type Token struct {
	// OriginalInput is the text the caller supplied
	OriginalInput string `json:"original_input"`

	// ParsedDate is the literal date: LiteralLayout, or the input itself
	// when it was strict ISO
	ParsedDate string `json:"parsed_date"`

	// DayOfWeek is the English weekday name of the parsed date
	DayOfWeek string `json:"day_of_week"`
}

// Period names accepted by Parser.DateRange.
type Period string

const (
	PeriodToday     Period = "today"
	PeriodTomorrow  Period = "tomorrow"
	PeriodThisWeek  Period = "this_week"
	PeriodNextWeek  Period = "next_week"
	PeriodLastWeek  Period = "last_week"
	PeriodThisMonth Period = "this_month"
	PeriodNextMonth Period = "next_month"
	PeriodLastMonth Period = "last_month"
)

// Periods returns every supported period name.
func Periods() []Period {
	return []Period{
		PeriodToday, PeriodTomorrow,
		PeriodThisWeek, PeriodNextWeek, PeriodLastWeek,
		PeriodThisMonth, PeriodNextMonth, PeriodLastMonth,
	}
}

// Range is an inclusive span of calendar days. Both ends are midnight in
// the clock's location.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days returns the number of days covered, counting both ends.
func (r Range) Days() int {
	return daysBetween(r.Start, r.End) + 1
}

// String formats the range as "YYYY-MM-DD..YYYY-MM-DD".
func (r Range) String() string {
	return r.Start.Format(ISOLayout) + ".." + r.End.Format(ISOLayout)
}
