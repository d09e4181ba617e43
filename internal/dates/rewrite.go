package dates

import (
	"regexp"
	"strconv"
	"time"
)

// rewrite handles one family of phrases before the natural-language engine
// sees them. A rule either replaces the phrase with an equivalent the engine
// understands, or resolves the date directly from today when the answer is
// a fixed calendar position.
type rewrite struct {
	pattern *regexp.Regexp
	replace string
	resolve func(today time.Time, m []string) time.Time
}

// rewrites are tried in order and the first match wins. All patterns are
// anchored and run against lower-cased, whitespace-collapsed input.
var rewrites = []rewrite{
	{
		pattern: regexp.MustCompile(`^(\d+) (day|week)s? from now$`),
		replace: "in $1 ${2}s",
	},
	{
		pattern: regexp.MustCompile(`^(?:in (\d+|a|an|one) months?|(\d+) months? from now|next month)$`),
		resolve: func(today time.Time, m []string) time.Time {
			return addMonthsClamped(today, monthCount(m[1]+m[2]))
		},
	},
	{
		pattern: regexp.MustCompile(`^next (week|year)$`),
		replace: "in 1 $1",
	},
	{
		pattern: regexp.MustCompile(`^(?:the )?day after tomorrow$`),
		replace: "in 2 days",
	},
	{
		pattern: regexp.MustCompile(`^end of (?:the |this )?week$`),
		resolve: func(today time.Time, _ []string) time.Time {
			return onOrAfter(today, time.Sunday)
		},
	},
	{
		pattern: regexp.MustCompile(`^end of (?:the |this )?month$`),
		resolve: func(today time.Time, _ []string) time.Time {
			return firstOfMonth(today).AddDate(0, 1, -1)
		},
	},
	{
		pattern: regexp.MustCompile(`^end of (?:the |this )?year$`),
		resolve: func(today time.Time, _ []string) time.Time {
			return time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, today.Location())
		},
	},
	{
		pattern: regexp.MustCompile(`^(?:beginning|start) of (?:the )?(?:next )?week$`),
		resolve: func(today time.Time, _ []string) time.Time {
			return after(today, time.Monday)
		},
	},
	{
		pattern: regexp.MustCompile(`^(?:beginning|start) of (?:the )?(?:next )?month$`),
		resolve: func(today time.Time, _ []string) time.Time {
			return firstOfMonth(today).AddDate(0, 1, 0)
		},
	},
	{
		pattern: regexp.MustCompile(`^(?:christmas|xmas)(?: day)?$`),
		resolve: func(today time.Time, _ []string) time.Time {
			return upcoming(today, time.December, 25)
		},
	},
	{
		pattern: regexp.MustCompile(`^new year(?:s|'s|’s)?(?: day)?$`),
		resolve: func(today time.Time, _ []string) time.Time {
			return upcoming(today, time.January, 1)
		},
	},
	// A weekday on its own is the next one strictly after today.
	{
		pattern: regexp.MustCompile(`^(?:this |coming |on )?(monday|mon|tuesday|tues|tue|wednesday|wed|thursday|thurs|thur|thu|friday|fri|saturday|sat|sunday|sun)$`),
		resolve: func(today time.Time, m []string) time.Time {
			return after(today, weekdays[m[1][:3]])
		},
	},
	// Always the following Monday, even midweek.
	{
		pattern: regexp.MustCompile(`^next (?:business day|weekday|work ?day)$`),
		resolve: func(today time.Time, _ []string) time.Time {
			return after(today, time.Monday)
		},
	},
	{
		pattern: regexp.MustCompile(`^(?:eod|end of (?:the )?day)$`),
		replace: "today 5pm",
	},
	{
		pattern: regexp.MustCompile(`^first thing(?: tomorrow| in the morning)?$`),
		replace: "tomorrow 9am",
	},
}

var weekdays = map[string]time.Weekday{
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
	"sun": time.Sunday,
}

// applyRewrites returns either a rewritten phrase for the engine or a
// resolved date.
func applyRewrites(phrase string, today time.Time) (string, time.Time, bool) {
	for _, r := range rewrites {
		m := r.pattern.FindStringSubmatch(phrase)
		if m == nil {
			continue
		}
		if r.resolve != nil {
			return "", r.resolve(today, m), true
		}
		return r.pattern.ReplaceAllString(phrase, r.replace), time.Time{}, false
	}
	return phrase, time.Time{}, false
}

// monthCount reads the month offset captured by the month rule. An empty
// capture comes from "next month".
func monthCount(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return 1
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// addMonthsClamped adds n months, clamping the day to the target month's
// length so 31 January plus one month is 28 or 29 February.
func addMonthsClamped(t time.Time, n int) time.Time {
	first := firstOfMonth(t).AddDate(0, n, 0)
	last := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

// onOrAfter returns the first wd on or after t.
func onOrAfter(t time.Time, wd time.Weekday) time.Time {
	return t.AddDate(0, 0, (int(wd)-int(t.Weekday())+7)%7)
}

// after returns the first wd strictly after t.
func after(t time.Time, wd time.Weekday) time.Time {
	return onOrAfter(t.AddDate(0, 0, 1), wd)
}

// upcoming returns month/day in the current year, or next year if that
// date has already passed.
func upcoming(today time.Time, month time.Month, day int) time.Time {
	t := time.Date(today.Year(), month, day, 0, 0, 0, 0, today.Location())
	if t.Before(today) {
		t = t.AddDate(1, 0, 0)
	}
	return t
}
