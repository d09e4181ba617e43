package dates

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"
)

var (
	isoPattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	isoShaped    = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`)
	slashPattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:/(\d{4}|\d{2}))?$`)
	spacePattern = regexp.MustCompile(`\s+`)
	monthPattern = regexp.MustCompile(`\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\b`)
	yearPattern  = regexp.MustCompile(`\b\d{4}\b`)
)

// Parser turns human date expressions into literal dates. It is safe for
// concurrent use.
type Parser struct {
	clock     Clock
	weekStart time.Weekday
	engine    *when.Parser
	logger    *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock sets the clock relative expressions are resolved against.
func WithClock(c Clock) Option {
	return func(p *Parser) {
		if c != nil {
			p.clock = c
		}
	}
}

// WithWeekStart sets the first day of the week used by DateRange.
func WithWeekStart(wd time.Weekday) Option {
	return func(p *Parser) {
		p.weekStart = wd
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewParser creates a Parser using the system clock and Sunday week start
// unless overridden.
func NewParser(opts ...Option) *Parser {
	// Numeric slash dates are read month first by slashDate, never by the
	// engine's day-first rule.
	engine := when.New(nil)
	engine.Add(en.All...)

	p := &Parser{
		clock:     SystemClock(),
		weekStart: time.Sunday,
		engine:    engine,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WeekStart returns the configured first day of the week.
func (p *Parser) WeekStart() time.Weekday {
	return p.weekStart
}

// Today returns midnight of the current day in the clock's location.
func (p *Parser) Today() time.Time {
	return dateOf(p.clock.Now())
}

// Parse normalizes input into a Token. It returns nil when input is empty,
// the literal "none", a malformed ISO date, or not understood.
func (p *Parser) Parse(input string) *Token {
	t, literal, ok := p.resolve(input)
	if !ok {
		return nil
	}
	return &Token{
		OriginalInput: input,
		ParsedDate:    literal,
		DayOfWeek:     t.Weekday().String(),
	}
}

// ParseAll parses every input and drops the ones that could not be parsed.
func (p *Parser) ParseAll(inputs []string) []Token {
	tokens := make([]Token, 0, len(inputs))
	for _, in := range inputs {
		if tok := p.Parse(in); tok != nil {
			tokens = append(tokens, *tok)
		}
	}
	return tokens
}

// FormatForScript returns the literal date for input, ready to embed in a
// generated script.
func (p *Parser) FormatForScript(input string) (string, bool) {
	tok := p.Parse(input)
	if tok == nil {
		return "", false
	}
	return tok.ParsedDate, true
}

// IsNone reports whether input deliberately means "no date".
func IsNone(input string) bool {
	trimmed := strings.TrimSpace(input)
	return trimmed == "" || strings.EqualFold(trimmed, "none")
}

// resolve returns the calendar day for input and its literal form.
func (p *Parser) resolve(input string) (time.Time, string, bool) {
	if IsNone(input) {
		return time.Time{}, "", false
	}
	trimmed := strings.TrimSpace(input)

	if isoPattern.MatchString(trimmed) {
		t, err := time.ParseInLocation(ISOLayout, trimmed, p.clock.Now().Location())
		if err != nil {
			return time.Time{}, "", false
		}
		return t, trimmed, true
	}
	if isoShaped.MatchString(trimmed) {
		return time.Time{}, "", false
	}

	var t time.Time
	var ok bool
	if m := slashPattern.FindStringSubmatch(trimmed); m != nil {
		t, ok = p.slashDate(m)
	} else {
		t, ok = p.natural(strings.ToLower(trimmed))
	}
	if !ok {
		return time.Time{}, "", false
	}
	t = dateOf(t)
	return t, t.Format(LiteralLayout), true
}

// natural resolves a lower-cased phrase through the rewrite rules and then
// the natural-language engine.
func (p *Parser) natural(phrase string) (time.Time, bool) {
	phrase = spacePattern.ReplaceAllString(phrase, " ")
	today := p.Today()

	phrase, resolved, done := applyRewrites(phrase, today)
	if done {
		return resolved, true
	}

	// Anchoring at noon keeps whole-day offsets clear of DST transitions.
	base := today.Add(12 * time.Hour)
	res, err := p.engine.Parse(phrase, base)
	if err != nil {
		p.logger.Debug("date engine failed", slog.String("phrase", phrase), slog.String("error", err.Error()))
		return time.Time{}, false
	}
	// A hit on a fragment, such as the year of "2025-7-18", is a miss.
	if res == nil || res.Index != 0 || len(strings.TrimSpace(res.Text)) != len(phrase) {
		return time.Time{}, false
	}

	t := res.Time
	// Month names without a year mean the next occurrence.
	if monthPattern.MatchString(phrase) && !yearPattern.MatchString(phrase) && dateOf(t).Before(today) {
		t = t.AddDate(1, 0, 0)
	}
	return t, true
}

// slashDate reads month/day[/year]. Two-digit years are in the 2000s and a
// date without a year is its next occurrence, today included.
func (p *Parser) slashDate(m []string) (time.Time, bool) {
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	today := p.Today()

	year := today.Year()
	if m[3] != "" {
		year, _ = strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			year += 2000
		}
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, today.Location())
	if m[3] == "" && t.Before(today) {
		t = time.Date(year+1, time.Month(month), day, 0, 0, 0, 0, today.Location())
	}
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b, ignoring time of day and
// DST.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
