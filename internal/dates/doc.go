// Package dates normalizes human date expressions ("tomorrow", "in 3 days",
// "end of month", "2025-07-18") into the literal dates embedded in Things
// scripts.
//
// Parsing is anchored to an injected Clock. Fixed calendar positions such
// as month ends and holidays are computed directly; everything else is
// handed to the github.com/olebedev/when engine after a set of ordered
// rewrites. Strict ISO dates pass through verbatim.
//
//	p := dates.NewParser(dates.WithClock(dates.FixedClock(now)))
//	tok := p.Parse("next business day")
//	// tok.ParsedDate == "21 July 2025", tok.DayOfWeek == "Monday"
package dates
