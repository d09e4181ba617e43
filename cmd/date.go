package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/things3-mcp/internal/config"
	"github.com/teemow/things3-mcp/internal/dates"
)

func newDateCmd() *cobra.Command {
	defaults := config.DefaultConfig()
	var period string

	cmd := &cobra.Command{
		Use:   "date [expression]",
		Short: "Preview how a date expression is normalized",
		Long: `Show the literal date a task tool would send to Things for an expression
such as "next friday" or "end of month". With --range, print the first and
last day of a named period instead.`,
		Example: `  things3-mcp date next friday
  things3-mcp date --range this_week --week-start monday`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			weekStart, err := cfg.WeekStartDay()
			if err != nil {
				return err
			}
			parser := dates.NewParser(dates.WithWeekStart(weekStart))
			return runDate(cmd.OutOrStdout(), parser, strings.Join(args, " "), period)
		},
	}

	var names []string
	for _, p := range dates.Periods() {
		names = append(names, string(p))
	}
	cmd.Flags().StringVar(&period, "range", "", "Print the range of a period: "+strings.Join(names, ", "))
	addWeekStartFlag(cmd.Flags(), defaults)

	return cmd
}

func runDate(w io.Writer, parser *dates.Parser, expr, period string) error {
	if strings.TrimSpace(expr) == "" && period == "" {
		return fmt.Errorf("expected a date expression or --range")
	}

	if period != "" {
		r, ok := parser.DateRange(dates.Period(strings.ToLower(period)))
		if !ok {
			return fmt.Errorf("unknown period %q", period)
		}
		fmt.Fprintf(w, "%s: %s (%d days)\n", strings.ToLower(period), r, r.Days())
	}

	if strings.TrimSpace(expr) == "" {
		return nil
	}
	if dates.IsNone(expr) {
		fmt.Fprintln(w, "none: no date")
		return nil
	}

	tok := parser.Parse(expr)
	if tok == nil {
		return fmt.Errorf("could not understand date %q", expr)
	}
	fmt.Fprintf(w, "%s: %s (%s)\n", tok.OriginalInput, tok.ParsedDate, tok.DayOfWeek)
	if relative, ok := parser.RelativeDescription(expr); ok {
		fmt.Fprintf(w, "relative: %s\n", relative)
	}
	if parser.IsOverdue(expr) {
		fmt.Fprintln(w, "overdue: yes")
	}
	return nil
}
