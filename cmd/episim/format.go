package main

import (
	"fmt"
	"io"

	"github.com/ChicagoDave/episim/pkg/sim"
	"github.com/ChicagoDave/episim/pkg/validation"
)

func printValidationReport(w io.Writer, r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  [%s] %s\n", e.Level, e.Message)
			if e.Path != "" {
				fmt.Fprintf(w, "    -> %s = %v\n", e.Path, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Fprintf(w, "    expected: %s\n", e.Expected)
			}
			for _, s := range e.Suggestions {
				fmt.Fprintf(w, "    * %s\n", s)
			}
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "WARNINGS (%d):\n", len(r.Warnings))
		for _, x := range r.Warnings {
			fmt.Fprintf(w, "  [%s] %s\n", x.Level, x.Message)
			if x.Path != "" {
				fmt.Fprintf(w, "    -> %s = %v\n", x.Path, x.ActualValue)
			}
			if x.Expected != "" {
				fmt.Fprintf(w, "    expected: %s\n", x.Expected)
			}
			for _, s := range x.Suggestions {
				fmt.Fprintf(w, "    * %s\n", s)
			}
		}
		fmt.Fprintln(w)
	}

	if len(r.Info) > 0 {
		fmt.Fprintf(w, "INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Fprintf(w, "  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Fprintln(w)
	}

	if r.Valid {
		fmt.Fprintf(w, "Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Fprintf(w, "Result: INVALID (%s)\n", r.Summary)
	}
}

func printRunReport(w io.Writer, st sim.Status) {
	fmt.Fprintf(w, "Run %s\n", st.RunID)
	fmt.Fprintln(w, "==========================================")
	fmt.Fprintf(w, "  Day %d, %02d:00 after %d frames\n", st.Day, st.Hour, st.Frames)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-10s %8s %8s\n", "State", "Agents", "Share")
	fmt.Fprintf(w, "%-10s %8s %8s\n", "----------", "--------", "--------")
	rows := []struct {
		label string
		n     int
	}{
		{"Healthy", st.Counts.Healthy},
		{"Infected", st.Counts.Infected},
		{"Immune", st.Counts.Immune},
		{"Dead", st.Counts.Dead},
		{"TOTAL", st.Counts.Total()},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%-10s %8d %8s\n", row.label, row.n, formatPercent(row.n, st.Population))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Peak infected: %d (%s) on day %d at %02d:00\n",
		st.Peak.Infected, formatPercent(st.Peak.Infected, st.Population), st.Peak.Day, st.Peak.Hour)
}

func formatPercent(n, total int) string {
	if total <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(n)/float64(total))
}
