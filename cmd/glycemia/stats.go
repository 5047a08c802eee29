package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwulff/glycemia-go/internal/tracker"
)

func newStatsCmd(a *app) *cobra.Command {
	var p period

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the glycemic index for a period",
		RunE: a.withController(func(cmd *cobra.Command, args []string, c *tracker.Controller) error {
			if err := p.validate(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			v, ok := tracker.Index(c.State(), p.from, p.to)
			if !ok {
				fmt.Fprintln(out, "No readings found in the selected period.")
				return nil
			}

			s := v.Summary
			fmt.Fprintf(out, "Period: %s to %s\n", v.Start, v.End)
			fmt.Fprintf(out, "Readings: %d\n", s.Total)
			fmt.Fprintf(out, "Mean: %.1f mg/dL\n", s.RoundedMean())
			fmt.Fprintf(out, "Min: %d mg/dL\n", s.Min)
			fmt.Fprintf(out, "Max: %d mg/dL\n", s.Max)
			fmt.Fprintf(out, "Low: %.1f%% (%d)\n", s.LowPercent, s.Low)
			fmt.Fprintf(out, "In range: %.1f%% (%d)\n", s.NormalPercent, s.Normal)
			fmt.Fprintf(out, "High: %.1f%% (%d)\n", s.HighPercent, s.High)
			fmt.Fprintf(out, "Control: %s\n", v.Control.Label())

			if len(v.Recommendations) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Recommendations")
				for _, r := range v.Recommendations {
					fmt.Fprintf(out, "  - %s\n", r)
				}
			}
			return nil
		}),
	}

	addPeriodFlags(cmd.Flags(), &p)
	return cmd
}
