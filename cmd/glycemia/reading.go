package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jwulff/glycemia-go/internal/bloodsugar"
	"github.com/jwulff/glycemia-go/internal/domain"
	"github.com/jwulff/glycemia-go/internal/tracker"
)

func newReadingCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reading",
		Short: "Record and browse glucose readings",
	}
	cmd.AddCommand(newReadingAddCmd(a), newReadingListCmd(a), newReadingDeleteCmd(a))
	return cmd
}

func newReadingAddCmd(a *app) *cobra.Command {
	var in tracker.ReadingInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a glucose reading",
		RunE: a.withController(func(cmd *cobra.Command, args []string, c *tracker.Controller) error {
			// Date and time default to now, as the entry form does
			now := a.now().In(a.loc)
			if in.Date == "" {
				in.Date = now.Format(domain.DateLayout)
			}
			if in.Time == "" {
				in.Time = now.Format(domain.TimeLayout)
			}

			r, notice, err := c.AddReading(cmd.Context(), in)
			if err != nil {
				return err
			}
			band := bloodsugar.Classify(r.Value)
			fmt.Fprintf(cmd.OutOrStdout(), "Added reading %d: %d mg/dL (%.1f mmol/L) on %s at %s, %s\n",
				r.ID, r.Value, bloodsugar.MgdlToMmol(r.Value), r.Date, r.Time, band.Label())
			if notice != nil {
				fmt.Fprintln(cmd.OutOrStdout(), notice.Message)
			}
			return nil
		}),
	}

	cmd.Flags().IntVar(&in.Value, "value", 0, "Glucose value in mg/dL")
	cmd.Flags().StringVar(&in.Date, "date", "", "Date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&in.Time, "time", "", "Time HH:MM (default now)")
	cmd.Flags().StringVar(&in.Note, "note", "", "Optional note")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func newReadingListCmd(a *app) *cobra.Command {
	var date, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List readings, newest first",
		RunE: a.withController(func(cmd *cobra.Command, args []string, c *tracker.Controller) error {
			filter := tracker.HistoryFilter{Date: date}
			if status != "" {
				band, ok := bloodsugar.ParseBand(status)
				if !ok {
					return fmt.Errorf("unknown status %q (expected %s)", status, bandNames())
				}
				filter.Band = band
			}

			rows := tracker.History(c.State(), filter)
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No readings found.")
				return nil
			}
			fmt.Fprintln(out, "ID\tDATE\tTIME\tMG/DL\tMMOL/L\tSTATUS\tNOTE")
			for _, row := range rows {
				r := row.Reading
				fmt.Fprintf(out, "%d\t%s\t%s\t%d\t%.1f\t%s\t%s\n",
					r.ID, r.Date, r.Time, r.Value, bloodsugar.MgdlToMmol(r.Value), row.Band.Label(), orDash(r.Note))
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&date, "date", "", "Only readings on this date YYYY-MM-DD")
	cmd.Flags().StringVar(&status, "status", "", "Only readings with this status ("+bandNames()+")")
	return cmd
}

func bandNames() string {
	names := make([]string, len(bloodsugar.Bands))
	for i, b := range bloodsugar.Bands {
		names[i] = string(b)
	}
	return strings.Join(names, ", ")
}

func newReadingDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a reading",
		Args:  cobra.ExactArgs(1),
		RunE: a.withController(func(cmd *cobra.Command, args []string, c *tracker.Controller) error {
			id, err := parseIDArg("reading id", args[0])
			if err != nil {
				return err
			}
			if !yes {
				ok, err := a.confirm(cmd, "Are you sure you want to delete this reading?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := c.DeleteReading(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted reading %d\n", id)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}
