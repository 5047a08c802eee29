package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/jwulff/glycemia-go/internal/domain"
	"github.com/jwulff/glycemia-go/internal/render"
	"github.com/jwulff/glycemia-go/internal/stats"
	"github.com/jwulff/glycemia-go/internal/tracker"
)

// Size of the text-mode chart in characters.
const (
	asciiCols = 72
	asciiRows = 18
)

type chartOptions struct {
	period period
	days   int
	out    string
	width  int
	height int
	ascii  bool
}

func newChartCmd(a *app) *cobra.Command {
	var opts chartOptions

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Draw the glucose trend chart",
		RunE: a.withController(func(cmd *cobra.Command, args []string, c *tracker.Controller) error {
			readings, err := opts.selectReadings(c.State(), a)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(readings) == 0 {
				fmt.Fprintln(out, "No readings to chart.")
				return nil
			}

			if opts.out == "" && !opts.ascii {
				opts.ascii = true
			}
			if opts.ascii {
				fmt.Fprint(out, render.ASCIIChart(readings, asciiCols, asciiRows))
				fmt.Fprintln(out, "Legend: L=low N=normal H=high V=very high")
			}
			if opts.out != "" {
				cfg := render.NewChartConfig(a.cfg.Chart.Width, a.cfg.Chart.Height)
				if opts.width > 0 {
					cfg.Width = opts.width
				}
				if opts.height > 0 {
					cfg.Height = opts.height
				}
				if err := writeChartPNG(opts.out, readings, cfg, render.PaletteFor(c.State().Theme)); err != nil {
					return err
				}
				fmt.Fprintf(out, "Chart saved to %s\n", opts.out)
			}
			return nil
		}),
	}

	addPeriodFlags(cmd.Flags(), &opts.period)
	cmd.Flags().IntVar(&opts.days, "days", 0, "Only the last N days (0 for all readings)")
	cmd.Flags().StringVar(&opts.out, "out", "", "Write the chart as a PNG file")
	cmd.Flags().IntVar(&opts.width, "width", 0, "PNG width in pixels (default from config)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "PNG height in pixels (default from config)")
	cmd.Flags().BoolVar(&opts.ascii, "ascii", false, "Print a text chart (default when --out is not set)")
	cmd.MarkFlagsMutuallyExclusive("days", "from")
	cmd.MarkFlagsMutuallyExclusive("days", "to")
	return cmd
}

func (o chartOptions) selectReadings(s tracker.State, a *app) ([]domain.GlucoseReading, error) {
	readings := s.Records.Readings
	switch {
	case o.period.set():
		if err := o.period.validate(); err != nil {
			return nil, err
		}
		return stats.FilterPeriod(readings, o.period.from, o.period.to), nil
	case o.days < 0:
		return nil, fmt.Errorf("--days must be >= 0")
	case o.days > 0:
		return stats.LastDays(readings, o.days, a.now().In(a.loc)), nil
	default:
		return readings, nil
	}
}

// writeChartPNG renders readings and replaces path atomically.
func writeChartPNG(path string, readings []domain.GlucoseReading, cfg render.ChartConfig, p render.Palette) error {
	data, err := render.RenderPNG(readings, cfg, p)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create chart dir: %w", err)
		}
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}
