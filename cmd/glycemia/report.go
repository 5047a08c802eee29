package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jwulff/glycemia-go/internal/report"
	"github.com/jwulff/glycemia-go/internal/tracker"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		p      period
		kind   string
		format string
		dir    string
	)

	kinds := make([]string, len(report.Kinds))
	for i, k := range report.Kinds {
		kinds[i] = string(k)
	}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export a report for a period as PDF or XLSX",
		RunE: a.withController(func(cmd *cobra.Command, args []string, c *tracker.Controller) error {
			if err := p.validate(); err != nil {
				return err
			}
			k, ok := report.ParseKind(kind)
			if !ok {
				return fmt.Errorf("unknown report kind %q (expected %s)", kind, strings.Join(kinds, ", "))
			}

			// An unknown format leaves the renderer nil and the export fails cleanly
			renderer, _ := report.RendererFor(format)
			doc := report.Compose(c.State().Records, report.Request{Start: p.from, End: p.to, Kind: k}, a.now())
			path, err := report.NewExporter(renderer, a.logger).Export(doc, dir)
			if err != nil {
				return fmt.Errorf("export %s report: %w", format, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report saved to %s\n", path)
			return nil
		}),
	}

	addPeriodFlags(cmd.Flags(), &p)
	cmd.Flags().StringVar(&kind, "kind", string(report.KindComplete), "Report kind ("+strings.Join(kinds, ", ")+")")
	cmd.Flags().StringVar(&format, "format", "pdf", "Output format (pdf, xlsx)")
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to write the report to")
	return cmd
}
