package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/jwulff/glycemia-go/internal/domain"
	"github.com/jwulff/glycemia-go/internal/tracker"
)

func newBackupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export and import all records as JSON",
	}
	cmd.AddCommand(newBackupExportCmd(a), newBackupImportCmd(a))
	return cmd
}

func newBackupExportCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every record to a JSON file",
		RunE: a.withController(func(cmd *cobra.Command, args []string, c *tracker.Controller) error {
			if out == "" {
				out = fmt.Sprintf("glycemia-backup-%s.json", a.now().In(a.loc).Format(domain.DateLayout))
			}
			data, err := tracker.EncodeBackup(c.State().Records)
			if err != nil {
				return err
			}
			if err := atomic.WriteFile(out, bytes.NewReader(data)); err != nil {
				return fmt.Errorf("write backup: %w", err)
			}
			r := c.State().Records
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d readings, %d goals and %d foods to %s\n",
				len(r.Readings), len(r.Goals), len(r.Foods), out)
			return nil
		}),
	}

	cmd.Flags().StringVar(&out, "out", "", "Backup file (default glycemia-backup-YYYY-MM-DD.json)")
	return cmd
}

func newBackupImportCmd(a *app) *cobra.Command {
	var (
		in     string
		mode   string
		legacy bool
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load records from a backup or a browser export",
		RunE: a.withController(func(cmd *cobra.Command, args []string, c *tracker.Controller) error {
			m, ok := tracker.ParseImportMode(mode)
			if !ok {
				return fmt.Errorf("unknown import mode %q (expected merge or replace)", mode)
			}
			data, err := os.ReadFile(in)
			if err != nil {
				return fmt.Errorf("read backup: %w", err)
			}

			var records domain.Records
			if legacy {
				records, err = tracker.ParseLegacy(data, a.loc)
			} else {
				records, err = tracker.DecodeBackup(data)
			}
			if err != nil {
				return err
			}

			if m == tracker.ImportReplace && !yes {
				ok, err := a.confirm(cmd, "Replace all existing records?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			res, err := c.Import(cmd.Context(), records, m)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d readings, %d goals and %d foods\n", res.Readings, res.Goals, res.Foods)
			return nil
		}),
	}

	cmd.Flags().StringVar(&in, "in", "", "File to import")
	cmd.Flags().StringVar(&mode, "mode", string(tracker.ImportMerge), "Import mode (merge, replace)")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "Read the browser localStorage export format")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Replace without asking")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
