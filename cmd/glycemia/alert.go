package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwulff/glycemia-go/internal/tracker"
)

func newAlertCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Low glucose alert settings",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "Show the message a low glucose alert would send",
		RunE: a.withController(func(cmd *cobra.Command, args []string, c *tracker.Controller) error {
			n, err := c.TestAlert()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n.Message)
			return nil
		}),
	})
	return cmd
}
