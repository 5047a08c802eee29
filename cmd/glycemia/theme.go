package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwulff/glycemia-go/internal/domain"
	"github.com/jwulff/glycemia-go/internal/tracker"
)

func newThemeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "theme [name]",
		Short: "Show or set the color theme",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.withController(func(cmd *cobra.Command, args []string, c *tracker.Controller) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				current := c.State().Theme
				for _, t := range domain.Themes {
					marker := " "
					if t == current {
						marker = "*"
					}
					fmt.Fprintf(out, "%s %s\n", marker, t)
				}
				return nil
			}

			theme, err := c.SetTheme(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Theme set to %s\n", theme)
			return nil
		}),
	}
}
