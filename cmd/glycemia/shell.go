package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jwulff/glycemia-go/internal/render"
	"github.com/jwulff/glycemia-go/internal/tracker"
)

func newShellCmd(a *app) *cobra.Command {
	var chartOut string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive prompt where every line runs one command",
		RunE: a.withController(func(cmd *cobra.Command, args []string, c *tracker.Controller) error {
			sh := &shell{app: a, chartOut: chartOut}
			return sh.run(cmd, c)
		}),
	}

	cmd.Flags().StringVar(&chartOut, "chart-out", "", "Keep a PNG chart at this path up to date")
	return cmd
}

// shell is the interactive command loop.
type shell struct {
	app      *app
	chartOut string
	liner    *liner.State
}

// historyFile returns the path to the history file.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".glycemia_history")
}

func (s *shell) run(cmd *cobra.Command, c *tracker.Controller) error {
	out := cmd.OutOrStdout()

	s.liner = liner.NewLiner()
	defer s.liner.Close()

	s.liner.SetCtrlCAborts(true)
	s.liner.SetCompleter(s.completer)

	if f, err := os.Open(historyFile()); err == nil {
		s.liner.ReadHistory(f)
		f.Close()
	}

	// Deletes confirm through the line editor while the shell runs
	prevConfirm := s.app.confirm
	s.app.confirm = s.confirm
	defer func() { s.app.confirm = prevConfirm }()

	if s.chartOut != "" {
		c.Subscribe(tracker.TopicReadings, s.redrawChart)
		c.Subscribe(tracker.TopicTheme, s.redrawChart)
		s.redrawChart(cmd.Context(), c.State())
	}

	fmt.Fprintf(out, "glycemia %s - %d readings, %d goals, %d foods\n", version,
		len(c.State().Records.Readings), len(c.State().Records.Goals), len(c.State().Records.Foods))
	fmt.Fprintln(out, "Type 'help' for available commands.")
	fmt.Fprintln(out)

	for {
		line, err := s.liner.Prompt("glycemia> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(out, "\nBye!")
				break
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s.liner.AppendHistory(line)

		args, err := splitArgs(line)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}

		switch strings.ToLower(args[0]) {
		case "exit", "quit", "q":
			fmt.Fprintln(out, "Bye!")
			s.saveHistory()
			return nil
		case "shell":
			fmt.Fprintln(out, "Already in the shell.")
			continue
		case "help", "?":
			args = []string{"--help"}
		}

		if err := s.execute(cmd, args); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}

		if cmd.Context().Err() != nil {
			break
		}
	}

	s.saveHistory()
	return nil
}

// execute runs one line through a fresh command tree sharing the open tracker.
func (s *shell) execute(parent *cobra.Command, args []string) error {
	root := newRootCmd(s.app)
	root.SetArgs(args)
	root.SetOut(parent.OutOrStdout())
	root.SetErr(parent.ErrOrStderr())
	return root.ExecuteContext(parent.Context())
}

func (s *shell) confirm(cmd *cobra.Command, question string) (bool, error) {
	answer, err := s.liner.Prompt(question + " [y/N] ")
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, fmt.Errorf("read answer: %w", err)
	}
	return isYes(answer), nil
}

// redrawChart keeps the chart file in step with the readings and theme.
// With no readings left the file is removed so no stale chart remains.
func (s *shell) redrawChart(ctx context.Context, st tracker.State) {
	readings := st.Records.Readings
	if len(readings) == 0 {
		if err := os.Remove(s.chartOut); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.app.logger.Warn("chart remove failed", zap.String("path", s.chartOut), zap.Error(err))
			return
		}
		s.app.logger.Debug("chart cleared", zap.String("path", s.chartOut))
		return
	}
	cfg := render.NewChartConfig(s.app.cfg.Chart.Width, s.app.cfg.Chart.Height)
	if err := writeChartPNG(s.chartOut, readings, cfg, render.PaletteFor(st.Theme)); err != nil {
		s.app.logger.Warn("chart redraw failed", zap.String("path", s.chartOut), zap.Error(err))
		return
	}
	s.app.logger.Debug("chart redrawn", zap.String("path", s.chartOut), zap.Int("readings", len(readings)))
}

// saveHistory persists command history to disk.
func (s *shell) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			s.liner.WriteHistory(f)
			f.Close()
		}
	}
}

// completer provides tab completion for top-level commands.
func (s *shell) completer(line string) []string {
	commands := []string{"help", "exit", "quit"}
	for _, c := range newRootCmd(s.app).Commands() {
		if c.Name() != "shell" {
			commands = append(commands, c.Name())
		}
	}

	var completions []string
	lower := strings.ToLower(line)
	for _, c := range commands {
		if strings.HasPrefix(c, lower) {
			completions = append(completions, c)
		}
	}
	return completions
}
