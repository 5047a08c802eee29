package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jwulff/glycemia-go/internal/config"
	"github.com/jwulff/glycemia-go/internal/logging"
	"github.com/jwulff/glycemia-go/internal/storage/sqlite"
	"github.com/jwulff/glycemia-go/internal/tracker"
)

const version = "0.1.0-dev"

// rootFlags are the persistent flags. Empty values leave the config untouched.
type rootFlags struct {
	db        string
	config    string
	logLevel  string
	logFormat string
}

// app is the state shared by every command of one process.
type app struct {
	flags rootFlags
	env   []string
	now   func() time.Time

	// confirm asks a yes/no question. The shell swaps in its line editor.
	confirm func(cmd *cobra.Command, question string) (bool, error)

	cfg    config.Config
	loc    *time.Location
	logger *zap.Logger
	store  *sqlite.Store
	ctrl   *tracker.Controller
}

func newApp(in io.Reader, env []string) *app {
	a := &app{env: env, now: time.Now}
	reader := bufio.NewReader(in)
	a.confirm = func(cmd *cobra.Command, question string) (bool, error) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return false, fmt.Errorf("read answer: %w", err)
		}
		return isYes(line), nil
	}
	return a
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// run builds the command tree, executes args and releases the database.
func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer, env []string) error {
	return newApp(in, env).execute(ctx, args, out, errOut)
}

func (a *app) execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "glycemia",
		Short:         "glycemia tracks blood glucose, food and goals from your terminal",
		Long:          "glycemia is a local-first tracker for glucose readings, food intake and care goals, with charts and printable reports.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.db, "db", "", "Path to SQLite database")
	pf.StringVar(&a.flags.config, "config", "", "Path to JSONC config file")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "Log format (console, json)")

	root.AddCommand(
		newReadingCmd(a),
		newGoalCmd(a),
		newFoodCmd(a),
		newStatsCmd(a),
		newChartCmd(a),
		newReportCmd(a),
		newThemeCmd(a),
		newAlertCmd(a),
		newBackupCmd(a),
		newShellCmd(a),
	)
	return root
}

// withController opens the tracker on first use and then runs fn.
func (a *app) withController(fn func(cmd *cobra.Command, args []string, c *tracker.Controller) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.open(cmd.Context()); err != nil {
			return err
		}
		return fn(cmd, args, a.ctrl)
	}
}

func (a *app) open(ctx context.Context) error {
	if a.ctrl != nil {
		return nil
	}

	cfg, loaded, err := config.Load(config.Options{Path: a.flags.config, DotEnv: ".env", Env: a.env})
	if err != nil {
		return err
	}
	if a.flags.db != "" {
		cfg.DBPath = a.flags.db
	}
	if a.flags.logLevel != "" {
		cfg.Log.Level = a.flags.logLevel
	}
	if a.flags.logFormat != "" {
		cfg.Log.Format = a.flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("create database dir: %w", err)
	}
	store, err := sqlite.NewFileStore(cfg.DBPath)
	if err != nil {
		return err
	}

	state, err := tracker.Load(ctx, store)
	if err != nil {
		store.Close()
		return err
	}

	logger.Debug("tracker opened",
		zap.String("db_path", cfg.DBPath),
		zap.String("config", loaded),
		zap.Int("readings", len(state.Records.Readings)),
	)

	a.cfg, a.loc, a.logger, a.store = cfg, loc, logger, store
	a.ctrl = tracker.New(store, state,
		tracker.WithClock(a.now),
		tracker.WithLocation(loc),
		tracker.WithAlert(tracker.AlertConfig{LowThreshold: cfg.Alert.LowThreshold, Contact: cfg.Alert.Contact}),
		tracker.WithLogger(logger),
	)
	return nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	a.ctrl = nil
}
