package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/waypath/command"
	"github.com/katalvlaran/waypath/config"
	"github.com/katalvlaran/waypath/internal/ctxlog"
	"github.com/katalvlaran/waypath/internal/logging"
	"github.com/katalvlaran/waypath/metrics"
	"github.com/katalvlaran/waypath/persist"
	"github.com/katalvlaran/waypath/scenario"
	"github.com/katalvlaran/waypath/session"
	"github.com/katalvlaran/waypath/spatial"
)

// app carries what every subcommand shares.
type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	configPath string
	cfg        config.Config
	metrics    *metrics.Metrics

	// flag overrides, applied only when set
	threshold   float64
	strict      bool
	backend     string
	storePath   string
	seed        string
	logLevel    string
	logFormat   string
	metricsFile string
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "waypath",
		Short: "Build waypoint maps and route between them",
		Long: `waypath keeps a graph of 3D waypoints linked by straight walkable legs,
names some of them, and finds the shortest route to a name or waypoint id.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.metrics.WriteTextfile(a.cfg.Metrics.Textfile)
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "waypath.yaml", "configuration file")
	pf.Float64Var(&a.threshold, "threshold", 0, "proximity threshold in meters")
	pf.BoolVar(&a.strict, "strict", false, "treat unreachable destinations as errors")
	pf.StringVar(&a.backend, "backend", "", "store backend: file, sqlite or badger")
	pf.StringVar(&a.storePath, "store", "", "map directory (file, badger) or database path (sqlite)")
	pf.StringVar(&a.seed, "seed", "", "HCL scenario applied when the map is empty")
	pf.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&a.logFormat, "log-format", "", "auto, text or json")
	pf.StringVar(&a.metricsFile, "metrics-textfile", "", "write Prometheus metrics here on exit")

	root.AddCommand(
		a.newShellCmd(),
		a.newRouteCmd(),
		a.newImportCmd(),
		a.newInspectCmd(),
	)

	return root
}

// setup loads configuration, applies flag overrides and installs the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("threshold") {
		cfg.ProximityThreshold = a.threshold
	}
	if flags.Changed("strict") {
		cfg.StrictRoutes = a.strict
	}
	if flags.Changed("backend") {
		cfg.Store.Backend = a.backend
	}
	if flags.Changed("store") {
		cfg.Store.Path = a.storePath
	}
	if flags.Changed("seed") {
		cfg.Seed = a.seed
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if flags.Changed("metrics-textfile") {
		cfg.Metrics.Textfile = a.metricsFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.metrics = metrics.New()

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, a.stderr)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(ctxlog.WithLogger(ctx, logger))
	logger.Debug("configuration loaded",
		"config", a.configPath, "backend", cfg.Store.Backend, "store", cfg.Store.Path,
		"threshold", cfg.ProximityThreshold, "strict", cfg.StrictRoutes)

	return nil
}

// openStore returns the configured store and a function releasing it.
func (a *app) openStore(ctx context.Context) (persist.Store, func() error, error) {
	switch a.cfg.Store.Backend {
	case config.BackendSQLite:
		st, err := persist.OpenSQLite(ctx, a.cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	case config.BackendBadger:
		st, err := persist.OpenBadger(a.cfg.Store.Path,
			persist.WithBadgerLogger(ctxlog.FromContext(ctx).With("component", "badger")))
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	default:
		return persist.NewFileStore(a.cfg.Store.Path), func() error { return nil }, nil
	}
}

// openSession builds a session on the configured store, loads the saved
// map if there is one and seeds an empty map from the configured scenario.
func (a *app) openSession(ctx context.Context) (*session.Session, func() error, error) {
	st, closeStore, err := a.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	sess := session.New(spatial.NewMemory(), session.WithStore(st))

	saved, err := st.Exists(ctx)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	if saved {
		if err := sess.Load(ctx); err != nil {
			closeStore()
			return nil, nil, err
		}
	}
	if a.cfg.Seed != "" && sess.Graph().NodeCount() == 0 {
		if _, err := a.applySeed(ctx, sess, a.cfg.Seed); err != nil {
			closeStore()
			return nil, nil, err
		}
	}

	return sess, closeStore, nil
}

// applySeed places the scenario at path into sess and returns how many
// waypoints it declared.
func (a *app) applySeed(ctx context.Context, sess *session.Session, path string) (int, error) {
	sc, err := scenario.LoadFile(ctx, path)
	if err != nil {
		return 0, err
	}
	if _, err := sc.Apply(ctx, sess.Editor()); err != nil {
		return 0, fmt.Errorf("apply %s: %w", path, err)
	}

	return len(sc.Waypoints), nil
}

func (a *app) newHandler(sess *session.Session) *command.Handler {
	return command.NewHandler(sess,
		command.WithNotifier(command.NewWriterNotifier(a.stdout)),
		command.WithMetrics(a.metrics),
		command.WithThreshold(a.cfg.ProximityThreshold),
		command.WithStrictRoutes(a.cfg.StrictRoutes),
	)
}
