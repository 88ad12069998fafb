package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pfhub-sim/pfhub-sim/sim"
	"github.com/pfhub-sim/pfhub-sim/sim/pfhub"
	"github.com/pfhub-sim/pfhub-sim/sim/trace"
)

// invocation holds the non-RunConfig flags of one command line.
type invocation struct {
	logLevel    string // Log verbosity level
	configPath  string // Optional YAML run file
	snapshotDir string // Directory for major output snapshots
	traceLevel  string // Output trace level
	workers     int    // Parallel workers for the simulation runtime
}

// openRuntime acquires the simulation runtime for one invocation.
var openRuntime = pfhub.Open

// NewRootCmd builds the command tree. Every call returns fresh commands and
// flag sets, so parsing carries no state between invocations.
func NewRootCmd(stdout io.Writer) *cobra.Command {
	inv := &invocation{}

	rootCmd := &cobra.Command{
		Use:   "pfhub1a [options] <2017|2023|custom> [custom coefficients]",
		Short: "Run a version of the PFHub1a spinodal decomposition benchmark",
		Long:  usageText(),
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return inv.run(cmd, args, stdout)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return flagError(err)
	})

	pf := rootCmd.PersistentFlags()
	addRunFlags(pf)
	pf.StringVar(&inv.logLevel, "log-level", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	pf.StringVar(&inv.configPath, "config", "", "Path to a YAML run file; command-line options override it")

	rootCmd.Flags().StringVar(&inv.snapshotDir, "output-dir", "", "Directory for concentration snapshots written at major outputs")
	rootCmd.Flags().StringVar(&inv.traceLevel, "trace-level", "outputs", "Output trace level (none, outputs)")
	rootCmd.Flags().IntVar(&inv.workers, "workers", 0, "Parallel workers for the spectral solver (0 = GOMAXPROCS)")

	rootCmd.AddCommand(newScheduleCmd(inv, stdout))
	return rootCmd
}

// setupLogging points logrus at stderr with the requested level.
func (inv *invocation) setupLogging(cmd *cobra.Command) error {
	level, err := logrus.ParseLevel(inv.logLevel)
	if err != nil {
		return fmt.Errorf("%w --log-level: %v", errBadFlag, err)
	}
	logrus.SetOutput(cmd.ErrOrStderr())
	logrus.SetLevel(level)
	return nil
}

// runConfig assembles the RunConfig and problem arguments: run file first,
// then the options given on the command line. Positional arguments, when
// present, replace the run file's problem entirely.
func (inv *invocation) runConfig(cmd *cobra.Command, args []string) (sim.RunConfig, []string, error) {
	var cfg sim.RunConfig
	problemArgs := args
	if inv.configPath != "" {
		rf, err := LoadRunFile(inv.configPath)
		if err != nil {
			return cfg, nil, fmt.Errorf("%w --config: %v", errBadFlag, err)
		}
		if err := applyOptions(rf.Options, &cfg); err != nil {
			return cfg, nil, fmt.Errorf("run file %s: %w", inv.configPath, err)
		}
		if len(problemArgs) == 0 {
			problemArgs = rf.problemArgs()
		}
	}
	if err := applyRunFlags(cmd.Flags(), &cfg); err != nil {
		return cfg, nil, err
	}
	return cfg, problemArgs, nil
}

func (inv *invocation) run(cmd *cobra.Command, args []string, stdout io.Writer) error {
	if err := inv.setupLogging(cmd); err != nil {
		return err
	}
	if !trace.IsValidTraceLevel(inv.traceLevel) {
		return fmt.Errorf("%w --trace-level: unknown level %q; valid: none, outputs", errBadFlag, inv.traceLevel)
	}

	// The runtime spans configuration, scheduling and the run itself, and is
	// released however the command exits.
	rt := openRuntime(inv.workers)
	defer func() { _ = rt.Close() }()

	cfg, problemArgs, err := inv.runConfig(cmd, args)
	if err != nil {
		return err
	}

	driver := sim.NewDriver(pfhub.Factory(pfhub.Options{
		Runtime:     rt,
		Out:         stdout,
		SnapshotDir: inv.snapshotDir,
		TraceLevel:  trace.TraceLevel(inv.traceLevel),
	}), stdout)

	if err := driver.Configure(cfg); err != nil {
		return err
	}
	problem, err := sim.NewProblem(problemArgs)
	if err != nil {
		return err
	}
	if inv.snapshotDir != "" {
		if err := os.MkdirAll(inv.snapshotDir, 0755); err != nil {
			return fmt.Errorf("%w --output-dir: %v", errBadFlag, err)
		}
	}
	if err := driver.Register(problem); err != nil {
		return err
	}
	if err := driver.Run(cmd.Context()); err != nil {
		return err
	}
	logrus.Info("Simulation complete.")
	return nil
}

// run executes the command line and returns the process exit code.
// Input errors print the reason followed by the usage block.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd(stdout)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, err)
		if isUsageError(err) {
			fmt.Fprint(stderr, usageText())
		}
		return 1
	}
	return 0
}

// Execute runs the CLI root command
func Execute() {
	if code := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); code != 0 {
		os.Exit(code)
	}
}
