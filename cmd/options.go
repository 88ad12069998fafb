package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/pfhub-sim/pfhub-sim/sim"
)

// rawOption is a pflag.Value that keeps the option's text as given, so that
// type errors surface from sim.RunConfig.Set with the same messages whether
// the value came from the command line or from a run file.
type rawOption struct {
	value string
	typ   string
}

func (o *rawOption) String() string     { return o.value }
func (o *rawOption) Set(v string) error { o.value = v; return nil }
func (o *rawOption) Type() string       { return o.typ }

// runFlag describes one RunConfig option on the command line.
type runFlag struct {
	name  string
	typ   string // "int", "float" or "" for value-less flags
	usage string
}

// runFlags lists the RunConfig options in help order.
var runFlags = []runFlag{
	{sim.OptGrid, "int", "Number of grid points in each dimension"},
	{sim.OptDt, "float", "Size of each timestep"},
	{sim.OptEndTime, "float", "Length of simulation. Defaults to endoutput, but at least one must be specified"},
	{sim.OptMajorOutputs, "int", "Optional number of significant outputs (concentration snapshots) to perform"},
	{sim.OptMinorOutputs, "int", "Optional number of lesser outputs (free energy calculations) to perform"},
	{sim.OptStartOutput, "float", "Simulation time to start outputting. Inclusive, so an output will happen at this time. Defaults to 0"},
	{sim.OptEndOutput, "float", "Simulation time to stop outputting. Inclusive, so an output will happen at this time. Defaults to endtime"},
	{sim.OptLogScale, "", "Space outputs logarithmically. If not specified, spacing is linear"},
	{sim.OptOutputAtZero, "", "Include an output at t=0, independent of the other options"},
}

var runFlagNames = func() map[string]bool {
	m := make(map[string]bool, len(runFlags))
	for _, f := range runFlags {
		m[f.name] = true
	}
	return m
}()

// addRunFlags registers the RunConfig options on fs.
func addRunFlags(fs *pflag.FlagSet) {
	for _, f := range runFlags {
		if f.typ == "" {
			fs.Bool(f.name, false, f.usage)
			continue
		}
		fs.Var(&rawOption{typ: f.typ}, f.name, f.usage)
	}
}

// applyRunFlags forwards every RunConfig option the user actually passed to
// cfg.Set. Options left at their defaults are not applied, so they do not
// override values from a run file.
func applyRunFlags(fs *pflag.FlagSet, cfg *sim.RunConfig) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil || !runFlagNames[f.Name] {
			return
		}
		err = cfg.Set(f.Name, f.Value.String())
	})
	return err
}

// applyOptions calls cfg.Set for each entry of opts in sorted key order.
func applyOptions(opts map[string]string, cfg *sim.RunConfig) error {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := cfg.Set(k, opts[k]); err != nil {
			return err
		}
	}
	return nil
}

// flagError classifies pflag failures into the sim error taxonomy.
func flagError(err error) error {
	if strings.HasPrefix(err.Error(), "unknown") {
		return fmt.Errorf("%w: %v", sim.ErrUnrecognizedOption, err)
	}
	return fmt.Errorf("%w: %v", sim.ErrConfigInvalid, err)
}

// isUsageError reports whether err stems from the user's input rather than the run itself.
func isUsageError(err error) bool {
	for _, target := range []error{
		sim.ErrUnrecognizedOption,
		sim.ErrConfigInvalid,
		sim.ErrUnknownVariant,
		sim.ErrInsufficientCoefficients,
		sim.ErrInvalidCoefficient,
		errBadFlag,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// errBadFlag marks invalid values of the non-RunConfig flags.
var errBadFlag = errors.New("invalid flag")

// usageText is printed after any input error.
func usageText() string {
	var b strings.Builder
	b.WriteString("Run a version of the PFHub1a benchmark\n")
	b.WriteString("Usage: pfhub1a [options] <2017|2023|custom> [custom coefficients]\n")
	for _, f := range runFlags {
		if f.typ == "" {
			fmt.Fprintf(&b, "[--%s]\n\t%s\n", f.name, f.usage)
			continue
		}
		fmt.Fprintf(&b, "--%s <%s>\n\t%s\n", f.name, f.typ, f.usage)
	}
	b.WriteString("<2017|2023|custom> [custom coefficients]\n" +
		"\t2017: The established benchmark\n" +
		"\t2023: Our modification proposed at the August 2023 meeting\n" +
		"\tcustom: Infinitely differentiable version with custom coefficients\n" +
		"\t\t8 cosine wave counts, A_X, x sine wave count, A_Y, y sine wave count\n" +
		"\t\t(use -- before coefficients when any is negative)\n")
	return b.String()
}
