package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pfhub-sim/pfhub-sim/sim"
)

// newScheduleCmd builds `pfhub1a schedule`, which validates the options and
// prints the output schedule without running anything.
func newScheduleCmd(inv *invocation, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Print the output schedule (time,kind) for the given options",
		Long:  "Validate the run options and print every major output, then every minor output, as time,kind CSV records. Nothing is simulated.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := inv.setupLogging(cmd); err != nil {
				return err
			}
			cfg, _, err := inv.runConfig(cmd, nil)
			if err != nil {
				return err
			}
			cfg.ResolveDefaults()
			if err := cfg.Validate(); err != nil {
				return err
			}
			return writeSchedule(stdout, sim.ComputeSchedule(cfg))
		},
	}
}

func writeSchedule(w io.Writer, s sim.OutputSchedule) error {
	if _, err := fmt.Fprintln(w, "time,kind"); err != nil {
		return err
	}
	for _, ev := range s.Events() {
		if _, err := fmt.Fprintf(w, "%g,%s\n", ev.Time, ev.Kind()); err != nil {
			return err
		}
	}
	return nil
}
