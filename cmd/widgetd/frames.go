package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vango-dev/widgetkit/internal/errors"
	"github.com/vango-dev/widgetkit/internal/sim"
)

func framesCmd(configPath *string) *cobra.Command {
	var (
		count  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "frames",
		Short: "Simulate frames offline and print them",
		Long: `Simulate frames without a clock and print the scheduler statistics
and page state of each one.

Examples:
  widgetd frames
  widgetd frames -n 120 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return errors.New("W201").
					WithOp("--count").
					WithDetail(fmt.Sprintf("--count must be at least 1, got %d", count))
			}

			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			rt := newRuntime(cfg)
			page := sim.NewPage(rt.scheduler, sim.Config{
				Items:    cfg.Demo.Items,
				Sections: cfg.Demo.Sections,
				Seed:     cfg.Demo.Seed,
			}, rt.instanceOptions()...)
			if err := page.Connect(); err != nil {
				return err
			}
			defer page.Disconnect()

			frames, err := page.Run(cmd.Context(), count)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(frames)
			}
			return printFrames(cmd.OutOrStdout(), frames)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 30, "Number of frames to simulate")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print frames as JSON")

	return cmd
}

func printFrames(w io.Writer, frames []sim.Frame) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FRAME\tREADS\tWRITES\tERRORS\tDURATION\tOPEN\tIN VIEW")
	for _, f := range frames {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\t%v\t%v\n",
			f.Stats.Frame, f.Stats.Reads, f.Stats.Writes, f.Stats.Errors,
			f.Stats.Duration, f.State.Open, f.State.InView)
	}
	return tw.Flush()
}
