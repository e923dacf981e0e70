package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vango-dev/widgetkit/internal/inspector"
	"github.com/vango-dev/widgetkit/internal/sim"
	"github.com/vango-dev/widgetkit/pkg/fastdom"
	"golang.org/x/sync/errgroup"
)

func runCmd(configPath *string) *cobra.Command {
	var (
		interval time.Duration
		addr     string
		noServe  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the frame loop and the inspector",
		Long: `Run the simulated page on the frame loop until interrupted.

The inspector serves /healthz, /frames, /metrics and the /ws frame
stream while the loop runs.

Examples:
  widgetd run
  widgetd run --interval=33ms
  widgetd run --addr=0.0.0.0:7070 -c widgetd.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if interval > 0 {
				cfg.Loop.Interval = interval.String()
			}
			if noServe {
				cfg.Inspector.Enabled = false
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := newLogger(cfg, cmd.ErrOrStderr())
			slog.SetDefault(logger)
			if path := cfg.Path(); path != "" {
				logger.Info("config loaded", "path", path)
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

			loop := fastdom.NewLoop(rt.scheduler,
				fastdom.WithInterval(cfg.FrameInterval()),
				fastdom.WithLogger(logger.With("component", "fastdom")),
				fastdom.WithTickFunc(page.Step),
			)

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return loop.Run(ctx)
			})

			if cfg.Inspector.Enabled {
				opts := []inspector.Option{
					inspector.WithHistory(cfg.Inspector.History),
					inspector.WithLogger(logger.With("component", "inspector")),
				}
				if rt.registry != nil {
					opts = append(opts, inspector.WithGatherer(rt.registry))
				}
				ins := inspector.New(opts...)
				rt.scheduler.AddObserver(ins)

				listen := cfg.InspectorAddress()
				if addr != "" {
					listen = addr
				}
				g.Go(func() error {
					return ins.Serve(ctx, listen)
				})
			}

			err = g.Wait()
			if errors.Is(err, context.Canceled) {
				err = nil
			}
			if err == nil {
				success(cmd.OutOrStdout(), "stopped after %d frames", rt.scheduler.Frame())
			}
			return err
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "Frame interval (default from config)")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Inspector listen address (default from config)")
	cmd.Flags().BoolVar(&noServe, "no-inspector", false, "Do not start the inspector")

	return cmd
}
