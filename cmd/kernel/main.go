package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"
	"github.com/valerio/go-kernel/kernel/app"
	"github.com/valerio/go-kernel/kernel/config"
	"github.com/valerio/go-kernel/kernel/timing"
)

func main() {
	cliApp := cli.NewApp()
	cliApp.Name = "kernel"
	cliApp.Description = "A cooperative frame scheduler driving a synthetic workload"
	cliApp.Usage = "kernel [options]"
	cliApp.Version = "1.0.0"
	cliApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "Path to a YAML config file",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Display backend: headless, terminal or sdl2",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Stop after N frames (required for headless)",
		},
		cli.Float64Flag{
			Name:  "refresh-rate",
			Usage: "Display refresh rate in Hz",
		},
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Refresh pacing: ticker, adaptive or none",
		},
		cli.DurationFlag{
			Name:  "frame-rate-limit",
			Usage: "Minimum time between executed frames (0 = every refresh)",
		},
		cli.DurationFlag{
			Name:  "deferred-budget",
			Usage: "Time per frame given to deferred work",
		},
		cli.IntFlag{
			Name:  "max-backlog",
			Usage: "Deferred backlog above which work runs over budget",
		},
		cli.IntFlag{
			Name:  "jobs-per-second",
			Usage: "Steady rate of synthetic deferred jobs",
		},
		cli.DurationFlag{
			Name:  "job-cost",
			Usage: "Simulated cost of each synthetic job",
		},
		cli.IntFlag{
			Name:  "burst-size",
			Usage: "Jobs enqueued by one burst",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
	cliApp.Action = runKernel

	err := cliApp.Run(os.Args)
	if err != nil {
		slog.Error("Error running kernel", "error", err)
		os.Exit(1)
	}
}

func runKernel(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Display.Debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))

	platform, err := app.NewPlatform(cfg.Display)
	if err != nil {
		return err
	}
	defer platform.Close()

	b, err := app.NewBackend(cfg.Display)
	if err != nil {
		return err
	}

	a, err := app.New(app.Options{
		Config:  cfg,
		Backend: b,
		Driver:  platform.Driver,
		Spin:    platform.Spin,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return a.Run(ctx)
}

// loadConfig reads the config file, if any, and applies the flags that were
// set on top of it.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if c.IsSet("backend") {
		cfg.Display.Backend = c.String("backend")
	}
	if c.IsSet("frames") {
		cfg.Display.Frames = c.Int("frames")
	}
	if c.IsSet("refresh-rate") {
		cfg.Display.RefreshRate = c.Float64("refresh-rate")
	}
	if c.IsSet("limiter") {
		cfg.Display.Limiter = timing.Kind(c.String("limiter"))
	}
	if c.IsSet("debug") {
		cfg.Display.Debug = c.Bool("debug")
	}
	if c.IsSet("frame-rate-limit") {
		cfg.Kernel.FrameRateLimit = c.Duration("frame-rate-limit")
	}
	if c.IsSet("deferred-budget") {
		cfg.Kernel.DeferredTimeLimit = c.Duration("deferred-budget")
	}
	if c.IsSet("max-backlog") {
		cfg.Kernel.MaxDeferredLength = c.Int("max-backlog")
	}
	if c.IsSet("jobs-per-second") {
		cfg.Workload.JobsPerSecond = c.Int("jobs-per-second")
	}
	if c.IsSet("job-cost") {
		cfg.Workload.JobCost = c.Duration("job-cost")
	}
	if c.IsSet("burst-size") {
		cfg.Workload.BurstSize = c.Int("burst-size")
	}

	return cfg, cfg.Validate()
}
