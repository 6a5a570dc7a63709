// cmd/pond/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-floatsim/pkg/config"
	"github.com/opd-ai/go-floatsim/pkg/engine"
	"github.com/opd-ai/go-floatsim/pkg/entity"
	"github.com/opd-ai/go-floatsim/pkg/health"
	"github.com/opd-ai/go-floatsim/pkg/logging"
	"github.com/opd-ai/go-floatsim/pkg/render"
	"github.com/opd-ai/go-floatsim/pkg/resource"
)

const (
	frameInterval = time.Second / 30
	statusEvery   = 5 * time.Second
	cellScale     = 0.25
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "pond.json", "Path to configuration file")
	template := flag.String("template", "", "Scene template to apply (garden, bucket, swell)")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	headless := flag.Bool("headless", false, "Run without the terminal view")
	flag.Parse()

	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err, "config_path", *configPath)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file", "config_path", *configPath)
		return
	}

	env, err := config.LoadConfigFromEnv()
	if err != nil {
		logger.Error(ctx, "Invalid environment configuration", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfigWithTemplate(*configPath, *template)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err, "config_path", *configPath)
		os.Exit(1)
	}
	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		os.Exit(1)
	}

	pond, err := engine.NewPondFromConfig(cfg, engine.WithLogger(logger))
	if err != nil {
		logger.Error(ctx, "Failed to create pond", err)
		os.Exit(1)
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	workers := resource.NewSupervisor(runCtx, 4, logger)

	healthChecker := health.NewHealthChecker()
	healthChecker.AddCheck(health.NewSimulationHealthCheck(pond, env.StallTimeout))
	healthChecker.AddCheck(health.NewSurfaceHealthCheck(pond.SurfaceState))
	healthChecker.AddCheck(health.NewMemoryHealthCheck(500, health.HeapAllocMB))
	healthChecker.AddCheck(resource.NewWorkerHealthCheck(workers))

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/health", healthChecker.LivenessHandler)
	healthMux.HandleFunc("/ready", healthChecker.ReadinessHandler)

	healthServer := &http.Server{
		Addr:         env.HealthAddr,
		Handler:      healthMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	if err := workers.Go("health-server", func(ctx context.Context) error {
		logger.Info(ctx, "Starting health check server", "address", env.HealthAddr)
		return serveUntilDone(ctx, healthServer, env.ShutdownTimeout)
	}); err != nil {
		logger.Error(ctx, "Failed to start health check server", err)
		os.Exit(1)
	}
	if err := workers.Go("simulation", pond.Run); err != nil {
		logger.Error(ctx, "Failed to start simulation", err)
		os.Exit(1)
	}

	headlessMode := *headless || env.Headless
	logger.Info(ctx, "Pond running",
		"bodies", pond.Len(),
		"time_step", pond.TimeStep(),
		"headless", headlessMode,
	)

	viewCtx := workers.Context()
	if headlessMode {
		runHeadless(viewCtx, pond, logger)
	} else if err := runTerminal(viewCtx, stop, pond, logger); err != nil {
		logger.Error(ctx, "Terminal view failed, continuing headless", err)
		runHeadless(viewCtx, pond, logger)
	}

	logger.Info(ctx, "Shutting down", "ticks", pond.Tick(), "anomalies", pond.Anomalies())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), env.ShutdownTimeout)
	defer cancel()
	if err := workers.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Shutdown incomplete", err)
	}
	for _, f := range workers.Failures() {
		logger.Error(ctx, "Worker failed", f.Err, "name", f.Name)
	}
}

// serveUntilDone runs srv until ctx is cancelled, then shuts it down.
func serveUntilDone(ctx context.Context, srv *http.Server, timeout time.Duration) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// runHeadless draws through the null renderer and logs a status line every
// few seconds until ctx is done.
func runHeadless(ctx context.Context, pond *engine.Pond, logger *logging.Logger) {
	renderer := render.NewNullRendererWithLogger(logger)
	frames := time.NewTicker(frameInterval)
	defer frames.Stop()
	status := time.NewTicker(statusEvery)
	defer status.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-frames.C:
			renderer.Clear()
			bodies := pond.Bodies()
			for i := range bodies {
				bodies[i].Render(renderer)
			}
			renderer.Present()
		case <-status.C:
			st := pond.State()
			logger.Info(ctx, "Pond status",
				"tick", st.Tick,
				"sim_time", st.SimTime,
				"bodies", len(st.Bodies),
				"anomalies", st.Anomalies,
				"surface", st.Surface,
			)
		}
	}
}

// runTerminal draws the pond with tcell until ctx is done or the user quits.
// o spawns an orange, r reenables settled bodies, q or Esc quits.
func runTerminal(ctx context.Context, quit context.CancelFunc, pond *engine.Pond, logger *logging.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer screen.Fini()

	renderer := render.NewTerminalRenderer(screen, cellScale)
	if c, ok := pond.Container(); ok {
		renderer.SetCenter(c.Center.X(), c.Center.Y()+c.WaterLevel)
	}

	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			key, ok := ev.(*tcell.EventKey)
			if !ok {
				continue
			}
			switch {
			case key.Key() == tcell.KeyEscape, key.Key() == tcell.KeyCtrlC, key.Rune() == 'q':
				quit()
				return
			case key.Rune() == 'o':
				if _, err := pond.SpawnScatter("orange", 1, pondCenter(pond), 1, 0.5); err != nil {
					logger.Warn(ctx, "spawn failed", "error", err)
				}
			case key.Rune() == 'r':
				for _, b := range pond.Bodies() {
					if b.State == entity.Settled {
						if err := pond.Reenable(b.ID); err != nil {
							logger.Warn(ctx, "reenable failed", "body_id", uint64(b.ID), "error", err)
						}
					}
				}
			}
		}
	}()

	frames := time.NewTicker(frameInterval)
	defer frames.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-frames.C:
			renderer.DrawPond(pond)
		}
	}
}

// pondCenter is where new bodies are dropped: the container if there is
// one, otherwise the origin.
func pondCenter(pond *engine.Pond) mgl64.Vec3 {
	if c, ok := pond.Container(); ok {
		return c.Center
	}
	return mgl64.Vec3{}
}
