// Command rescued is the composition root: it loads configuration, opens
// the MAVLink link to the autopilot, builds the rescue controller around
// it, runs the controller on a fixed scheduler tick, and serves the HTTP
// status/control surface alongside it.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"flightpath-rescue/internal/config"
	"flightpath-rescue/internal/mavlink"
	"flightpath-rescue/internal/rescue"
	"flightpath-rescue/internal/scheduler"
	"flightpath-rescue/internal/server"
	"flightpath-rescue/internal/services"
)

// rescueTickInterval matches nominalTaskIntervalSeconds the PT1/PT2/PT3
// filter gains inside internal/rescue are seeded against.
const rescueTickInterval = 10 * time.Millisecond

func main() {
	cfg := config.Load()

	srv := server.New(cfg)
	deps := srv.GetDependencies()
	logger := deps.GetLogger()

	mavClient, err := mavlink.NewClient(mavlink.Config{
		Port:     cfg.MAVLink.DefaultPort,
		BaudRate: cfg.MAVLink.DefaultBaudRate,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("MAVLink: failed to open link: %v", err)
	}
	deps.SetMAVLinkClient(mavClient)
	mavClient.SetHomePointOnce(cfg.Rescue.GPSSetHomePointOnce)

	if err := mavClient.WaitForConnection(10 * time.Second); err != nil {
		logger.Printf("MAVLink: no heartbeat yet after 10s, continuing to wait in background: %v", err)
	}

	controller := rescue.NewController(cfg.Rescue, mavClient, mavClient, logger, uuid.NewString)
	deps.SetController(controller)

	task := scheduler.NewTask(controller, rescue.RealClock{}, rescueTickInterval, logger).
		WithOutputSink(controller, mavClient).
		WithObserver(controller, observeMetrics(srv.Metrics))

	ctx, cancel := context.WithCancel(context.Background())
	go task.Run(ctx)

	registerServices(srv, deps)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	waitForShutdown(cancel, mavClient, logger)
}

// observeMetrics returns the per-tick hook that feeds the /metrics gauges
// from the controller's freshly computed state.
func observeMetrics(m *server.Metrics) func(*rescue.Controller) {
	return func(c *rescue.Controller) {
		state := c.State()
		m.Observe(
			state.Phase.String(), state.Failure.String(),
			state.Intent.SecondsFailing, state.Intent.YawAttenuator, state.Intent.ProximityToLandingArea,
			c.Throttle(), c.YawRate(), c.Angle(rescue.AnglePitch), c.Angle(rescue.AngleRoll),
			c.IsAvailable(),
		)
	}
}

// registerServices mounts every HTTP route this daemon exposes onto the
// server's router.
func registerServices(srv *server.Server, deps *server.Dependencies) {
	rescueService := services.NewRescueService(deps)
	rescueService.Register(srv.Router())
}

// waitForShutdown blocks until SIGINT/SIGTERM, then stops the scheduler
// and closes the MAVLink link before returning.
func waitForShutdown(cancel context.CancelFunc, mavClient *mavlink.Client, logger *log.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Println("shutting down: stopping scheduler and closing MAVLink link")

	cancel()
	mavClient.Close()

	os.Exit(0)
}
