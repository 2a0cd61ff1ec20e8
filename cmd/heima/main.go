// Heima Panel Core - wall panel backend for the Heima home
//
// This is the main entry point for the Heima panel core. It serves the
// panel client, keeps the device stores, and runs one interaction session
// per connected panel:
//   - Pointer gestures on device widgets (click, long press, drag)
//   - Infinite-loop device card carousels
//   - Live device status pushed over WebSocket
//
// Configuration lives in configs/config.yaml; the device list in
// configs/devices.yaml.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sanity-io/litter"
	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/heima-panel/internal/api"
	"github.com/nerrad567/heima-panel/internal/carousel"
	"github.com/nerrad567/heima-panel/internal/gesture"
	"github.com/nerrad567/heima-panel/internal/infrastructure/config"
	"github.com/nerrad567/heima-panel/internal/infrastructure/logging"
	"github.com/nerrad567/heima-panel/internal/session"
	"github.com/nerrad567/heima-panel/internal/simulator"
	"github.com/nerrad567/heima-panel/internal/store"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
// It returns nil on clean shutdown.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Heima panel core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)
	log.Debug("effective configuration", "path", configPath, "config", litter.Sdump(cfg))

	loader := deviceLoader(cfg.Devices)
	devices, err := loader()
	if err != nil {
		return fmt.Errorf("loading devices: %w", err)
	}

	home, err := store.NewHome(devices)
	if err != nil {
		return fmt.Errorf("building home: %w", err)
	}
	home.SetLogger(log)
	log.Info("home loaded", "devices", len(devices), "rooms", len(home.Rooms()))

	srv, err := api.New(api.Deps{
		Config:  cfg.API,
		WS:      cfg.WebSocket,
		Session: sessionOptions(cfg),
		Logger:  log,
		Home:    home,
		Loader:  loader,
		PanelFS: os.Getenv("HEIMA_PANEL_DIR"),
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, cleaning up")
		if err := srv.Close(); err != nil {
			log.Error("error closing API server", "error", err)
		}
		return nil
	})

	if cfg.Simulator.Enabled {
		sim, err := simulator.New(home, simulator.Options{
			Interval: cfg.Simulator.Interval(),
			Jitter:   cfg.Simulator.Jitter,
		})
		if err != nil {
			return fmt.Errorf("creating simulator: %w", err)
		}
		sim.SetLogger(log.With("component", "simulator"))
		g.Go(func() error {
			return sim.Run(gctx)
		})
		log.Info("meter simulator started", "interval", cfg.Simulator.Interval())
	} else {
		log.Info("meter simulator disabled")
	}

	log.Info("initialisation complete, waiting for shutdown signal", "address", srv.Addr())

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("Heima panel core stopped")
	return nil
}

// loadConfig reads the configuration file. A missing file at the default
// path falls back to the built-in configuration; an explicitly configured
// path must exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if path == defaultConfigPath && errors.Is(err, os.ErrNotExist) {
		cfg = config.Default()
		if vErr := cfg.Validate(); vErr != nil {
			return nil, vErr
		}
		return cfg, nil
	}
	return nil, err
}

// deviceLoader returns the loader for the configured device source: the
// seed file when set, otherwise the built-in demo devices.
func deviceLoader(cfg config.DevicesConfig) api.DeviceLoader {
	if cfg.SeedFile == "" {
		return func() ([]*store.Device, error) {
			return store.DefaultDevices(), nil
		}
	}
	path := cfg.SeedFile
	return func() ([]*store.Device, error) {
		return store.LoadDevices(path)
	}
}

// sessionOptions maps configuration onto panel session options.
func sessionOptions(cfg *config.Config) session.Options {
	return session.Options{
		Thresholds: gesture.Thresholds{
			MoveEnd:            cfg.Gesture.MoveEndThreshold,
			ClickMaxHorizontal: cfg.Gesture.ClickMaxHorizontal,
			ShortClick:         msDuration(cfg.Gesture.ShortClickMS),
			MediumClick:        msDuration(cfg.Gesture.MediumClickMS),
		},
		Carousel: carousel.Options{
			Width:     cfg.Carousel.Width,
			Height:    cfg.Carousel.Height,
			Threshold: cfg.Carousel.Threshold,
		},
		SettleTimeout: cfg.Carousel.SettleTimeout(),
	}
}

func msDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// getConfigPath returns the configuration file path.
// Uses HEIMA_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HEIMA_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
