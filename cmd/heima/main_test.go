package main

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/heima-panel/internal/infrastructure/config"
	"github.com/nerrad567/heima-panel/internal/store"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// TestRun_InvalidConfig verifies run fails with an explicit config path that does not exist.
func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("HEIMA_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestRun_InvalidSeedFile(t *testing.T) {
	configPath := writeFile(t, "config.yaml", `
site:
  id: test-home
logging:
  level: error
devices:
  seed_file: /nonexistent/devices.yaml
`)
	t.Setenv("HEIMA_CONFIG", configPath)

	err := run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading devices")
}

func TestRun_PortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	configPath := writeFile(t, "config.yaml", `
site:
  id: test-home
logging:
  level: error
api:
  host: 127.0.0.1
`)
	t.Setenv("HEIMA_CONFIG", configPath)
	t.Setenv("HEIMA_API_PORT", strconv.Itoa(port))

	err = run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting API server")
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	// reserve a free port, then release it for run to bind
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	configPath := writeFile(t, "config.yaml", `
site:
  id: test-home
logging:
  level: error
api:
  host: 127.0.0.1
simulator:
  enabled: true
  interval_ms: 10
`)
	t.Setenv("HEIMA_CONFIG", configPath)
	t.Setenv("HEIMA_API_PORT", strconv.Itoa(port))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestLoadConfig_DefaultPathFallsBack(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := loadConfig(defaultConfigPath)
	require.NoError(t, err)
	assert.Equal(t, "home-001", cfg.Site.ID)
}

func TestDeviceLoader(t *testing.T) {
	t.Run("built-in devices without seed file", func(t *testing.T) {
		devices, err := deviceLoader(config.DevicesConfig{})()
		require.NoError(t, err)
		assert.Len(t, devices, len(store.DefaultDevices()))
	})

	t.Run("seed file", func(t *testing.T) {
		path := writeFile(t, "devices.yaml", `
devices:
  - id: lamp
    name: Lamp
    rooms: [Hall]
    status:
      Light: {power: 0}
`)
		devices, err := deviceLoader(config.DevicesConfig{SeedFile: path})()
		require.NoError(t, err)
		require.Len(t, devices, 1)
		assert.Equal(t, "lamp", devices[0].ID())
	})
}

func TestSessionOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Gesture.ShortClickMS = 250
	cfg.Carousel.Width = 320

	opts := sessionOptions(cfg)

	assert.Equal(t, 250*time.Millisecond, opts.Thresholds.ShortClick)
	assert.Equal(t, time.Second, opts.Thresholds.MediumClick)
	assert.Equal(t, 10.0, opts.Thresholds.MoveEnd)
	assert.Equal(t, 320.0, opts.Carousel.Width)
	assert.Equal(t, 100.0, opts.Carousel.Threshold)
	assert.Equal(t, 400*time.Millisecond, opts.SettleTimeout)
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("HEIMA_CONFIG", "")
	assert.Equal(t, defaultConfigPath, getConfigPath())

	t.Setenv("HEIMA_CONFIG", "/etc/heima/config.yaml")
	assert.Equal(t, "/etc/heima/config.yaml", getConfigPath())
}
