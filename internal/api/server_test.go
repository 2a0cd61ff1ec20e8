package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/heima-panel/internal/infrastructure/config"
	"github.com/nerrad567/heima-panel/internal/infrastructure/logging"
	"github.com/nerrad567/heima-panel/internal/session"
	"github.com/nerrad567/heima-panel/internal/store"
)

func testDeps(t *testing.T) Deps {
	t.Helper()

	home, err := store.NewHome(store.DefaultDevices())
	require.NoError(t, err)

	opts := session.DefaultOptions()
	opts.SettleTimeout = 50 * time.Millisecond

	return Deps{
		Config: config.APIConfig{
			Host: "127.0.0.1",
			Port: 0,
			Timeouts: config.APITimeoutConfig{
				Read:  5,
				Write: 5,
				Idle:  5,
			},
		},
		WS: config.WebSocketConfig{
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Session: opts,
		Logger:  logging.New(config.LoggingConfig{Level: "error", Format: "json", Output: "stdout"}, "test"),
		Home:    home,
		Loader: func() ([]*store.Device, error) {
			return store.DefaultDevices(), nil
		},
		Version: "test",
	}
}

// testServer creates a Server with an initialised hub, without binding a port.
func testServer(t *testing.T) *Server {
	t.Helper()

	srv, err := New(testDeps(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	srv.hub = NewHub(srv.wsCfg, srv.logger)
	go srv.hub.Run(ctx)
	srv.watchHome()
	t.Cleanup(func() { srv.home.RemoveListener(homeListenerID) })

	return srv
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	w := httptest.NewRecorder()
	srv.buildRouter().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(v))
}

func TestNew_RequiresDeps(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)

	deps := testDeps(t)
	deps.Home = nil
	_, err = New(deps)
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	srv := testServer(t)
	w := do(t, srv, http.MethodGet, "/api/v1/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]any
	decode(t, w, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestRequestID(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, http.MethodGet, "/api/v1/health", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "client-id-123")
	rec := httptest.NewRecorder()
	srv.buildRouter().ServeHTTP(rec, req)
	assert.Equal(t, "client-id-123", rec.Header().Get("X-Request-ID"))
}

func TestCORS_Preflight(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/devices", nil)
	req.Header.Set("Origin", "http://panel.local")
	w := httptest.NewRecorder()
	srv.buildRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://panel.local", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	srv := testServer(t)
	srv.cfg.CORS.AllowedOrigins = []string{"http://panel.local"}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w := httptest.NewRecorder()
	srv.buildRouter().ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNotFound(t *testing.T) {
	srv := testServer(t)
	w := do(t, srv, http.MethodGet, "/api/v1/nonexistent", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPanelServed(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, http.MethodGet, "/panel/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<!DOCTYPE html>")

	w = do(t, srv, http.MethodGet, "/panel", "")
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
}

func TestServer_StartAndClose(t *testing.T) {
	srv, err := New(testDeps(t))
	require.NoError(t, err)

	require.NoError(t, srv.Start(context.Background()))
	require.NotEmpty(t, srv.Addr())
	assert.NoError(t, srv.HealthCheck(context.Background()))

	resp, err := http.Get(fmt.Sprintf("http://%s/api/v1/health", srv.Addr()))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, srv.home.ListenerCount())

	require.NoError(t, srv.Close())
	assert.Equal(t, 0, srv.home.ListenerCount())
}

func TestServer_StartPortInUse(t *testing.T) {
	first, err := New(testDeps(t))
	require.NoError(t, err)
	require.NoError(t, first.Start(context.Background()))
	defer first.Close()

	deps := testDeps(t)
	_, port, _ := strings.Cut(first.Addr(), ":")
	fmt.Sscan(port, &deps.Config.Port)

	second, err := New(deps)
	require.NoError(t, err)
	assert.Error(t, second.Start(context.Background()))
}

func TestServer_HealthCheckNotStarted(t *testing.T) {
	srv, err := New(testDeps(t))
	require.NoError(t, err)
	assert.Error(t, srv.HealthCheck(context.Background()))
	assert.NoError(t, srv.Close())
}
