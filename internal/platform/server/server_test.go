package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/camaramunicipal/prestacontas/internal/platform/config"
)

type pingRoutes struct{}

func (pingRoutes) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
}

type homeRoutes struct{}

func (homeRoutes) RegisterRoutes(r gin.IRouter) {
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "home") })
}

func newTestServer(origins []string) (*Server, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return NewServer(zap.New(core), config.ServerConfig{Mode: "test", AllowedOrigins: origins}, homeRoutes{}, pingRoutes{}), logs
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestRoutes(t *testing.T) {
	s, logs := newTestServer(nil)

	w := serve(s, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP"}`, w.Body.String())

	w = serve(s, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, "pong", w.Body.String())

	w = serve(s, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "home", w.Body.String())

	// 每个请求一条访问日志
	entries := logs.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 3)
	assert.Equal(t, "/api/health", entries[0].ContextMap()["path"])
}

func TestCORSOnlyForAllowedOrigins(t *testing.T) {
	s, _ := newTestServer([]string{"http://localhost:5173"})

	req := httptest.NewRequest(http.MethodOptions, "/api/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := serve(s, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = serve(s, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRunStopsOnCancel(t *testing.T) {
	s := NewServer(zap.NewNop(), config.ServerConfig{Mode: "test", Port: "0", ShutdownTimeout: time.Second}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
