package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/camaramunicipal/prestacontas/internal/platform/config"
)

// APIRoutes REST 模块，挂在 /api 下
type APIRoutes interface {
	RegisterRoutes(r *gin.RouterGroup)
}

// WebRoutes 页面路由，挂在根路径
type WebRoutes interface {
	RegisterRoutes(r gin.IRouter)
}

// Server 封装 HTTP 服务
type Server struct {
	engine *gin.Engine
	logger *zap.Logger
	cfg    config.ServerConfig
	server *http.Server
}

// NewServer 初始化 HTTP Server (包含网关逻辑)
// web 可以为 nil，只提供 REST 接口
func NewServer(logger *zap.Logger, cfg config.ServerConfig, web WebRoutes, apis ...APIRoutes) *Server {
	// 1. 设置 Gin 模式
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()

	// ==========================================
	// 网关层
	// ==========================================

	// 1. Recovery (防崩)
	r.Use(gin.Recovery())

	// 2. 请求日志 (接入 Zap)
	r.Use(RequestLogger(logger))

	// 3. CORS (预检请求没有匹配的路由，必须挂在全局)
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	api := r.Group("/api")

	// ==========================================
	// 路由分发
	// ==========================================
	{
		for _, m := range apis {
			m.RegisterRoutes(api)
		}

		// 健康检查
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "UP"})
		})
	}
	if web != nil {
		web.RegisterRoutes(r)
	}

	return &Server{
		engine: r,
		logger: logger,
		cfg:    cfg,
	}
}

// RequestLogger 每个请求一条访问日志
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next() // 执行后续逻辑

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("cost", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		logger.Info("HTTP Request", fields...)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Handler 用于测试或嵌入其他服务
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run 启动服务，ctx 取消后优雅停机
func (s *Server) Run(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("🚀 Prestação de contas started", zap.String("port", s.cfg.Port))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", zap.Duration("timeout", s.cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown 优雅停机 (Graceful Shutdown)
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
