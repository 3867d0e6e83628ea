package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glosario-lsc/glosario/handlers"
	"github.com/glosario-lsc/glosario/internal/app"
	"github.com/glosario-lsc/glosario/internal/config"
	"github.com/glosario-lsc/glosario/pkg/logger"
	"github.com/glosario-lsc/glosario/pkg/metrics"
	"github.com/glosario-lsc/glosario/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var startTime = time.Now()

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	// LOG_LEVEL is validated with the rest of the config: debug|info|warn|error|fatal
	logger.Init(cfg.LogLevel)
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())
	logger.Infof("config loaded: mongo=%v minio=%v redis=%v", cfg.MongoDB.URI != "", cfg.MinIO.Endpoint != "", cfg.Redis.Host != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logger.L())
	if err != nil {
		logger.Fatalf("failed to initialise backends: %v", err)
	}
	defer a.Close(context.Background())
	logger.L().Info("backends ready",
		zap.String("store", a.Backends.Store),
		zap.String("media", a.Backends.Media),
		zap.Bool("snapshot_cache", a.Backends.Cache))

	// an unreachable store at startup is not fatal: listings retry on demand
	if err := a.Library.Refresh(ctx); err != nil {
		logger.Warnf("initial library load failed: %v", err)
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Lightweight CORS middleware: set common headers and respond to OPTIONS.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, Retry-After")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})
	r.Use(gin.Logger(), gin.Recovery())

	// uploads are the only write path worth limiting
	var uploadLimit []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && a.Redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			uploadLimit = append(uploadLimit, middleware.RedisRateLimitMiddleware(a.Redis, "rl:upload", cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			uploadLimit = append(uploadLimit, middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: every configured remote backend answers and the library has
	// been loaded at least once
	r.GET("/ready", func(c *gin.Context) {
		pctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		deps := a.Ping(pctx)
		ready := true
		for _, ok := range deps {
			ready = ready && ok
		}
		if !a.Library.Loaded() {
			if err := a.Library.Refresh(pctx); err != nil {
				ready = false
			}
		}
		deps["library"] = a.Library.Loaded()

		status, label := http.StatusOK, "ready"
		if !ready {
			status, label = http.StatusServiceUnavailable, "not_ready"
		}
		c.JSON(status, gin.H{"status": label, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	handlers.RegisterSwagger(r)
	handlers.NewWordsHandler(a.Library, a.Media, a.Cities, a.Location, cfg.Server.MaxUploadBytes, logger.Named("http")).
		Register(r.Group("/"), uploadLimit...)

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("Starting glossary service on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("graceful shutdown failed: %v", err)
	}
}
