package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// newRouter builds the gin engine with all routes and middleware, wrapped in
// CORS for the web front-end.
func newRouter(h *Handler, allowedOrigins []string) http.Handler {
	router := gin.New()
	router.Use(requestLogger(h.logger), gin.Recovery())
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(router)
}

func main() {
	cfg := loadConfig()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	defer logger.Sync()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	if err := registerValidators(); err != nil {
		logger.Fatal("register validators", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := getDBPool(ctx, cfg.DBURL)
	if err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("DB pool ready")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	h := newHandler(pool, logger, reg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(h, cfg.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
