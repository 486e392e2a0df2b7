package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler holds shared dependencies (db pool, logger, metrics) for all route handlers.
type Handler struct {
	db       *pgxpool.Pool
	logger   *zap.Logger
	metrics  *engineMetrics
	gatherer prometheus.Gatherer
	now      func() time.Time // clock for age and plan-day computations (overridable for tests)
}

// newHandler wires a Handler. reg receives the engine metrics and is served at /metrics.
func newHandler(db *pgxpool.Pool, logger *zap.Logger, reg *prometheus.Registry) *Handler {
	return &Handler{
		db:       db,
		logger:   logger,
		metrics:  newEngineMetrics(reg),
		gatherer: reg,
		now:      time.Now,
	}
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches);
// pgx.ErrNoRows is expected and only logged at debug level.
func queryOne[T any](h *Handler, c *gin.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := h.db.Query(c, sql, args)
	if err != nil {
		h.logger.Error("[queryOne] query error", zap.Error(err))
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if errors.Is(err, pgx.ErrNoRows) {
		h.logger.Debug("[queryOne] no rows", zap.String("path", c.FullPath()))
	} else if err != nil {
		h.logger.Error("[queryOne] scan error", zap.Error(err))
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](h *Handler, c *gin.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := h.db.Query(c, sql, args)
	if err != nil {
		h.logger.Error("[queryMany] query error", zap.Error(err))
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		h.logger.Error("[queryMany] scan error", zap.Error(err))
	}
	return results, err
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. We use a pool (not a single conn) because
// Neon closes idle connections after ~5 minutes.
func getDBPool(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse DB URL: %w", err)
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from Neon's server-side prepared statement cache after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))

	// Public routes
	router.POST("/api/login", h.login)
	router.GET("/api/health-check/questions", h.getQuizQuestions)
	router.POST("/api/health-check/analyze", h.analyzeQuiz)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.POST("/engine/targets", h.computeTargetsStateless)
	api.POST("/engine/meal-plan", h.composeMealPlanStateless)
	api.POST("/engine/tips", h.generateTipsStateless)

	api.GET("/patients", h.listPatients)
	api.POST("/patients", h.createPatient)
	api.GET("/patients/:id", h.getPatient)
	api.PATCH("/patients/:id", h.patchPatient)
	api.GET("/patients/:id/anamnesis", h.getAnamnesis)
	api.POST("/patients/:id/anamnesis", h.saveAnamnesis)
	api.GET("/patients/:id/assessments", h.listAssessments)
	api.POST("/patients/:id/assessments", h.createAssessment)
	api.DELETE("/patients/:id/assessments/:assessmentId", h.deleteAssessment)
	api.GET("/patients/:id/targets", h.getPatientTargets)
	api.POST("/patients/:id/meal-plan", h.generatePatientMealPlan)
	api.GET("/patients/:id/tips", h.listPatientTips)
}
