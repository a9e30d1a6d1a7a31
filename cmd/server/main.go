package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/citlabs/labsched-backend/internal/config"
	"github.com/citlabs/labsched-backend/internal/database"
	"github.com/citlabs/labsched-backend/internal/handler"
	"github.com/citlabs/labsched-backend/internal/logger"
	"github.com/citlabs/labsched-backend/internal/repository"
	"github.com/citlabs/labsched-backend/internal/router"
	"github.com/citlabs/labsched-backend/internal/service"
	"github.com/citlabs/labsched-backend/internal/store"
	"github.com/citlabs/labsched-backend/internal/validator"
	"github.com/citlabs/labsched-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting LabSched Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	regulationRepo := repository.NewRegulationRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	labRepo := repository.NewLabRepository(pool)
	facultyRepo := repository.NewFacultyRepository(pool)
	phaseRepo := repository.NewPhaseRepository(pool)
	cycleRepo := repository.NewCycleRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)

	// ─── Load Saved Allocations ────────────────────────────────────────
	// The snapshot collection is read once BEFORE accepting traffic so
	// every request sees the same in-memory state.
	snapshots := store.Load(ctx, store.NewRedisKV(rdb), log)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, adminRepo, rdb)
	catalogService := service.NewCatalogService(
		regulationRepo, departmentRepo, labRepo, facultyRepo,
		phaseRepo, cycleRepo, rdb, cfg.CatalogCacheTTL, log,
	)
	scheduleService := service.NewScheduleService(catalogService, snapshots, rdb, log)
	exportService := service.NewExportService(cfg, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Catalog:    handler.NewCatalogHandler(catalogService),
		Allocation: handler.NewAllocationHandler(scheduleService),
		Snapshot:   handler.NewSnapshotHandler(scheduleService),
		Export:     handler.NewExportHandler(scheduleService, exportService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	persistWorker := worker.NewAssignmentPersistWorker(assignmentRepo, rdb, log)
	go persistWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the persist worker and wait for its queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow the worker to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
