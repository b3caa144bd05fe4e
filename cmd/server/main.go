package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"warehouse-backend/internal/archive"
	"warehouse-backend/internal/auth"
	"warehouse-backend/internal/cache"
	"warehouse-backend/internal/config"
	"warehouse-backend/internal/database"
	"warehouse-backend/internal/db"
	"warehouse-backend/internal/events"
	"warehouse-backend/internal/handlers"
	"warehouse-backend/internal/health"
	h "warehouse-backend/internal/http"
	"warehouse-backend/internal/idgen"
	"warehouse-backend/internal/logging"
	"warehouse-backend/internal/metrics"
	"warehouse-backend/internal/middleware"
	"warehouse-backend/internal/reconcile"
	"warehouse-backend/internal/repositories"
	"warehouse-backend/internal/services"
	"warehouse-backend/internal/timeutil"
	"warehouse-backend/internal/workflows"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	node := flag.Int64("node", 1, "Snowflake node number, unique per replica")
	migrationsDir := flag.String("migrations", "migrations", "Directory of SQL migrations")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	if err := timeutil.SetZone(cfg.Reconcile.Timezone); err != nil {
		logger.WithError(err).Warnf("unknown timezone %q, keeping default", cfg.Reconcile.Timezone)
	}
	if err := idgen.Init(*node); err != nil {
		log.Fatalf("snowflake node: %v", err)
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.NewMigrator(pool, *migrationsDir, logger).RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	cancel()

	// Redis is optional: drafts and the cross-instance save lock degrade to
	// no-ops without it.
	if cfg.Redis.Enabled {
		if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			logger.WithError(err).Warn("redis unavailable, live drafts will not survive restarts")
		} else {
			logger.Info("redis connected")
		}
	}
	defer cache.Close()
	rdb := cache.GetClient()

	archiver, err := archive.New(context.Background(), cfg)
	if err != nil {
		logger.WithError(err).Warn("session archive disabled")
		archiver = nil
	}

	// Repositories
	stockRepo := repositories.NewStockRepository(pool)
	orderRepo := repositories.NewPurchaseOrderRepository(pool)
	returnRefRepo := repositories.NewReturnReferenceRepository(pool)
	putAwaySessionRepo := repositories.NewPutAwaySessionRepository(pool, stockRepo)
	returnSessionRepo := repositories.NewReturnSessionRepository(pool, stockRepo)
	locationRepo := repositories.NewLocationRepository(pool)

	// Services
	putAwayService := services.NewPutAwaySessionService(orderRepo, putAwaySessionRepo, locationRepo, archiver, logger)
	returnService := services.NewReturnSessionService(returnRefRepo, returnSessionRepo, locationRepo, archiver, logger)
	locationService := services.NewLocationService(locationRepo)

	hub := events.NewHub(logger)
	appCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go hub.Run(appCtx)
	go metrics.NewCollector(pool, hub, 15*time.Second).Run(appCtx)

	workbench := services.NewWorkbenchService(
		map[string]reconcile.SessionService{
			workflows.NamePutAway: putAwayService,
			workflows.NameReturn:  returnService,
		},
		cache.NewDraftStore(rdb, cfg.DraftTTL()),
		cache.NewLocker(rdb, cfg.SaveLockTTL()),
		hub,
		logger,
		timeutil.Now,
	)
	go workbench.RunEviction(appCtx, 5*time.Minute, cfg.StoreIdle())

	// HTTP
	validate := validator.New()
	authMiddleware := middleware.NewAuthMiddleware(auth.NewJWTManager(cfg))
	router := h.NewRouter(
		handlers.NewSessionHandler(workbench, services.NewReportService(), validate, logger),
		handlers.NewLocationHandler(locationService, validate, logger),
		handlers.NewHealthHandler(health.NewHealthChecker(pool, rdb)),
		hub,
		authMiddleware,
		logger,
	)
	handler := middleware.NewCORS(cfg)(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", srv.Addr).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-appCtx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}
