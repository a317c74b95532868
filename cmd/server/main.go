package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"entity-linking-service/internal/adapters/primary/http/handlers"
	"entity-linking-service/internal/adapters/primary/http/middleware"
	"entity-linking-service/internal/adapters/secondary/artifactfs"
	"entity-linking-service/internal/adapters/secondary/k8sbatch"
	"entity-linking-service/internal/adapters/secondary/localexec"
	"entity-linking-service/internal/adapters/secondary/postgres"
	"entity-linking-service/internal/config"
	output "entity-linking-service/internal/core/ports/output"
	"entity-linking-service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Create database pool
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("parse db config: %v", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Fatalf("create db pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("ping db: %v", err)
	}
	log.Info("database connection established")

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters (Output Ports - Repositories)
	runRepo := postgres.NewTrainingRunRepository(pool)
	checkpointRepo := postgres.NewCheckpointRepository(pool)
	jobRepo := postgres.NewLinkingJobRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)

	// Artifact store over the trainer's output layout
	store := artifactfs.NewStore(cfg.Trainer.ArtifactRoot)

	// Job launcher: cluster batch jobs when enabled, local processes when a
	// trainer binary is configured, otherwise none.
	var launcher output.JobLauncher
	if cfg.Kubernetes.Enabled {
		l, err := k8sbatch.NewLauncher(&cfg.Kubernetes)
		if err != nil {
			log.Warnf("batch launcher init failed (continuing without cluster launches): %v", err)
		} else {
			launcher = l
			log.Info("cluster batch launcher initialized")
		}
	} else if cfg.Trainer.Binary != "" {
		launcher = localexec.NewLauncher(&cfg.Trainer, log.StandardLogger())
		log.Info("local process launcher initialized")
	} else {
		log.Info("no job launcher configured")
	}

	// Core Services (Application Layer)
	runSvc := services.NewTrainingRunService(runRepo, launcher)
	checkpointSvc := services.NewCheckpointService(checkpointRepo, runRepo, store)
	jobSvc := services.NewLinkingJobService(jobRepo, catalogRepo, runRepo, launcher, store)
	catalogSvc := services.NewCatalogService(catalogRepo, jobRepo)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(runSvc, checkpointSvc, jobSvc, catalogSvc)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group("/api/v1/entity-linking")
	h.RegisterRoutes(api)

	// Health check with DB ping
	router.GET("/healthz", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
