package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/diewo77/medicine-recommendation/auth"
	"github.com/diewo77/medicine-recommendation/internal/config"
	"github.com/diewo77/medicine-recommendation/internal/db"
	"github.com/diewo77/medicine-recommendation/internal/knowledge"
	"github.com/diewo77/medicine-recommendation/internal/logger"
	"github.com/diewo77/medicine-recommendation/internal/predict"
	"github.com/diewo77/medicine-recommendation/internal/storage"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(cfg.Log); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}
	if !cfg.App.Dev {
		gin.SetMode(gin.ReleaseMode)
	}

	dbConn, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Migrate(dbConn, cfg.Database); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if *migrateOnlyFlag {
		log.Info("Migrations completed successfully")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tables := knowledge.NewTables()
	kb, model, err := loadReferenceData(cfg.Model, tables)
	if err != nil {
		log.Fatalf("Failed to load reference data: %v", err)
	}

	sessions, err := newSessionStore(ctx, cfg.Session)
	if err != nil {
		log.Fatalf("Failed to set up sessions: %v", err)
	}
	files, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to set up storage: %v", err)
	}

	app := NewApp(Deps{
		Config:     cfg,
		DB:         dbConn,
		Sessions:   sessions,
		Files:      files,
		Classifier: model,
		Tables:     tables,
		Knowledge:  kb,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Infof("Server starting on port %s (dev=%v)", cfg.Server.Port, cfg.App.Dev)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Error during shutdown: %v", err)
	}
	log.Info("Server stopped gracefully")
}

// loadReferenceData loads the advice tables and the classifier, refusing to
// start if the model does not line up with the symptom and disease tables.
func loadReferenceData(cfg config.ModelConfig, tables *knowledge.Tables) (*knowledge.Base, *predict.LinearModel, error) {
	var (
		kb  *knowledge.Base
		err error
	)
	if cfg.DataDir != "" {
		kb, err = knowledge.LoadDir(cfg.DataDir)
	} else {
		kb, err = knowledge.LoadEmbedded()
	}
	if err != nil {
		return nil, nil, err
	}

	var model *predict.LinearModel
	if cfg.Path != "" {
		model, err = predict.LoadLinearModelFile(cfg.Path)
	} else {
		model, err = predict.EmbeddedModel()
	}
	if err != nil {
		return nil, nil, err
	}
	if err := predict.Verify(model.Features(), model.Classes(), tables); err != nil {
		return nil, nil, err
	}
	return kb, model, nil
}

func newSessionStore(ctx context.Context, cfg config.SessionConfig) (auth.Store, error) {
	ttl := time.Duration(cfg.TTL) * time.Second
	if cfg.Backend == "redis" {
		client, err := auth.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return auth.NewRedisStore(client, ttl), nil
	}
	store := auth.NewMemoryStore(ttl)
	go store.RunSweeper(ctx, time.Minute)
	return store, nil
}
