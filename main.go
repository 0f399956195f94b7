package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/NarakCODE/real-estate-management/internal/api"
	"github.com/NarakCODE/real-estate-management/internal/cache"
	"github.com/NarakCODE/real-estate-management/internal/config"
	"github.com/NarakCODE/real-estate-management/internal/db"
	"github.com/NarakCODE/real-estate-management/internal/email"
	"github.com/NarakCODE/real-estate-management/internal/services"
	"github.com/NarakCODE/real-estate-management/internal/storage"
	"github.com/NarakCODE/real-estate-management/internal/tasks"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'bg' (background worker), 'all' (default)")

func main() {
	flag.Parse()

	cfg, err := config.Load(*runMode)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	mongoClient, mongoDb, err := db.ConnectDB(cfg.MongoURI, cfg.MongoDbName)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.DisconnectDB(mongoClient); err != nil {
			logger.Error("error disconnecting from MongoDB", zap.Error(err))
		}
	}()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	if err := db.EnsureIndexes(startupCtx, mongoDb); err != nil {
		logger.Fatal("failed to ensure indexes", zap.Error(err))
	}

	roleService := services.NewRoleService(mongoDb)
	if err := roleService.EnsureSeeded(startupCtx); err != nil {
		logger.Fatal("failed to seed roles and permissions", zap.Error(err))
	}

	redisClient, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := cache.DisconnectRedis(redisClient); err != nil {
			logger.Error("error disconnecting from Redis", zap.Error(err))
		}
	}()

	store, err := storage.NewS3Store(cfg)
	if err != nil {
		logger.Fatal("failed to initialize object storage", zap.Error(err))
	}

	emailSender := email.NewSender(cfg, logger)
	taskClient := tasks.NewClient(redisClient)
	defer taskClient.Close()

	propertyService := services.NewPropertyService(mongoDb)
	processor := tasks.NewProcessor(cfg, emailSender, store, propertyService, logger)

	var wg sync.WaitGroup
	var apiSrv *http.Server
	var taskSrv *asynq.Server

	logger.Info("starting", zap.String("mode", cfg.RunMode))

	apiMode := func() {
		router := api.SetupRouter(cfg, mongoDb, redisClient, taskClient, store, logger)
		apiSrv = &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: router,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("API listening", zap.String("addr", apiSrv.Addr))
			if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal("API server error", zap.Error(err))
			}
			logger.Info("API server stopped")
		}()
	}

	bgMode := func() {
		srv, mux := tasks.SetupServer(redisClient, processor, logger)
		taskSrv = srv
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("background worker starting")
			if err := taskSrv.Run(mux); err != nil {
				logger.Fatal("background worker error", zap.Error(err))
			}
			logger.Info("background worker stopped")
		}()
	}

	switch cfg.RunMode {
	case "api":
		apiMode()
	case "bg":
		bgMode()
	case "all":
		apiMode()
		bgMode()
	default:
		logger.Fatal("invalid run mode", zap.String("mode", cfg.RunMode))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutting down", zap.String("signal", sig.String()))

	if apiSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := apiSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("API server shutdown error", zap.Error(err))
		}
	}
	if taskSrv != nil {
		taskSrv.Shutdown()
	}

	wg.Wait()
	logger.Info("shutdown complete")
}
