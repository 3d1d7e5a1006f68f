package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecg-labeling-service/internal/app/config"
	"ecg-labeling-service/internal/app/contracts"
	"ecg-labeling-service/internal/app/delivery/http/controllers"
	"ecg-labeling-service/internal/app/delivery/http/middlewares"
	"ecg-labeling-service/internal/app/delivery/http/routers"
	"ecg-labeling-service/internal/app/drivers/database"
	"ecg-labeling-service/internal/app/drivers/logger"
	"ecg-labeling-service/internal/app/drivers/messaging"
	"ecg-labeling-service/internal/app/drivers/storage"
	"ecg-labeling-service/internal/app/services/core/findings"
	"ecg-labeling-service/internal/app/services/core/labels"
	"ecg-labeling-service/internal/app/services/shared/locker"
	"ecg-labeling-service/internal/app/services/shared/publisher"
	"ecg-labeling-service/internal/app/services/shared/redis"
	minioStorage "ecg-labeling-service/internal/app/services/shared/storage"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Version sets the default build version
var Version = "develop"

// Tag sets the default latest commit tag
var Tag = "0.0.1-rc"

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)
	log.Info("Starting ECG labeling service", zap.String("version", Version), zap.String("tag", Tag))

	if err := internalConfig.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatal("Error loading location", zap.Error(err))
	}
	time.Local = location

	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		Logger:         log,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	if internalConfig.Sinks.MongoDB {
		bootstrap.MongoDB = database.NewMongoDB(driverConfig)
	}
	if internalConfig.Sinks.Redis {
		bootstrap.Redis = database.NewRedisClient(driverConfig)
	}
	if internalConfig.Sinks.Minio {
		bootstrap.Minio = storage.NewMinio(driverConfig, internalConfig.Sinks.MinioBucket)
	}
	if internalConfig.Sinks.RabbitMQ {
		bootstrap.RabbitMQ = messaging.NewRabbitMQ(driverConfig)
	}

	if err := bootstrapingTheApp(bootstrap); err != nil {
		log.Fatal("Error bootstrapping the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: bootstrap.Router,
	}

	go func() {
		log.Info("Server listening", zap.String("port", internalConfig.App.Port))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), internalConfig.App.ShutdownTimeout())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Error("Error closing drivers", zap.Error(err))
	}

	log.Info("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) error {
	log := bootstrap.Logger
	internalConfig := bootstrap.InternalConfig

	// Redis
	var redisRepository contracts.RedisRepository
	var lockerService contracts.LockerService
	if bootstrap.Redis != nil {
		redisRepository = redis.NewRedisRepository(bootstrap.Redis)
		lockerService = locker.NewLockService(redisRepository, log)
	}

	// Sinks
	var labeledRecordRepository contracts.LabeledRecordRepository
	if bootstrap.MongoDB != nil {
		mongoRepository := labels.NewLabeledRecordMongoRepository(bootstrap.MongoDB)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoRepository.EnsureIndexes(ctx); err != nil {
			return err
		}
		labeledRecordRepository = mongoRepository
	}

	var labelPublisher contracts.LabelPublisher
	if bootstrap.RabbitMQ != nil {
		var err error
		labelPublisher, err = publisher.NewLabelPublisher(bootstrap.RabbitMQ, internalConfig.Sinks.LabelsQueue)
		if err != nil {
			return err
		}
	}

	var objectStorage contracts.Storage
	if bootstrap.Minio != nil {
		objectStorage = minioStorage.NewMinioStorage(bootstrap.Minio)
	}

	// Middlewares
	middlewares := middlewares.NewMiddlewares(log, internalConfig)

	// Findings
	findingsUsecase := findings.NewFindingsUsecase(redisRepository, internalConfig, log)
	findingsController := controllers.NewFindingsController(log, findingsUsecase, internalConfig)

	// Labels
	labelsUsecase := labels.NewLabelsUsecase(labeledRecordRepository, labelPublisher, objectStorage, internalConfig, log)
	var labelsController *controllers.LabelsController
	if labeledRecordRepository != nil {
		labelsController = controllers.NewLabelsController(log, labelsUsecase, internalConfig)
	}

	// Relabel worker, only with a leader lock to coordinate replicas
	if internalConfig.Labeler.CronSpec != "" {
		if lockerService == nil {
			log.Warn("Relabel worker disabled: it needs the redis sink for its leader lock")
		} else {
			worker := labels.NewWorker(log, internalConfig, lockerService, labelsUsecase)
			if err := worker.Start(context.Background()); err != nil {
				return err
			}
			bootstrap.WorkerStop = worker.Stop
		}
	}

	routers.SetupRoutes(bootstrap.Router, internalConfig, middlewares, findingsController, labelsController)
	return nil
}
