package main

import (
	"context"
	"fmt"
	"os"

	"ecg-labeling-service/internal/app/config"
	"ecg-labeling-service/internal/app/contracts"
	"ecg-labeling-service/internal/app/delivery/command"
	"ecg-labeling-service/internal/app/drivers/database"
	"ecg-labeling-service/internal/app/drivers/logger"
	"ecg-labeling-service/internal/app/drivers/messaging"
	"ecg-labeling-service/internal/app/drivers/storage"
	"ecg-labeling-service/internal/app/services/core/datasets"
	"ecg-labeling-service/internal/app/services/core/labels"
	"ecg-labeling-service/internal/app/services/shared/locker"
	"ecg-labeling-service/internal/app/services/shared/publisher"
	"ecg-labeling-service/internal/app/services/shared/redis"
	minioStorage "ecg-labeling-service/internal/app/services/shared/storage"

	"github.com/mitchellh/cli"
	"go.uber.org/zap"
)

// Version sets the default build version
var Version = "develop"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()
	log := logger.NewCLILogger(driverConfig.Logger.Level)

	bootstrap := &config.Bootstrap{
		Logger:         log,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), internalConfig.App.ShutdownTimeout())
		defer cancel()
		if err := bootstrap.Shutdown(ctx); err != nil {
			log.Warn("Error closing drivers", zap.Error(err))
		}
	}()

	meta, err := bootstrapingTheApp(bootstrap)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	c := cli.NewCLI("ecglabel", Version)
	c.Args = args
	c.Commands = command.Commands(meta)
	c.HelpWriter = os.Stdout

	exitStatus, err := c.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return exitStatus
}

// bootstrapingTheApp connects only the sinks enabled in the environment, so
// the tool runs without any infrastructure by default.
func bootstrapingTheApp(bootstrap *config.Bootstrap) (*command.Meta, error) {
	log := bootstrap.Logger
	internalConfig := bootstrap.InternalConfig
	driverConfig := bootstrap.DriverConfig

	var lockerService contracts.LockerService
	if internalConfig.Sinks.Redis {
		bootstrap.Redis = database.NewRedisClient(driverConfig)
		lockerService = locker.NewLockService(redis.NewRedisRepository(bootstrap.Redis), log)
	}

	var labeledRecordRepository contracts.LabeledRecordRepository
	if internalConfig.Sinks.MongoDB {
		bootstrap.MongoDB = database.NewMongoDB(driverConfig)
		labeledRecordRepository = labels.NewLabeledRecordMongoRepository(bootstrap.MongoDB)
	}

	var labelPublisher contracts.LabelPublisher
	if internalConfig.Sinks.RabbitMQ {
		bootstrap.RabbitMQ = messaging.NewRabbitMQ(driverConfig)
		var err error
		labelPublisher, err = publisher.NewLabelPublisher(bootstrap.RabbitMQ, internalConfig.Sinks.LabelsQueue)
		if err != nil {
			return nil, err
		}
	}

	var objectStorage contracts.Storage
	if internalConfig.Sinks.Minio {
		bootstrap.Minio = storage.NewMinio(driverConfig, internalConfig.Sinks.MinioBucket)
		objectStorage = minioStorage.NewMinioStorage(bootstrap.Minio)
	}

	commandRunner := datasets.NewExecCommandRunner(os.Stdout, os.Stderr, log)
	datasetsUsecase := datasets.NewDatasetsUsecase(commandRunner, lockerService, nil, internalConfig, log)
	labelsUsecase := labels.NewLabelsUsecase(labeledRecordRepository, labelPublisher, objectStorage, internalConfig, log)

	return &command.Meta{
		Ui: &cli.ColoredUi{
			ErrorColor: cli.UiColorRed,
			WarnColor:  cli.UiColorYellow,
			Ui: &cli.BasicUi{
				Reader:      os.Stdin,
				Writer:      os.Stdout,
				ErrorWriter: os.Stderr,
			},
		},
		Log:             log,
		InternalConfig:  internalConfig,
		DatasetsUsecase: datasetsUsecase,
		LabelsUsecase:   labelsUsecase,
	}, nil
}
