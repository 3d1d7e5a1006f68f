package config

import (
	"ecg-labeling-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "ecg"),
			Username: utils.GetEnvString("MONGODB_USERNAME", ""),
			Password: utils.GetEnvString("MONGODB_PASSWORD", ""),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "minioadmin"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "minioadmin"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                       utils.GetEnvString("APP_ENV", "development"),
			Port:                      utils.GetEnvString("APP_PORT", ":8080"),
			Version:                   utils.GetEnvString("APP_VERSION", "v1"),
			Address:                   utils.GetEnvString("APP_ADDRESS", "localhost"),
			Timezone:                  utils.GetEnvString("APP_TIMEZONE", "Europe/Oslo"),
			EndpointPrefix:            utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:               utils.GetEnvInt("APP_MAX_REQUEST", 100),
			MaxTimeRequestsPerSeconds: utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 10),
			ShutdownTimeoutInSeconds:  utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			RequestTimeoutInSeconds:   utils.GetEnvInt("APP_REQUEST_TIMEOUT", 5),
		},
		Labeler: AppLabeler{
			ReportCommentKey: utils.GetEnvString("LABELER_REPORT_COMMENT_KEY", "Comment"),
			FollowOn:         utils.GetEnvBool("LABELER_FOLLOW_ON", true),
			SplitAnd:         utils.GetEnvBool("LABELER_SPLIT_AND", true),
			WholeWordAnd:     utils.GetEnvBool("LABELER_WHOLE_WORD_AND", false),
			MinAge:           utils.GetEnvInt("LABELER_MIN_AGE", 18),
			MaxAge:           utils.GetEnvInt("LABELER_MAX_AGE", 90),
			Workers:          utils.GetEnvInt("LABELER_WORKERS", 8),
			CronSpec:         utils.GetEnvString("LABELER_CRON_SPEC", ""),
			OutputFileName:   utils.GetEnvString("LABELER_OUTPUT_FILENAME", "labels.csv"),
		},
		Datasets: AppDatasets{
			ConfigFile:         utils.GetEnvString("DATASETS_CONFIG_FILE", "config.ini"),
			DataDir:            utils.GetEnvString("DATASETS_DATA_DIR", "data"),
			EntriesDir:         utils.GetEnvString("DATASETS_ENTRIES_DIR", "entries"),
			SourcesURL:         utils.GetEnvString("DATASETS_SOURCES_URL", "https://physionet.org/static/published-projects/challenge-2020/1.0.2/sources/"),
			Teams:              utils.GetEnvStringSlice("DATASETS_TEAMS", []string{"Prna", "DSAIL_SNU"}),
			DownloadsPerMinute: utils.GetEnvInt("DATASETS_DOWNLOADS_PER_MINUTE", 30),
			CheckpointsDir:     utils.GetEnvString("DATASETS_CHECKPOINTS_DIR", "checkpoints/original"),
			ModelConfigDir:     utils.GetEnvString("DATASETS_MODEL_CONFIG_DIR", "config"),
		},
		Sinks: AppSinks{
			MongoDB:     utils.GetEnvBool("SINKS_MONGODB_ENABLED", false),
			Redis:       utils.GetEnvBool("SINKS_REDIS_ENABLED", false),
			Minio:       utils.GetEnvBool("SINKS_MINIO_ENABLED", false),
			RabbitMQ:    utils.GetEnvBool("SINKS_RABBITMQ_ENABLED", false),
			LabelsQueue: utils.GetEnvString("SINKS_RABBITMQ_LABELS_QUEUE", "ecg.labels"),
			MinioBucket: utils.GetEnvString("SINKS_MINIO_BUCKET_NAME", "ecg-labels"),
		},
	}
}
