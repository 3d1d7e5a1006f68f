package config

import (
	"time"

	"ecg-labeling-service/internal/pkg/challenge"
	"ecg-labeling-service/internal/pkg/ecgreport"
	"ecg-labeling-service/internal/pkg/utils"
)

type InternalConfig struct {
	App      App         `mapstructure:"app"`
	Labeler  AppLabeler  `mapstructure:"labeler"`
	Datasets AppDatasets `mapstructure:"datasets"`
	Sinks    AppSinks    `mapstructure:"sinks"`
}

type App struct {
	Env                       string `mapstructure:"env" validate:"required"`
	Port                      string `mapstructure:"port" validate:"required"`
	Version                   string `mapstructure:"version"`
	Address                   string `mapstructure:"address"`
	Timezone                  string `mapstructure:"timezone"`
	EndpointPrefix            string `mapstructure:"endpoint_prefix"`
	MaxRequests               int    `mapstructure:"max_requests" validate:"min=1"`
	MaxTimeRequestsPerSeconds int    `mapstructure:"max_time_requests_per_seconds" validate:"min=1"`
	ShutdownTimeoutInSeconds  int    `mapstructure:"shutdown_timeout_in_seconds" validate:"min=1"`
	RequestTimeoutInSeconds   int    `mapstructure:"request_timeout_in_seconds" validate:"min=1"`
}

type AppLabeler struct {
	// ReportCommentKey names the header comment holding the free-text report.
	ReportCommentKey string `mapstructure:"report_comment_key" validate:"required"`
	FollowOn         bool   `mapstructure:"follow_on"`
	SplitAnd         bool   `mapstructure:"split_and"`
	WholeWordAnd     bool   `mapstructure:"whole_word_and"`
	MinAge           int    `mapstructure:"min_age" validate:"min=0"`
	MaxAge           int    `mapstructure:"max_age" validate:"gtefield=MinAge"`
	Workers          int    `mapstructure:"workers" validate:"min=1"`
	// CronSpec is empty when scheduled relabeling is disabled.
	CronSpec       string `mapstructure:"cron_spec"`
	OutputFileName string `mapstructure:"output_filename" validate:"required"`
}

type AppDatasets struct {
	ConfigFile         string   `mapstructure:"config_file" validate:"required"`
	DataDir            string   `mapstructure:"data_dir" validate:"required"`
	EntriesDir         string   `mapstructure:"entries_dir" validate:"required"`
	SourcesURL         string   `mapstructure:"sources_url" validate:"required,url"`
	Teams              []string `mapstructure:"teams"`
	DownloadsPerMinute int      `mapstructure:"downloads_per_minute" validate:"min=1"`
	CheckpointsDir     string   `mapstructure:"checkpoints_dir" validate:"required"`
	ModelConfigDir     string   `mapstructure:"model_config_dir" validate:"required"`
}

type AppSinks struct {
	MongoDB     bool   `mapstructure:"mongodb"`
	Redis       bool   `mapstructure:"redis"`
	Minio       bool   `mapstructure:"minio"`
	RabbitMQ    bool   `mapstructure:"rabbitmq"`
	LabelsQueue string `mapstructure:"labels_queue" validate:"required_if=RabbitMQ true"`
	MinioBucket string `mapstructure:"minio_bucket" validate:"required_if=Minio true"`
}

func (c *InternalConfig) Validate() error {
	return utils.ValidateStruct(c)
}

func (l AppLabeler) ExtractOptions() ecgreport.Options {
	return ecgreport.Options{
		FollowOn:     l.FollowOn,
		SplitAnd:     l.SplitAnd,
		WholeWordAnd: l.WholeWordAnd,
	}
}

func (l AppLabeler) AgeFilter() challenge.AgeFilter {
	return challenge.AgeFilter{Min: l.MinAge, Max: l.MaxAge}
}

func (a App) RequestTimeout() time.Duration {
	return time.Duration(a.RequestTimeoutInSeconds) * time.Second
}

func (a App) ShutdownTimeout() time.Duration {
	return time.Duration(a.ShutdownTimeoutInSeconds) * time.Second
}
