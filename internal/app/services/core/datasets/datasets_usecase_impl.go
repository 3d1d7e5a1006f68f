package datasets

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"ecg-labeling-service/internal/app/config"
	"ecg-labeling-service/internal/app/contracts"
	"ecg-labeling-service/internal/app/services/shared/locker"
	"ecg-labeling-service/internal/pkg/constvars"
	"ecg-labeling-service/internal/pkg/dto/responses"
	"ecg-labeling-service/internal/pkg/exceptions"
	"ecg-labeling-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type datasetsUsecase struct {
	CommandRunner  contracts.CommandRunner
	LockerService  contracts.LockerService
	HTTPClient     *http.Client
	InternalConfig *config.InternalConfig
	Log            *zap.Logger
}

// NewDatasetsUsecase builds the dataset acquisition use case. lockerService
// may be nil when no Redis is configured; downloads are then not guarded
// against concurrent runs.
func NewDatasetsUsecase(
	commandRunner contracts.CommandRunner,
	lockerService contracts.LockerService,
	httpClient *http.Client,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.DatasetsUsecase {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &datasetsUsecase{
		CommandRunner:  commandRunner,
		LockerService:  lockerService,
		HTTPClient:     httpClient,
		InternalConfig: internalConfig,
		Log:            logger,
	}
}

// Download fetches the named datasets, or every source that is not opt-in
// when names is empty. Datasets whose directory already exists are skipped.
// The resolved datasets path is persisted so later runs and the training
// scripts find it.
func (uc *datasetsUsecase) Download(ctx context.Context, names []string) ([]responses.DatasetDownload, error) {
	uc.Log.Info("datasetsUsecase.Download called", zap.Strings("datasets", names))

	var results []responses.DatasetDownload
	err := utils.LogOperation(uc.Log, "datasetsUsecase.Download", utils.GetRequestID(ctx), func() error {
		var err error
		results, err = uc.download(ctx, names)
		return err
	})
	return results, err
}

func (uc *datasetsUsecase) download(ctx context.Context, names []string) ([]responses.DatasetDownload, error) {
	sources, err := selectSources(names)
	if err != nil {
		return nil, err
	}

	datasetsPath, err := uc.DatasetsPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(datasetsPath, 0o755); err != nil {
		return nil, exceptions.ErrDatasetDownload(err, datasetsPath)
	}
	if err := config.SaveDatasetsPath(uc.InternalConfig.Datasets.ConfigFile, datasetsPath); err != nil {
		return nil, err
	}

	if uc.LockerService != nil {
		ttl := constvars.DownloadLockExpiration
		acquired, token, err := uc.LockerService.TryLock(ctx, constvars.RedisKeyDatasetDownloadLck, ttl)
		if err != nil {
			return nil, err
		}
		if !acquired {
			return nil, exceptions.ErrDatasetLocked()
		}
		defer uc.LockerService.Unlock(context.WithoutCancel(ctx), constvars.RedisKeyDatasetDownloadLck, token)

		stopRefresh := locker.KeepAlive(ctx, uc.Log, uc.LockerService, constvars.RedisKeyDatasetDownloadLck, token, ttl)
		defer stopRefresh()
	}

	results := make([]responses.DatasetDownload, 0, len(sources))
	for _, source := range sources {
		target := filepath.Join(datasetsPath, source.Name)
		if exists(target) {
			uc.Log.Info("datasetsUsecase.Download dataset already downloaded",
				zap.String(constvars.LoggingDatasetKey, source.Name),
				zap.String(constvars.LoggingPathKey, target),
			)
			results = append(results, responses.DatasetDownload{Name: source.Name, Path: target, Skipped: true})
			continue
		}

		uc.Log.Info("datasetsUsecase.Download downloading dataset",
			zap.String(constvars.LoggingDatasetKey, source.Name),
			zap.String(constvars.LoggingURLKey, source.URL),
			zap.String("size", source.Size),
		)
		name, args := source.Command(datasetsPath)
		if err := uc.CommandRunner.Run(ctx, "", name, args...); err != nil {
			uc.Log.Error("datasetsUsecase.Download error calling CommandRunner.Run",
				zap.String(constvars.LoggingDatasetKey, source.Name),
				zap.Error(err),
			)
			return results, exceptions.ErrDatasetDownload(err, source.Name)
		}

		results = append(results, responses.DatasetDownload{Name: source.Name, Path: target})
		uc.Log.Info("datasetsUsecase.Download finished dataset", zap.String(constvars.LoggingDatasetKey, source.Name))
	}

	return results, nil
}

// DatasetsPath resolves the datasets directory from config.ini, falling back
// to the configured data dir. A leading "~" is expanded.
func (uc *datasetsUsecase) DatasetsPath() (string, error) {
	datasetsPath, err := config.LoadDatasetsPath(uc.InternalConfig.Datasets.ConfigFile, uc.InternalConfig.Datasets.DataDir)
	if err != nil {
		return "", err
	}
	return expandHome(datasetsPath), nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
