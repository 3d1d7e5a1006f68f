package labels

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"ecg-labeling-service/internal/app/config"
	"ecg-labeling-service/internal/app/contracts"
	"ecg-labeling-service/internal/app/services/shared/locker"
	"ecg-labeling-service/internal/pkg/constvars"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Record directories of the wget mirrors, relative to the datasets directory.
var (
	NorwegianRecordsDir = filepath.Join(constvars.DatasetNorwegian, "1.0.0")
	ChallengeRecordsDir = filepath.Join(constvars.DatasetChallenge2020, "1.0.2", "training")
)

// Worker periodically relabels the athlete dataset so stored labels follow
// labeler changes. Only the instance holding the leader lock runs a pass.
type Worker struct {
	log          *zap.Logger
	cfg          *config.InternalConfig
	locker       contracts.LockerService
	labelUsecase contracts.LabelsUsecase
	cron         *cron.Cron
	runCtx       context.Context
	cancel       context.CancelFunc
}

func NewWorker(log *zap.Logger, cfg *config.InternalConfig, lockerSvc contracts.LockerService, labelsUsecase contracts.LabelsUsecase) *Worker {
	return &Worker{log: log, cfg: cfg, locker: lockerSvc, labelUsecase: labelsUsecase}
}

func (w *Worker) Start(ctx context.Context) error {
	w.runCtx, w.cancel = context.WithCancel(ctx)
	c := cron.New()
	spec := w.cfg.Labeler.CronSpec
	if _, err := c.AddFunc(spec, func() { w.runOnce(w.runCtx) }); err != nil {
		w.cancel()
		return err
	}
	c.Start()
	w.cron = c
	w.log.Info("labels.worker started", zap.String(constvars.LoggingCronSpecKey, spec))
	return nil
}

// Stop cancels an in-flight pass and waits for it to return.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		ctx := w.cron.Stop()
		<-ctx.Done()
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	ttl := constvars.RelabelLockExpiration
	acquired, token, err := w.locker.TryLock(ctx, constvars.RedisKeyRelabelLeaderLock, ttl)
	if err != nil {
		w.log.Warn("labels.worker: leader lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Info("labels.worker: leader lock not acquired; another instance is running")
		return
	}
	defer w.locker.Unlock(context.WithoutCancel(ctx), constvars.RedisKeyRelabelLeaderLock, token)

	stopRefresh := locker.KeepAlive(ctx, w.log, w.locker, constvars.RedisKeyRelabelLeaderLock, token, ttl)
	defer stopRefresh()

	datasetsPath, err := config.LoadDatasetsPath(w.cfg.Datasets.ConfigFile, w.cfg.Datasets.DataDir)
	if err != nil {
		w.log.Warn("labels.worker: cannot resolve datasets path", zap.Error(err))
		return
	}

	dir := filepath.Join(datasetsPath, NorwegianRecordsDir)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		w.log.Info("labels.worker: dataset not downloaded yet", zap.String(constvars.LoggingPathKey, dir))
		return
	}

	summary, err := w.labelUsecase.LabelNorwegian(ctx, dir)
	if err != nil {
		w.log.Warn("labels.worker: relabeling finished with errors", zap.Error(err))
	}
	if summary != nil {
		w.log.Info("labels.worker: relabeling done",
			zap.String(constvars.LoggingRunIDKey, summary.RunID),
			zap.Int("labeled", summary.Labeled),
			zap.Int("skipped", len(summary.Skipped)),
		)
	}
}
