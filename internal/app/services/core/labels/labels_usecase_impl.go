package labels

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ecg-labeling-service/internal/app/config"
	"ecg-labeling-service/internal/app/contracts"
	"ecg-labeling-service/internal/app/models"
	"ecg-labeling-service/internal/pkg/constvars"
	"ecg-labeling-service/internal/pkg/dto/requests"
	"ecg-labeling-service/internal/pkg/dto/responses"
	"ecg-labeling-service/internal/pkg/ecgreport"
	"ecg-labeling-service/internal/pkg/exceptions"
	"ecg-labeling-service/internal/pkg/labeltable"
	"ecg-labeling-service/internal/pkg/utils"
	"ecg-labeling-service/internal/pkg/wfdb"

	"github.com/hashicorp/go-multierror"
	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"
)

type labelsUsecase struct {
	LabeledRecordRepository contracts.LabeledRecordRepository
	LabelPublisher          contracts.LabelPublisher
	Storage                 contracts.Storage
	InternalConfig          *config.InternalConfig
	Log                     *zap.Logger
	now                     func() time.Time
}

// NewLabelsUsecase wires the labeling pipeline. The repository, publisher and
// storage are sinks and may each be nil when disabled.
func NewLabelsUsecase(
	labeledRecordRepository contracts.LabeledRecordRepository,
	labelPublisher contracts.LabelPublisher,
	storage contracts.Storage,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.LabelsUsecase {
	return &labelsUsecase{
		LabeledRecordRepository: labeledRecordRepository,
		LabelPublisher:          labelPublisher,
		Storage:                 storage,
		InternalConfig:          internalConfig,
		Log:                     logger,
		now:                     time.Now,
	}
}

func (uc *labelsUsecase) LabelNorwegian(ctx context.Context, dir string) (*responses.LabelRun, error) {
	labeler := norwegianLabeler(uc.Log, uc.InternalConfig.Labeler.ReportCommentKey, uc.InternalConfig.Labeler.ExtractOptions())
	return uc.run(ctx, constvars.DatasetNorwegian, dir, labeler)
}

func (uc *labelsUsecase) LabelChallenge(ctx context.Context, dir string) (*responses.LabelRun, error) {
	labeler := challengeLabeler(uc.InternalConfig.Labeler.AgeFilter())
	return uc.run(ctx, constvars.DatasetChallenge2020, dir, labeler)
}

func (uc *labelsUsecase) FindLabeledRecord(ctx context.Context, request *requests.FindLabeledRecord) (*responses.LabeledRecord, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("labelsUsecase.FindLabeledRecord called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDatasetKey, request.Dataset),
		zap.String(constvars.LoggingRecordKey, request.Record),
	)

	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}
	if uc.LabeledRecordRepository == nil {
		return nil, exceptions.ErrLabeledRecordNotFound(request.Dataset, request.Record)
	}

	record, err := uc.LabeledRecordRepository.FindByKey(ctx, request.Dataset, request.Record)
	if err != nil {
		uc.Log.Error("labelsUsecase.FindLabeledRecord error calling LabeledRecordRepository.FindByKey",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if record == nil {
		return nil, exceptions.ErrLabeledRecordNotFound(request.Dataset, request.Record)
	}

	return buildLabeledRecordResponse(record), nil
}

func (uc *labelsUsecase) run(ctx context.Context, dataset, dir string, labeler recordLabeler) (*responses.LabelRun, error) {
	var summary *responses.LabelRun
	err := utils.LogOperation(uc.Log, "labelsUsecase.run "+dataset, utils.GetRequestID(ctx), func() error {
		var err error
		summary, err = uc.label(ctx, dataset, dir, labeler)
		return err
	})
	return summary, err
}

// label labels every record of dir in parallel, then feeds the labeled rows
// to the sinks in record order. Records that cannot be labeled are skipped
// and logged. Sink failures do not stop the run; they are returned together
// once the run completes.
func (uc *labelsUsecase) label(ctx context.Context, dataset, dir string, labeler recordLabeler) (*responses.LabelRun, error) {
	start := uc.now()
	runID := utils.GenerateRunID()
	log := uc.Log.With(
		zap.String(constvars.LoggingRunIDKey, runID),
		zap.String(constvars.LoggingDatasetKey, dataset),
	)
	log.Info("labelsUsecase.run called", zap.String(constvars.LoggingPathKey, dir))

	records, err := wfdb.FindRecords(dir)
	if err != nil {
		log.Error("labelsUsecase.run error calling wfdb.FindRecords", zap.Error(err))
		return nil, exceptions.ErrRecordsList(err, dir)
	}

	mapper := iter.Mapper[wfdb.Record, recordOutcome]{MaxGoroutines: uc.InternalConfig.Labeler.Workers}
	outcomes := mapper.Map(records, func(record *wfdb.Record) recordOutcome {
		if err := ctx.Err(); err != nil {
			return recordOutcome{record: *record, err: err}
		}
		return labeler(*record)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := &responses.LabelRun{
		RunID:      runID,
		Dataset:    dataset,
		Total:      len(records),
		Skipped:    make([]responses.SkippedRecord, 0),
		ByOverall:  make(map[string]int),
		ByCode:     make(map[int64]int),
		OutputPath: filepath.Join(dir, uc.InternalConfig.Labeler.OutputFileName),
	}

	var table bytes.Buffer
	writer := labeltable.NewWriter(&table)
	var sinkErrs *multierror.Error

	for _, outcome := range outcomes {
		switch {
		case outcome.err != nil:
			log.Warn("labelsUsecase.run skipped record",
				zap.String(constvars.LoggingRecordKey, outcome.record.Name),
				zap.Error(outcome.err),
			)
			summary.Skipped = append(summary.Skipped, responses.SkippedRecord{
				Record: outcome.record.Name,
				Reason: outcome.err.Error(),
			})
			continue
		case outcome.filtered:
			summary.Filtered++
			continue
		}

		row := outcome.row
		if err := writer.Write(*row); err != nil {
			return nil, exceptions.ErrCannotWriteLabelsTable(err, summary.OutputPath)
		}
		summary.Labeled++
		if row.Overall != "" {
			summary.ByOverall[row.Overall]++
		}
		for _, code := range row.Codes {
			if ecgreport.IsTracked(code) {
				summary.ByCode[int64(code)]++
			}
		}

		if err := uc.sink(ctx, runID, row); err != nil {
			log.Error("labelsUsecase.run sink failed",
				zap.String(constvars.LoggingRecordKey, row.Record),
				zap.Error(err),
			)
			sinkErrs = multierror.Append(sinkErrs, err)
		}
	}

	if err := writer.Flush(); err != nil {
		return nil, exceptions.ErrCannotWriteLabelsTable(err, summary.OutputPath)
	}
	if err := os.WriteFile(summary.OutputPath, table.Bytes(), 0o644); err != nil {
		return nil, exceptions.ErrCannotWriteLabelsTable(err, summary.OutputPath)
	}

	objectName, err := uc.upload(ctx, dataset, runID, table.Bytes())
	if err != nil {
		log.Error("labelsUsecase.run error uploading labels table",
			zap.String(constvars.LoggingBucketKey, uc.InternalConfig.Sinks.MinioBucket),
			zap.Error(err),
		)
		sinkErrs = multierror.Append(sinkErrs, err)
	}
	summary.ObjectName = objectName
	summary.Duration = uc.now().Sub(start)

	log.Info("labelsUsecase.run succeeded",
		zap.Int("total", summary.Total),
		zap.Int("labeled", summary.Labeled),
		zap.Int("skipped", len(summary.Skipped)),
		zap.Int("filtered", summary.Filtered),
		zap.String(constvars.LoggingObjectKey, summary.ObjectName),
		zap.Duration(constvars.LoggingDurationKey, summary.Duration),
	)
	return summary, sinkErrs.ErrorOrNil()
}

func (uc *labelsUsecase) sink(ctx context.Context, runID string, row *labeltable.Row) error {
	codes := make([]int64, len(row.Codes))
	for i, code := range row.Codes {
		codes[i] = int64(code)
	}

	var errs *multierror.Error
	if uc.LabeledRecordRepository != nil {
		err := uc.LabeledRecordRepository.Upsert(ctx, &models.LabeledRecord{
			Dataset:   row.Dataset,
			Record:    row.Record,
			RunID:     runID,
			Age:       row.Age,
			Sex:       row.Sex,
			Overall:   row.Overall,
			Findings:  row.Findings,
			Codes:     codes,
			LabeledAt: uc.now().UTC(),
		})
		if err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	if uc.LabelPublisher != nil {
		err := uc.LabelPublisher.PublishLabeledRecord(ctx, &requests.LabeledRecordEvent{
			RunID:    runID,
			Dataset:  row.Dataset,
			Record:   row.Record,
			Age:      row.Age,
			Sex:      row.Sex,
			Overall:  row.Overall,
			Findings: row.Findings,
			Codes:    codes,
		})
		if err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	return errs.ErrorOrNil()
}

func (uc *labelsUsecase) upload(ctx context.Context, dataset, runID string, table []byte) (string, error) {
	if uc.Storage == nil {
		return "", nil
	}
	objectName := fmt.Sprintf("%s/%s.csv", dataset, runID)
	return uc.Storage.UploadObject(
		ctx,
		uc.InternalConfig.Sinks.MinioBucket,
		objectName,
		bytes.NewReader(table),
		int64(len(table)),
		constvars.MIMETextCSV,
	)
}

func buildLabeledRecordResponse(record *models.LabeledRecord) *responses.LabeledRecord {
	codes := make([]responses.DiagnosisCode, 0, len(record.Codes))
	for _, code := range record.Codes {
		description, _ := ecgreport.Description(ecgreport.DiagnosisCode(code))
		codes = append(codes, responses.DiagnosisCode{Code: code, Description: description})
	}

	return &responses.LabeledRecord{
		Dataset:   record.Dataset,
		Record:    record.Record,
		RunID:     record.RunID,
		Age:       record.Age,
		Sex:       record.Sex,
		Overall:   record.Overall,
		Findings:  record.Findings,
		Codes:     codes,
		LabeledAt: record.LabeledAt,
	}
}
