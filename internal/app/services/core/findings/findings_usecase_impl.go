package findings

import (
	"context"
	"errors"

	"ecg-labeling-service/internal/app/config"
	"ecg-labeling-service/internal/app/contracts"
	"ecg-labeling-service/internal/pkg/constvars"
	"ecg-labeling-service/internal/pkg/dto/requests"
	"ecg-labeling-service/internal/pkg/dto/responses"
	"ecg-labeling-service/internal/pkg/ecgreport"
	"ecg-labeling-service/internal/pkg/exceptions"
	"ecg-labeling-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"
)

type findingsUsecase struct {
	RedisRepository contracts.RedisRepository
	InternalConfig  *config.InternalConfig
	Log             *zap.Logger
}

// NewFindingsUsecase builds the report labeling usecase. redisRepository may
// be nil, in which case results are not cached.
func NewFindingsUsecase(redisRepository contracts.RedisRepository, internalConfig *config.InternalConfig, logger *zap.Logger) contracts.FindingsUsecase {
	return &findingsUsecase{
		RedisRepository: redisRepository,
		InternalConfig:  internalConfig,
		Log:             logger,
	}
}

func (uc *findingsUsecase) ExtractFindings(ctx context.Context, request *requests.ExtractFindings) (*responses.Findings, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("findingsUsecase.ExtractFindings called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	opts := uc.options(request.FollowOn, request.SplitAnd, request.WholeWordAnd)
	report := utils.SanitizeReport(request.Report)
	cacheKey := utils.GenerateReportCacheKey(constvars.RedisKeyFindingsPrefix, report, opts.FollowOn, opts.SplitAnd, opts.WholeWordAnd)

	if cached := uc.cached(ctx, cacheKey); cached != nil {
		uc.Log.Info("findingsUsecase.ExtractFindings served from cache",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, cacheKey),
		)
		return cached, nil
	}

	label, err := ecgreport.Label(report, opts)
	if err != nil {
		uc.Log.Error("findingsUsecase.ExtractFindings error calling ecgreport.Label",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingReportKey, report),
			zap.Error(err),
		)
		return nil, reportError(err)
	}

	response := buildFindingsResponse(label)
	uc.store(ctx, cacheKey, response)

	uc.Log.Info("findingsUsecase.ExtractFindings succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingFindingsCountKey, len(response.Findings)),
		zap.String(constvars.LoggingOverallKey, response.Overall),
	)
	return response, nil
}

// ExtractFindingsBatch labels every report independently; a failing report
// is listed under Skipped and never fails the batch.
func (uc *findingsUsecase) ExtractFindingsBatch(ctx context.Context, request *requests.BatchExtractFindings) (*responses.BatchFindings, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("findingsUsecase.ExtractFindingsBatch called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("reports_count", len(request.Reports)),
	)

	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	opts := uc.options(request.FollowOn, request.SplitAnd, request.WholeWordAnd)

	type outcome struct {
		label *ecgreport.ReportLabel
		err   error
	}
	outcomes := iter.Map(request.Reports, func(report *requests.KeyedReport) outcome {
		label, err := ecgreport.Label(utils.SanitizeReport(report.Report), opts)
		return outcome{label: label, err: err}
	})

	response := &responses.BatchFindings{
		Labels:  make([]responses.KeyedFindings, 0, len(outcomes)),
		Skipped: make([]responses.SkippedReport, 0),
	}
	for i, result := range outcomes {
		key := utils.SanitizeRecordKey(request.Reports[i].Key)
		if result.err != nil {
			uc.Log.Warn("findingsUsecase.ExtractFindingsBatch skipped report",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRecordKey, key),
				zap.Error(result.err),
			)
			response.Skipped = append(response.Skipped, responses.SkippedReport{
				Key:    key,
				Reason: result.err.Error(),
			})
			continue
		}
		response.Labels = append(response.Labels, responses.KeyedFindings{
			Key:      key,
			Findings: *buildFindingsResponse(result.label),
		})
	}

	uc.Log.Info("findingsUsecase.ExtractFindingsBatch succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("labeled_count", len(response.Labels)),
		zap.Int("skipped_count", len(response.Skipped)),
	)
	return response, nil
}

func (uc *findingsUsecase) ListDiagnosisCodes(ctx context.Context) []responses.DiagnosisCode {
	return buildDiagnosisCodes(ecgreport.TrackedCodes())
}

// options overlays the per-request switches on the configured defaults.
func (uc *findingsUsecase) options(followOn, splitAnd, wholeWordAnd *bool) ecgreport.Options {
	opts := uc.InternalConfig.Labeler.ExtractOptions()
	if followOn != nil {
		opts.FollowOn = *followOn
	}
	if splitAnd != nil {
		opts.SplitAnd = *splitAnd
	}
	if wholeWordAnd != nil {
		opts.WholeWordAnd = *wholeWordAnd
	}
	return opts
}

// Cache failures are logged and otherwise ignored; labeling is cheap to redo.
func (uc *findingsUsecase) cached(ctx context.Context, key string) *responses.Findings {
	if uc.RedisRepository == nil {
		return nil
	}

	data, err := uc.RedisRepository.Get(ctx, key)
	if err != nil {
		uc.Log.Warn("findingsUsecase.cached error calling RedisRepository.Get", zap.Error(err))
		return nil
	}
	if data == "" {
		return nil
	}

	var response responses.Findings
	if err := json.Unmarshal([]byte(data), &response); err != nil {
		uc.Log.Warn("findingsUsecase.cached dropping undecodable entry",
			zap.String(constvars.LoggingRedisKey, key),
			zap.Error(err),
		)
		return nil
	}
	return &response
}

func (uc *findingsUsecase) store(ctx context.Context, key string, response *responses.Findings) {
	if uc.RedisRepository == nil {
		return
	}
	if err := uc.RedisRepository.Set(ctx, key, response, constvars.FindingsCacheExpiration); err != nil {
		uc.Log.Warn("findingsUsecase.store error calling RedisRepository.Set", zap.Error(err))
	}
}

func reportError(err error) error {
	switch {
	case errors.Is(err, ecgreport.ErrMalformedReport):
		return exceptions.ErrMalformedReport(err)
	case errors.Is(err, ecgreport.ErrUnhandledContinuation):
		return exceptions.ErrUnhandledContinuation(err)
	case errors.Is(err, ecgreport.ErrEmptyFindings):
		return exceptions.ErrEmptyFindings(err)
	default:
		return exceptions.ErrServerProcess(err)
	}
}

func buildFindingsResponse(label *ecgreport.ReportLabel) *responses.Findings {
	return &responses.Findings{
		Findings: label.Findings,
		Codes:    buildDiagnosisCodes(label.Codes),
		Overall:  label.Overall.String(),
	}
}

func buildDiagnosisCodes(codes []ecgreport.DiagnosisCode) []responses.DiagnosisCode {
	result := make([]responses.DiagnosisCode, 0, len(codes))
	for _, code := range codes {
		description, _ := ecgreport.Description(code)
		result = append(result, responses.DiagnosisCode{
			Code:        int64(code),
			Description: description,
		})
	}
	return result
}
