package contracts

import (
	"context"

	"ecg-labeling-service/internal/pkg/dto/requests"
	"ecg-labeling-service/internal/pkg/dto/responses"
)

type FindingsUsecase interface {
	ExtractFindings(ctx context.Context, request *requests.ExtractFindings) (*responses.Findings, error)
	ExtractFindingsBatch(ctx context.Context, request *requests.BatchExtractFindings) (*responses.BatchFindings, error)
	ListDiagnosisCodes(ctx context.Context) []responses.DiagnosisCode
}
