package contracts

import (
	"context"

	"ecg-labeling-service/internal/app/models"
	"ecg-labeling-service/internal/pkg/dto/requests"
	"ecg-labeling-service/internal/pkg/dto/responses"
)

type LabeledRecordRepository interface {
	Upsert(ctx context.Context, record *models.LabeledRecord) error
	FindByKey(ctx context.Context, dataset, record string) (*models.LabeledRecord, error)
}

type LabelPublisher interface {
	PublishLabeledRecord(ctx context.Context, event *requests.LabeledRecordEvent) error
}

type LabelsUsecase interface {
	LabelNorwegian(ctx context.Context, dir string) (*responses.LabelRun, error)
	LabelChallenge(ctx context.Context, dir string) (*responses.LabelRun, error)
	FindLabeledRecord(ctx context.Context, request *requests.FindLabeledRecord) (*responses.LabeledRecord, error)
}
