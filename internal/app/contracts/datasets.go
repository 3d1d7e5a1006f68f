package contracts

import (
	"context"

	"ecg-labeling-service/internal/pkg/dto/responses"
)

// CommandRunner runs external tools such as wget and git.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

type DatasetsUsecase interface {
	Download(ctx context.Context, names []string) ([]responses.DatasetDownload, error)
	DownloadEntries(ctx context.Context, teams []string) ([]responses.EntryDownload, error)
	UnpackOriginalModel(ctx context.Context) (*responses.UnpackedModel, error)
}
