package datasets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"ecg-labeling-service/internal/pkg/constvars"
	"ecg-labeling-service/internal/pkg/dto/responses"
	"ecg-labeling-service/internal/pkg/exceptions"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const partialSuffix = ".part"

// DownloadEntries fetches the published source archives of Challenge 2020
// teams, "<sources url><team>.zip", into the entries directory. Existing
// archives are kept. One failed team does not stop the others; all failures
// are returned together.
func (uc *datasetsUsecase) DownloadEntries(ctx context.Context, teams []string) ([]responses.EntryDownload, error) {
	if len(teams) == 0 {
		teams = uc.InternalConfig.Datasets.Teams
	}
	uc.Log.Info("datasetsUsecase.DownloadEntries called", zap.Strings("teams", teams))

	entriesDir := uc.InternalConfig.Datasets.EntriesDir
	if err := os.MkdirAll(entriesDir, 0o755); err != nil {
		return nil, exceptions.ErrEntryDownload(err, entriesDir)
	}

	perMinute := uc.InternalConfig.Datasets.DownloadsPerMinute
	if perMinute < 1 {
		perMinute = 1
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)

	results := make([]responses.EntryDownload, 0, len(teams))
	var errs *multierror.Error
	for _, team := range teams {
		path := filepath.Join(entriesDir, team+constvars.ZipExtension)
		if exists(path) {
			uc.Log.Info("datasetsUsecase.DownloadEntries entry already downloaded", zap.String(constvars.LoggingPathKey, path))
			results = append(results, responses.EntryDownload{Team: team, Path: path, Skipped: true})
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			errs = multierror.Append(errs, err)
			break
		}

		written, err := uc.downloadEntry(ctx, team, path)
		if err != nil {
			uc.Log.Error("datasetsUsecase.DownloadEntries failed",
				zap.String("team", team),
				zap.Error(err),
			)
			errs = multierror.Append(errs, err)
			continue
		}

		uc.Log.Info("datasetsUsecase.DownloadEntries downloaded entry",
			zap.String("team", team),
			zap.String(constvars.LoggingPathKey, path),
			zap.String(constvars.LoggingBytesKey, humanize.Bytes(uint64(written))),
		)
		results = append(results, responses.EntryDownload{Team: team, Path: path, Bytes: written})
	}

	return results, errs.ErrorOrNil()
}

// downloadEntry writes to a partial file first so an interrupted download is
// never mistaken for a finished one.
func (uc *datasetsUsecase) downloadEntry(ctx context.Context, team, path string) (int64, error) {
	url := uc.InternalConfig.Datasets.SourcesURL + team + constvars.ZipExtension

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, exceptions.ErrEntryDownload(err, team)
	}
	resp, err := uc.HTTPClient.Do(req)
	if err != nil {
		return 0, exceptions.ErrEntryDownload(err, team)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, exceptions.ErrEntryDownload(fmt.Errorf("GET %s: unexpected status %s", url, resp.Status), team)
	}

	partial := path + partialSuffix
	file, err := os.Create(partial)
	if err != nil {
		return 0, exceptions.ErrEntryDownload(err, team)
	}
	written, err := io.Copy(file, resp.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(partial)
		return 0, exceptions.ErrEntryDownload(err, team)
	}

	if err := checkZip(partial); err != nil {
		os.Remove(partial)
		return 0, exceptions.ErrEntryNotZip(err, team)
	}

	if err := os.Rename(partial, path); err != nil {
		return 0, exceptions.ErrEntryDownload(err, team)
	}
	return written, nil
}

// checkZip accepts zip archives and formats built on them, such as jar.
func checkZip(path string) error {
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return err
	}
	for mtype := detected; mtype != nil; mtype = mtype.Parent() {
		if mtype.Is(constvars.MIMEApplicationZip) {
			return nil
		}
	}
	return fmt.Errorf("detected %s", detected.String())
}
