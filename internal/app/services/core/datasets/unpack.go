package datasets

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"ecg-labeling-service/internal/pkg/constvars"
	"ecg-labeling-service/internal/pkg/dto/responses"
	"ecg-labeling-service/internal/pkg/exceptions"
	"ecg-labeling-service/internal/pkg/utils"

	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"
)

const (
	challengeVersion   = "1.0.2"
	originalModelTeam  = "DSAIL_SNU"
	originalModelEntry = "PhysioNetChallenge2020_DSAIL_SNU7"
	checkpointsSubdir  = "output_training_directory"
	modelConfigSubdir  = "config"
)

// UnpackOriginalModel extracts the DSAIL_SNU entry shipped with the Challenge
// 2020 mirror and copies its checkpoints and model config next to the
// service. Checkpoints are overwritten; an existing config directory is kept
// since it may carry local edits.
func (uc *datasetsUsecase) UnpackOriginalModel(ctx context.Context) (*responses.UnpackedModel, error) {
	var result *responses.UnpackedModel
	err := utils.LogOperation(uc.Log, "datasetsUsecase.UnpackOriginalModel", utils.GetRequestID(ctx), func() error {
		var err error
		result, err = uc.unpackOriginalModel(ctx)
		return err
	})
	return result, err
}

func (uc *datasetsUsecase) unpackOriginalModel(ctx context.Context) (*responses.UnpackedModel, error) {
	datasetsPath, err := uc.DatasetsPath()
	if err != nil {
		return nil, err
	}

	sourcesDir := filepath.Join(datasetsPath, constvars.DatasetChallenge2020, challengeVersion, "sources")
	archive := filepath.Join(sourcesDir, originalModelTeam+constvars.ZipExtension)
	uc.Log.Info("datasetsUsecase.UnpackOriginalModel called", zap.String(constvars.LoggingPathKey, archive))

	if err := extractZip(ctx, archive, sourcesDir); err != nil {
		uc.Log.Error("datasetsUsecase.UnpackOriginalModel error extracting archive", zap.Error(err))
		return nil, exceptions.ErrUnpackArchive(err, archive)
	}

	teamDir := filepath.Join(sourcesDir, originalModelTeam, originalModelEntry)
	result := &responses.UnpackedModel{
		CheckpointsDir: uc.InternalConfig.Datasets.CheckpointsDir,
		ConfigDir:      uc.InternalConfig.Datasets.ModelConfigDir,
	}

	if err := copyDir(ctx, filepath.Join(teamDir, checkpointsSubdir), result.CheckpointsDir); err != nil {
		return nil, exceptions.ErrCopyDirectory(err, result.CheckpointsDir)
	}

	if exists(result.ConfigDir) {
		uc.Log.Info("datasetsUsecase.UnpackOriginalModel config directory already exists",
			zap.String(constvars.LoggingPathKey, result.ConfigDir),
		)
	} else {
		if err := copyDir(ctx, filepath.Join(teamDir, modelConfigSubdir), result.ConfigDir); err != nil {
			return nil, exceptions.ErrCopyDirectory(err, result.ConfigDir)
		}
		result.ConfigCopied = true
	}

	uc.Log.Info("datasetsUsecase.UnpackOriginalModel succeeded",
		zap.String("checkpoints_dir", result.CheckpointsDir),
		zap.Bool("config_copied", result.ConfigCopied),
	)
	return result, nil
}

// extractZip unpacks archive into dest, refusing entries that would land
// outside dest.
func extractZip(ctx context.Context, archive, dest string) error {
	reader, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer reader.Close()

	clean := filepath.Clean(dest)
	root := clean + string(os.PathSeparator)
	for _, file := range reader.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		target := filepath.Join(dest, file.Name)
		if target != clean && !strings.HasPrefix(target, root) {
			return fmt.Errorf("illegal file path in archive: %s", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := extractFile(file, target); err != nil {
			return fmt.Errorf("extract %s: %w", file.Name, err)
		}
	}
	return nil
}

func extractFile(file *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	return writeFile(target, src, file.Mode().Perm()|0o200)
}

// copyDir copies src into dst, creating dst and overwriting files that
// already exist there.
func copyDir(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		return writeFile(target, in, info.Mode().Perm())
	})
}

func writeFile(target string, src io.Reader, perm fs.FileMode) error {
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
