package datasets

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ecg-labeling-service/internal/app/config"
	"ecg-labeling-service/internal/pkg/constvars"
	"ecg-labeling-service/internal/pkg/exceptions"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type MockCommandRunner struct {
	mock.Mock
}

func (m *MockCommandRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	callArgs := m.Called(ctx, dir, name, args)
	return callArgs.Error(0)
}

type MockLockerService struct {
	mock.Mock
}

func (m *MockLockerService) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	args := m.Called(ctx, key, expiration)
	return args.Bool(0), args.String(1), args.Error(2)
}

func (m *MockLockerService) Unlock(ctx context.Context, key, lockValue string) error {
	args := m.Called(ctx, key, lockValue)
	return args.Error(0)
}

func (m *MockLockerService) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	args := m.Called(ctx, key, lockValue, expiration)
	return args.Error(0)
}

func newTestConfig(t *testing.T) *config.InternalConfig {
	t.Helper()
	root := t.TempDir()
	cfg := config.NewInternalConfig()
	cfg.Datasets.ConfigFile = filepath.Join(root, "config.ini")
	cfg.Datasets.DataDir = filepath.Join(root, "data")
	cfg.Datasets.EntriesDir = filepath.Join(root, "entries")
	cfg.Datasets.CheckpointsDir = filepath.Join(root, "checkpoints", "original")
	cfg.Datasets.ModelConfigDir = filepath.Join(root, "config")
	cfg.Datasets.DownloadsPerMinute = 6000
	return cfg
}

func zipArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := writer.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return buf.Bytes()
}

func TestCatalog(t *testing.T) {
	t.Run("Wget Mirror Command", func(t *testing.T) {
		source, ok := Lookup(constvars.DatasetNorwegian)
		require.True(t, ok)

		name, args := source.Command("/data")
		assert.Equal(t, "wget", name)
		assert.Equal(t, []string{"-r", "-N", "-c", "-np", "-nH", "--cut-dirs=1", "-P", "/data", "https://physionet.org/files/norwegian-athlete-ecg/1.0.0/"}, args)
	})

	t.Run("Git Clone Command", func(t *testing.T) {
		source, ok := Lookup(constvars.DatasetPF12RED)
		require.True(t, ok)

		name, args := source.Command("/data")
		assert.Equal(t, "git", name)
		assert.Equal(t, []string{"clone", "https://github.com/dradolfomunoz/PF12RED.git", filepath.Join("/data", "pf12red")}, args)
	})

	t.Run("Default Selection Excludes Opt-In", func(t *testing.T) {
		sources, err := selectSources(nil)
		require.NoError(t, err)

		names := make([]string, len(sources))
		for i, source := range sources {
			names[i] = source.Name
		}
		assert.Equal(t, []string{constvars.DatasetPF12RED, constvars.DatasetNorwegian, constvars.DatasetChallenge2020}, names)
	})

	t.Run("Explicit Opt-In", func(t *testing.T) {
		sources, err := selectSources([]string{constvars.DatasetMIMICIVECG})
		require.NoError(t, err)
		require.Len(t, sources, 1)
		assert.True(t, sources[0].OptIn)
	})

	t.Run("Unknown Dataset", func(t *testing.T) {
		_, err := selectSources([]string{"ptb-xl"})
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
	})

	t.Run("Catalog Is A Copy", func(t *testing.T) {
		sources := Catalog()
		sources[0].Name = "changed"
		_, ok := Lookup(constvars.DatasetPF12RED)
		assert.True(t, ok)
	})
}

func TestDownload(t *testing.T) {
	t.Run("Skips Existing And Persists Path", func(t *testing.T) {
		cfg := newTestConfig(t)
		require.NoError(t, os.MkdirAll(filepath.Join(cfg.Datasets.DataDir, constvars.DatasetPF12RED), 0o755))

		runner := new(MockCommandRunner)
		runner.On("Run", mock.Anything, "", "wget", mock.MatchedBy(func(args []string) bool {
			return args[len(args)-1] == "https://physionet.org/files/norwegian-athlete-ecg/1.0.0/"
		})).Return(nil).Once()
		runner.On("Run", mock.Anything, "", "wget", mock.MatchedBy(func(args []string) bool {
			return args[len(args)-1] == "https://physionet.org/files/challenge-2020/1.0.2/"
		})).Return(nil).Once()

		usecase := NewDatasetsUsecase(runner, nil, nil, cfg, zap.NewNop())
		results, err := usecase.Download(context.Background(), nil)
		require.NoError(t, err)

		require.Len(t, results, 3)
		assert.True(t, results[0].Skipped)
		assert.False(t, results[1].Skipped)
		assert.Equal(t, filepath.Join(cfg.Datasets.DataDir, constvars.DatasetChallenge2020), results[2].Path)
		runner.AssertExpectations(t)

		persisted, err := config.LoadDatasetsPath(cfg.Datasets.ConfigFile, "")
		require.NoError(t, err)
		assert.Equal(t, cfg.Datasets.DataDir, persisted)
	})

	t.Run("Runner Failure Stops", func(t *testing.T) {
		cfg := newTestConfig(t)
		runner := new(MockCommandRunner)
		runner.On("Run", mock.Anything, "", "git", mock.Anything).Return(errors.New("git: not found")).Once()

		core, logs := observer.New(zapcore.InfoLevel)
		usecase := NewDatasetsUsecase(runner, nil, nil, cfg, zap.New(core))
		results, err := usecase.Download(context.Background(), nil)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusBadGateway, customErr.StatusCode)
		assert.Empty(t, results)
		runner.AssertNumberOfCalls(t, "Run", 1)

		failed := logs.FilterMessage("Operation failed").All()
		require.Len(t, failed, 1)
		assert.Equal(t, "datasetsUsecase.Download", failed[0].ContextMap()[constvars.LoggingOperationKey])
	})

	t.Run("Lock Held Elsewhere", func(t *testing.T) {
		cfg := newTestConfig(t)
		locker := new(MockLockerService)
		locker.On("TryLock", mock.Anything, constvars.RedisKeyDatasetDownloadLck, constvars.DownloadLockExpiration).Return(false, "", nil)
		runner := new(MockCommandRunner)

		usecase := NewDatasetsUsecase(runner, locker, nil, cfg, zap.NewNop())
		_, err := usecase.Download(context.Background(), []string{constvars.DatasetNorwegian})

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
		runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Lock Released", func(t *testing.T) {
		cfg := newTestConfig(t)
		locker := new(MockLockerService)
		locker.On("TryLock", mock.Anything, constvars.RedisKeyDatasetDownloadLck, constvars.DownloadLockExpiration).Return(true, "token", nil)
		locker.On("Unlock", mock.Anything, constvars.RedisKeyDatasetDownloadLck, "token").Return(nil).Once()
		runner := new(MockCommandRunner)
		runner.On("Run", mock.Anything, "", "wget", mock.Anything).Return(nil).Once()

		usecase := NewDatasetsUsecase(runner, locker, nil, cfg, zap.NewNop())
		_, err := usecase.Download(context.Background(), []string{constvars.DatasetNorwegian})
		require.NoError(t, err)
		locker.AssertExpectations(t)
	})
}

func TestDownloadEntries(t *testing.T) {
	archive := zipArchive(t, map[string]string{"Prna/README.md": "entry"})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sources/Prna.zip":
			w.Header().Set("Content-Type", constvars.MIMEApplicationZip)
			w.Write(archive)
		case "/sources/NotZip.zip":
			w.Write([]byte("<html>moved</html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	cfg := newTestConfig(t)
	cfg.Datasets.SourcesURL = server.URL + "/sources/"
	require.NoError(t, os.MkdirAll(cfg.Datasets.EntriesDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Datasets.EntriesDir, "DSAIL_SNU.zip"), archive, 0o644))

	usecase := NewDatasetsUsecase(nil, nil, server.Client(), cfg, zap.NewNop())
	results, err := usecase.DownloadEntries(context.Background(), []string{"DSAIL_SNU", "Prna", "Missing", "NotZip"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 errors occurred")

	require.Len(t, results, 2)
	assert.Equal(t, "DSAIL_SNU", results[0].Team)
	assert.True(t, results[0].Skipped)
	assert.Equal(t, "Prna", results[1].Team)
	assert.Equal(t, int64(len(archive)), results[1].Bytes)

	downloaded, err := os.ReadFile(filepath.Join(cfg.Datasets.EntriesDir, "Prna.zip"))
	require.NoError(t, err)
	assert.Equal(t, archive, downloaded)

	assert.NoFileExists(t, filepath.Join(cfg.Datasets.EntriesDir, "NotZip.zip"))
	assert.NoFileExists(t, filepath.Join(cfg.Datasets.EntriesDir, "NotZip.zip"+partialSuffix))
	assert.NoFileExists(t, filepath.Join(cfg.Datasets.EntriesDir, "Missing.zip"))
}

func TestUnpackOriginalModel(t *testing.T) {
	prefix := "DSAIL_SNU/PhysioNetChallenge2020_DSAIL_SNU7/"
	setup := func(t *testing.T, files map[string]string) *config.InternalConfig {
		cfg := newTestConfig(t)
		sourcesDir := filepath.Join(cfg.Datasets.DataDir, constvars.DatasetChallenge2020, "1.0.2", "sources")
		require.NoError(t, os.MkdirAll(sourcesDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(sourcesDir, "DSAIL_SNU.zip"), zipArchive(t, files), 0o644))
		return cfg
	}

	t.Run("Copies Checkpoints And Config", func(t *testing.T) {
		cfg := setup(t, map[string]string{
			prefix + "output_training_directory/fold0/model.pth": "weights",
			prefix + "config/data.json":                          `{"fs": 500}`,
		})
		usecase := NewDatasetsUsecase(nil, nil, nil, cfg, zap.NewNop())

		result, err := usecase.UnpackOriginalModel(context.Background())
		require.NoError(t, err)
		assert.True(t, result.ConfigCopied)

		weights, err := os.ReadFile(filepath.Join(cfg.Datasets.CheckpointsDir, "fold0", "model.pth"))
		require.NoError(t, err)
		assert.Equal(t, "weights", string(weights))
		assert.FileExists(t, filepath.Join(cfg.Datasets.ModelConfigDir, "data.json"))

		t.Run("Existing Config Is Kept", func(t *testing.T) {
			edited := filepath.Join(cfg.Datasets.ModelConfigDir, "data.json")
			require.NoError(t, os.WriteFile(edited, []byte(`{"fs": 250}`), 0o644))

			result, err := usecase.UnpackOriginalModel(context.Background())
			require.NoError(t, err)
			assert.False(t, result.ConfigCopied)

			content, err := os.ReadFile(edited)
			require.NoError(t, err)
			assert.Equal(t, `{"fs": 250}`, string(content))
		})
	})

	t.Run("Rejects Paths Outside Destination", func(t *testing.T) {
		cfg := setup(t, map[string]string{"../escape.txt": "nope"})
		usecase := NewDatasetsUsecase(nil, nil, nil, cfg, zap.NewNop())

		_, err := usecase.UnpackOriginalModel(context.Background())
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusInternalServerError, customErr.StatusCode)
		assert.NoFileExists(t, filepath.Join(cfg.Datasets.DataDir, constvars.DatasetChallenge2020, "1.0.2", "escape.txt"))
	})

	t.Run("Missing Archive", func(t *testing.T) {
		usecase := NewDatasetsUsecase(nil, nil, nil, newTestConfig(t), zap.NewNop())
		_, err := usecase.UnpackOriginalModel(context.Background())
		assert.Error(t, err)
	})
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "ecg"), expandHome("~/ecg"))
	assert.Equal(t, "/srv/ecg", expandHome("/srv/ecg"))
	assert.Equal(t, "data", expandHome("data"))
}
