package labels

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"ecg-labeling-service/internal/app/config"
	"ecg-labeling-service/internal/app/models"
	"ecg-labeling-service/internal/pkg/constvars"
	"ecg-labeling-service/internal/pkg/dto/requests"
	"ecg-labeling-service/internal/pkg/ecgreport"
	"ecg-labeling-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockLabeledRecordRepository struct {
	mock.Mock
}

func (m *MockLabeledRecordRepository) Upsert(ctx context.Context, record *models.LabeledRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockLabeledRecordRepository) FindByKey(ctx context.Context, dataset, record string) (*models.LabeledRecord, error) {
	args := m.Called(ctx, dataset, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LabeledRecord), args.Error(1)
}

type MockLabelPublisher struct {
	mock.Mock
}

func (m *MockLabelPublisher) PublishLabeledRecord(ctx context.Context, event *requests.LabeledRecordEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadObject(ctx context.Context, bucketName, objectName string, object io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, bucketName, objectName, object, size, contentType)
	return args.String(0), args.Error(1)
}

func writeHeader(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".hea"), []byte(content), 0o644))
}

func newTestConfig() *config.InternalConfig {
	cfg := config.NewInternalConfig()
	cfg.Labeler.ReportCommentKey = "Comment"
	cfg.Labeler.FollowOn = true
	cfg.Labeler.SplitAnd = true
	cfg.Labeler.WholeWordAnd = false
	cfg.Labeler.MinAge = 18
	cfg.Labeler.MaxAge = 90
	cfg.Labeler.Workers = 4
	cfg.Labeler.OutputFileName = "labels.csv"
	cfg.Sinks.MinioBucket = "ecg-labels"
	return cfg
}

func readTable(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestLabelNorwegian(t *testing.T) {
	dir := t.TempDir()
	writeHeader(t, dir, "ath_001", "ath_001 12 500 5000\n#Age: 24\n#Sex: Male\n#Comment: Sinus bradycardia, Normal ECG\n")
	writeHeader(t, dir, "ath_002", "ath_002 12 500 5000\n#Comment: Sinus rhythm, incomplete right bundle branch block, Borderline ECG\n")
	writeHeader(t, dir, "ath_003", "ath_003 12 500 5000\n#Comment: with pauses, Abnormal ECG\n")
	writeHeader(t, dir, "ath_004", "ath_004 12 500 5000\n#Age: 31\n")

	t.Run("Without Sinks", func(t *testing.T) {
		usecase := NewLabelsUsecase(nil, nil, nil, newTestConfig(), zap.NewNop())

		summary, err := usecase.LabelNorwegian(context.Background(), dir)
		require.NoError(t, err)

		assert.NotEmpty(t, summary.RunID)
		assert.Equal(t, constvars.DatasetNorwegian, summary.Dataset)
		assert.Equal(t, 4, summary.Total)
		assert.Equal(t, 2, summary.Labeled)
		require.Len(t, summary.Skipped, 2)
		assert.Equal(t, "ath_003", summary.Skipped[0].Record, "leading continuation is skipped")
		assert.Equal(t, "ath_004", summary.Skipped[1].Record, "missing report is skipped")
		assert.Equal(t, map[string]int{"normal": 1, "borderline": 1}, summary.ByOverall)
		assert.Equal(t, 1, summary.ByCode[int64(ecgreport.SinusBradycardia)])
		assert.Equal(t, 1, summary.ByCode[int64(ecgreport.IncompleteRightBundleBranchBlock)])
		assert.Empty(t, summary.ObjectName)

		rows := readTable(t, summary.OutputPath)
		require.Len(t, rows, 3, "header plus two labeled records")
		assert.Equal(t, "ath_001", rows[1][0])
		assert.Equal(t, "24", rows[1][2])
		assert.Equal(t, "normal", rows[1][4])
		assert.Equal(t, "ath_002", rows[2][0])
		assert.Equal(t, "", rows[2][2], "unknown age is an empty cell")
	})

	t.Run("With Sinks", func(t *testing.T) {
		repo := new(MockLabeledRecordRepository)
		repo.On("Upsert", mock.Anything, mock.MatchedBy(func(record *models.LabeledRecord) bool {
			return record.Dataset == constvars.DatasetNorwegian && record.RunID != ""
		})).Return(nil).Twice()

		publisher := new(MockLabelPublisher)
		publisher.On("PublishLabeledRecord", mock.Anything, mock.AnythingOfType("*requests.LabeledRecordEvent")).Return(nil).Twice()

		storage := new(MockStorage)
		storage.On("UploadObject", mock.Anything, "ecg-labels", mock.AnythingOfType("string"), mock.Anything, mock.AnythingOfType("int64"), constvars.MIMETextCSV).
			Return("norwegian-athlete-ecg/run.csv", nil).Once()

		usecase := NewLabelsUsecase(repo, publisher, storage, newTestConfig(), zap.NewNop())

		summary, err := usecase.LabelNorwegian(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, "norwegian-athlete-ecg/run.csv", summary.ObjectName)

		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
		storage.AssertExpectations(t)
	})

	t.Run("Sink Failures Are Aggregated", func(t *testing.T) {
		repo := new(MockLabeledRecordRepository)
		repo.On("Upsert", mock.Anything, mock.Anything).Return(exceptions.ErrMongoDBUpsertDocument(errors.New("mongo down")))

		publisher := new(MockLabelPublisher)
		publisher.On("PublishLabeledRecord", mock.Anything, mock.Anything).Return(nil)

		usecase := NewLabelsUsecase(repo, publisher, nil, newTestConfig(), zap.NewNop())

		summary, err := usecase.LabelNorwegian(context.Background(), dir)
		require.Error(t, err)
		require.NotNil(t, summary, "the run still completes")
		assert.Equal(t, 2, summary.Labeled)
		assert.Contains(t, err.Error(), "2 errors occurred")
		publisher.AssertNumberOfCalls(t, "PublishLabeledRecord", 2)
	})

	t.Run("Missing Directory", func(t *testing.T) {
		usecase := NewLabelsUsecase(nil, nil, nil, newTestConfig(), zap.NewNop())

		_, err := usecase.LabelNorwegian(context.Background(), filepath.Join(dir, "absent"))
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusInternalServerError, customErr.StatusCode)
	})

	t.Run("Canceled Context", func(t *testing.T) {
		usecase := NewLabelsUsecase(nil, nil, nil, newTestConfig(), zap.NewNop())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := usecase.LabelNorwegian(ctx, dir)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLabelChallenge(t *testing.T) {
	dir := t.TempDir()
	writeHeader(t, filepath.Join(dir, "g1"), "HR00001", "HR00001 12 500 5000\n#Age: 56\n#Sex: Female\n#Dx: 426783006,713426002\n")
	writeHeader(t, filepath.Join(dir, "g1"), "HR00002", "HR00002 12 500 5000\n#Age: 300\n#Sex: Male\n#Dx: 426783006\n")
	writeHeader(t, filepath.Join(dir, "g2"), "HR00003", "HR00003 12 500 5000\n#Age: NaN\n#Sex: Male\n#Dx: 251146004\n")
	writeHeader(t, filepath.Join(dir, "g2"), "HR00004", "HR00004 12 500 5000\n#Age: 40\n#Sex: Male\n#Dx: not-a-code\n")
	writeHeader(t, filepath.Join(dir, "g2"), "HR00005", "HR00005 12 500 5000\n#Age: 12\n#Sex: Female\n#Dx: not-a-code\n")

	usecase := NewLabelsUsecase(nil, nil, nil, newTestConfig(), zap.NewNop())

	summary, err := usecase.LabelChallenge(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, constvars.DatasetChallenge2020, summary.Dataset)
	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 2, summary.Labeled)
	assert.Equal(t, 2, summary.Filtered, "ages 300 and 12 are out of range, bad codes or not")
	require.Len(t, summary.Skipped, 1)
	assert.Equal(t, "HR00004", summary.Skipped[0].Record)
	assert.Empty(t, summary.ByOverall)
	assert.Equal(t, 1, summary.ByCode[int64(ecgreport.NormalSinusRhythm)])
	assert.Equal(t, 1, summary.ByCode[int64(ecgreport.IncompleteRightBundleBranchBlock)])

	rows := readTable(t, summary.OutputPath)
	require.Len(t, rows, 3)
	assert.Equal(t, "HR00001", rows[1][0])
	assert.Equal(t, "426783006 713426002", rows[1][6])
	assert.Equal(t, "HR00003", rows[2][0])
	assert.Equal(t, "", rows[2][2], "NaN age is kept as unknown")
}

func TestFindLabeledRecord(t *testing.T) {
	age := 24
	repo := new(MockLabeledRecordRepository)
	repo.On("FindByKey", mock.Anything, constvars.DatasetNorwegian, "ath_001").Return(&models.LabeledRecord{
		Dataset:  constvars.DatasetNorwegian,
		Record:   "ath_001",
		Age:      &age,
		Overall:  "normal",
		Findings: []string{"Sinus bradycardia", "Normal ECG"},
		Codes:    []int64{int64(ecgreport.SinusBradycardia)},
	}, nil)
	repo.On("FindByKey", mock.Anything, constvars.DatasetNorwegian, "ath_404").Return(nil, nil)

	usecase := NewLabelsUsecase(repo, nil, nil, newTestConfig(), zap.NewNop())

	t.Run("Found", func(t *testing.T) {
		record, err := usecase.FindLabeledRecord(context.Background(), &requests.FindLabeledRecord{Dataset: constvars.DatasetNorwegian, Record: "ath_001"})
		require.NoError(t, err)
		assert.Equal(t, "normal", record.Overall)
		require.Len(t, record.Codes, 1)
		assert.Equal(t, "Sinus bradycardia", record.Codes[0].Description)
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := usecase.FindLabeledRecord(context.Background(), &requests.FindLabeledRecord{Dataset: constvars.DatasetNorwegian, Record: "ath_404"})
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})

	t.Run("Storage Disabled", func(t *testing.T) {
		usecase := NewLabelsUsecase(nil, nil, nil, newTestConfig(), zap.NewNop())
		_, err := usecase.FindLabeledRecord(context.Background(), &requests.FindLabeledRecord{Dataset: constvars.DatasetNorwegian, Record: "ath_001"})
		assert.Error(t, err)
	})
}
