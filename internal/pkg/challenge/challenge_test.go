package challenge

import (
	"bytes"
	"strings"
	"testing"

	"ecg-labeling-service/internal/pkg/ecgreport"
	"ecg-labeling-service/internal/pkg/wfdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDxCodes(t *testing.T) {
	codes, err := ParseDxCodes("Dx: 251146004,426783006")
	require.NoError(t, err)
	assert.Equal(t, []ecgreport.DiagnosisCode{251146004, ecgreport.NormalSinusRhythm}, codes)

	_, err = ParseDxCodes("Dx 251146004")
	assert.ErrorIs(t, err, ErrMalformedComment)

	_, err = ParseDxCodes("Dx: 251146004,abc")
	assert.Error(t, err)
}

func TestRelevantFindings(t *testing.T) {
	findings := RelevantFindings([]ecgreport.DiagnosisCode{251146004, ecgreport.NormalSinusRhythm, ecgreport.TWaveInversion})

	assert.Len(t, findings, 8)
	assert.True(t, findings[ecgreport.NormalSinusRhythm])
	assert.True(t, findings[ecgreport.TWaveInversion])
	assert.False(t, findings[ecgreport.SinusBradycardia])
	_, tracked := findings[251146004]
	assert.False(t, tracked)
}

func TestParseDemographics(t *testing.T) {
	header := &wfdb.Header{Comments: []string{"Age: 56", "Sex: Female", "Dx: 426783006"}}
	demographics, err := ParseDemographics(header)
	require.NoError(t, err)
	require.NotNil(t, demographics.Age)
	assert.Equal(t, 56, *demographics.Age)
	assert.Equal(t, "Female", demographics.Sex)

	header = &wfdb.Header{Comments: []string{"Age: NaN", "Sex: Male"}}
	demographics, err = ParseDemographics(header)
	require.NoError(t, err)
	assert.Nil(t, demographics.Age)

	_, err = ParseDemographics(&wfdb.Header{Comments: []string{"Sex: Male"}})
	assert.ErrorIs(t, err, ErrMalformedComment)
}

func TestAgeFilter(t *testing.T) {
	filter := DefaultAgeFilter()
	age := func(v int) *int { return &v }

	assert.True(t, filter.Keep(nil))
	assert.True(t, filter.Keep(age(18)))
	assert.True(t, filter.Keep(age(90)))
	assert.False(t, filter.Keep(age(17)))
	assert.False(t, filter.Keep(age(300)))
}

func TestLabelHeader(t *testing.T) {
	header := &wfdb.Header{Comments: []string{"Age: 74", "Sex: Male", "Dx: 713426002,164934002", "Rx: Unknown"}}
	label, err := LabelHeader(header)
	require.NoError(t, err)
	assert.Equal(t, 74, *label.Age)
	assert.Equal(t, []ecgreport.DiagnosisCode{ecgreport.IncompleteRightBundleBranchBlock, ecgreport.TWaveAbnormal}, label.Codes)
	assert.True(t, label.Relevant[ecgreport.IncompleteRightBundleBranchBlock])

	_, err = LabelHeader(&wfdb.Header{Comments: []string{"Age: 74", "Sex: Male"}})
	assert.ErrorIs(t, err, ErrMalformedComment)
}

func TestPredictionsRoundTrip(t *testing.T) {
	classes := []string{"426177001", "426783006", "251146004", "713426002"}
	var buf bytes.Buffer
	require.NoError(t, WritePredictions(&buf, "A0001", classes, []int{0, 1, 1, 1}, []float64{0.1, 0.9, 0.75, 0.5}))
	assert.Equal(t, "#A0001\n426177001,426783006,251146004,713426002\n0,1,1,1\n0.1,0.9,0.75,0.5\n", buf.String())

	predictions, err := ReadPredictions(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "A0001", predictions.Recording)
	assert.Equal(t, []float64{0.1, 0.9, 0.75, 0.5}, predictions.Scores)

	predicted, err := ReadPredictedLabels(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []ecgreport.DiagnosisCode{ecgreport.NormalSinusRhythm, ecgreport.IncompleteRightBundleBranchBlock}, predicted)
}

func TestReadPredictionsErrors(t *testing.T) {
	_, err := ReadPredictions(strings.NewReader("#A0001\n426177001\n"))
	assert.ErrorIs(t, err, ErrMalformedPredictions)

	_, err = ReadPredictions(strings.NewReader("#A0001\n426177001,426783006\n1\n"))
	assert.ErrorIs(t, err, ErrMalformedPredictions)

	_, err = ReadPredictions(strings.NewReader("#A0001\n426177001\nmaybe\n"))
	assert.ErrorIs(t, err, ErrMalformedPredictions)

	predictions, err := ReadPredictions(strings.NewReader("#A0001\n426177001, 426783006\nTrue,False\n"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, predictions.Labels)
	assert.Empty(t, predictions.Scores)

	err = WritePredictions(&bytes.Buffer{}, "A0001", []string{"1"}, []int{1, 0}, []float64{1})
	assert.ErrorIs(t, err, ErrMalformedPredictions)
}
