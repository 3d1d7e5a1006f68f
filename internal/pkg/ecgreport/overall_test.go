package ecgreport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyOverall(t *testing.T) {
	tests := []struct {
		name     string
		findings []string
		expected OverallFinding
	}{
		{"abnormal", []string{"Sinus bradycardia", "Abnormal ECG"}, Abnormal},
		{"normal", []string{"Normal sinus rhythm"}, Normal},
		{"borderline", []string{"Sinus rhythm", "Borderline ECG"}, Borderline},
		{"upper case abnormal", []string{"ABNORMAL ECG"}, Abnormal},
		{"only the last finding counts", []string{"Abnormal ECG", "Otherwise normal ECG"}, Normal},
		{"no verdict", []string{"Sinus rhythm"}, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overall, err := ClassifyOverall(tt.findings)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, overall)
		})
	}
}

func TestClassifyOverallWithoutVerdictWords(t *testing.T) {
	for _, finding := range []string{"Sinus rhythm", "Left axis deviation", "", "Early repolarization", "Paced rhythm"} {
		lowered := strings.ToLower(finding)
		require.NotContains(t, lowered, "normal")
		require.NotContains(t, lowered, "borderline")

		overall, err := ClassifyOverall([]string{finding})
		require.NoError(t, err)
		assert.Equal(t, Unknown, overall, finding)
	}
}

func TestClassifyOverallEmpty(t *testing.T) {
	overall, err := ClassifyOverall(nil)
	assert.ErrorIs(t, err, ErrEmptyFindings)
	assert.Equal(t, Unknown, overall)
}

func TestOverallFindingText(t *testing.T) {
	text, err := Borderline.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "borderline", string(text))
	assert.Equal(t, -99, int(Unknown))

	_, err = OverallFinding(7).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "OverallFinding(7)", OverallFinding(7).String())

	var overall OverallFinding
	require.NoError(t, overall.UnmarshalText([]byte("Abnormal")))
	assert.Equal(t, Abnormal, overall)
	assert.Error(t, overall.UnmarshalText([]byte("fine")))
}

func TestLabel(t *testing.T) {
	label, err := Label("Comment: Sinus bradycardia, Incomplete right bundle branch block, Borderline ECG", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Sinus bradycardia", "Incomplete right bundle branch block", "Borderline ECG"}, label.Findings)
	assert.Equal(t, []DiagnosisCode{SinusBradycardia, IncompleteRightBundleBranchBlock}, label.Codes)
	assert.Equal(t, Borderline, label.Overall)

	label, err = Label("Sinus bradycardia", DefaultOptions())
	assert.ErrorIs(t, err, ErrMalformedReport)
	assert.Nil(t, label)

	label, err = Label("Comment: and", DefaultOptions())
	assert.ErrorIs(t, err, ErrMalformedReport)
	assert.Nil(t, label)
}

func TestLabelConcurrentUse(t *testing.T) {
	report := "Comment: Sinus tachycardia, Abnormal ECG"
	t.Run("group", func(t *testing.T) {
		for i := 0; i < 8; i++ {
			t.Run("worker", func(t *testing.T) {
				t.Parallel()
				label, err := Label(report, DefaultOptions())
				require.NoError(t, err)
				assert.Equal(t, Abnormal, label.Overall)
				assert.Equal(t, []DiagnosisCode{SinusTachycardia}, label.Codes)
			})
		}
	})
}
