package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeReport(t *testing.T) {
	t.Run("Inner Line Breaks Kept", func(t *testing.T) {
		assert.Equal(t, "Comment: Sinus rhythm,\r\n Normal ECG", SanitizeReport("Comment: Sinus rhythm,\r\n Normal ECG"))
	})

	t.Run("Surrounding Whitespace", func(t *testing.T) {
		assert.Equal(t, "Comment: Normal ECG", SanitizeReport("  Comment: Normal ECG\n"))
	})

	t.Run("Inner Tabs Kept", func(t *testing.T) {
		assert.Equal(t, "Comment:\tSinus rhythm", SanitizeReport("\tComment:\tSinus rhythm\t"))
	})

	t.Run("Record Key", func(t *testing.T) {
		assert.Equal(t, "ath_001", SanitizeRecordKey(" ath_001 "))
	})
}

func TestGenerateReportCacheKey(t *testing.T) {
	key := GenerateReportCacheKey("ecg:findings:", "Comment: Normal ECG", true, true, false)
	assert.Equal(t, key, GenerateReportCacheKey("ecg:findings:", "Comment: Normal ECG", true, true, false))
	assert.NotEqual(t, key, GenerateReportCacheKey("ecg:findings:", "Comment: Normal ECG", true, false, false))
	assert.Len(t, key, len("ecg:findings:")+64)
}
