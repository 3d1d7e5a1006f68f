package utils

import (
	"strings"
)

// SanitizeReport trims the whitespace around a report. Inner tabs and line
// breaks are kept, so a report whose delimiter is not exactly ": " is still
// rejected as malformed.
func SanitizeReport(report string) string {
	return strings.TrimSpace(report)
}

func SanitizeRecordKey(key string) string {
	return strings.TrimSpace(key)
}
