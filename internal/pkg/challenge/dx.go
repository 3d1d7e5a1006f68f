// Package challenge reads labels from PhysioNet/CinC Challenge 2020 records
// and reads and writes the challenge prediction files.
package challenge

import (
	"errors"
	"fmt"
	"strings"

	"ecg-labeling-service/internal/pkg/ecgreport"
)

var ErrMalformedComment = errors.New("challenge: malformed header comment")

// ParseDxCodes parses a diagnosis comment of the form "Dx: code1,code2".
func ParseDxCodes(comment string) ([]ecgreport.DiagnosisCode, error) {
	_, value, found := strings.Cut(comment, ": ")
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrMalformedComment, comment)
	}

	parts := strings.Split(value, ",")
	codes := make([]ecgreport.DiagnosisCode, 0, len(parts))
	for _, part := range parts {
		code, err := ecgreport.ParseDiagnosisCode(part)
		if err != nil {
			return nil, fmt.Errorf("challenge: diagnosis code %q: %w", part, err)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// RelevantFindings marks which tracked codes appear in codes. Untracked codes
// are ignored.
func RelevantFindings(codes []ecgreport.DiagnosisCode) map[ecgreport.DiagnosisCode]bool {
	findings := make(map[ecgreport.DiagnosisCode]bool)
	for _, tracked := range ecgreport.TrackedCodes() {
		findings[tracked] = false
	}
	for _, code := range codes {
		if ecgreport.IsTracked(code) {
			findings[code] = true
		}
	}
	return findings
}
