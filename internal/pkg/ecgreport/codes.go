package ecgreport

import (
	"sort"
	"strconv"
	"strings"
)

// DiagnosisCode is a SNOMED-CT concept identifier.
type DiagnosisCode int64

const (
	SinusBradycardia                 DiagnosisCode = 426177001
	NormalSinusRhythm                DiagnosisCode = 426783006
	SinusTachycardia                 DiagnosisCode = 427084000
	SinusArrhythmia                  DiagnosisCode = 427393009
	CompleteRightBundleBranchBlock   DiagnosisCode = 713427006
	IncompleteRightBundleBranchBlock DiagnosisCode = 713426002
	TWaveAbnormal                    DiagnosisCode = 164934002
	TWaveInversion                   DiagnosisCode = 59931005
)

var diagnosisCodes = map[DiagnosisCode]string{
	// Sinus rhythm
	SinusBradycardia:  "Sinus bradycardia",
	NormalSinusRhythm: "Normal sinus rhythm",
	SinusTachycardia:  "Sinus tachycardia",
	SinusArrhythmia:   "Sinus arrhythmia",

	// Right bundle branch
	CompleteRightBundleBranchBlock:   "Complete right bundle branch block",
	IncompleteRightBundleBranchBlock: "Incomplete right bundle branch block",

	// T-wave, not lead specific
	TWaveAbnormal:  "T-wave abnormal",
	TWaveInversion: "T-wave inversion",
}

var trackedCodes = func() []DiagnosisCode {
	codes := make([]DiagnosisCode, 0, len(diagnosisCodes))
	for code := range diagnosisCodes {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}()

func (c DiagnosisCode) String() string {
	return strconv.FormatInt(int64(c), 10)
}

// Description returns the display name of a tracked code.
func Description(code DiagnosisCode) (string, bool) {
	description, ok := diagnosisCodes[code]
	return description, ok
}

// IsTracked reports whether code is one of the labels this pipeline produces.
func IsTracked(code DiagnosisCode) bool {
	_, ok := diagnosisCodes[code]
	return ok
}

// TrackedCodes returns every tracked code in ascending order.
func TrackedCodes() []DiagnosisCode {
	codes := make([]DiagnosisCode, len(trackedCodes))
	copy(codes, trackedCodes)
	return codes
}

// ParseDiagnosisCode parses a decimal SNOMED-CT identifier.
func ParseDiagnosisCode(text string) (DiagnosisCode, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, err
	}
	return DiagnosisCode(value), nil
}

// ClassifyFindings maps findings to diagnosis codes by substring rules. Every
// rule is tested on its own, so one finding may yield several codes.
func ClassifyFindings(findings []string) []DiagnosisCode {
	codes := []DiagnosisCode{}
	for _, finding := range findings {
		codes = append(codes, classifyFinding(strings.ToLower(finding))...)
	}
	return codes
}

func classifyFinding(finding string) []DiagnosisCode {
	var codes []DiagnosisCode

	if strings.Contains(finding, "sinus") {
		if strings.Contains(finding, "arrhythmia") {
			codes = append(codes, SinusArrhythmia)
		}
		if strings.Contains(finding, "bradycardia") {
			codes = append(codes, SinusBradycardia)
		}
		if strings.Contains(finding, "tachycardia") {
			codes = append(codes, SinusTachycardia)
		}
		if strings.Contains(finding, "normal") && !strings.Contains(finding, "abnormal") {
			codes = append(codes, NormalSinusRhythm)
		}
	}

	if strings.Contains(finding, "right bundle branch block") {
		if strings.Contains(finding, "incomplete") {
			codes = append(codes, IncompleteRightBundleBranchBlock)
		} else if strings.Contains(finding, "complete") {
			codes = append(codes, CompleteRightBundleBranchBlock)
		}
	}

	// TODO: map T-wave phrasing to TWaveAbnormal and TWaveInversion once the
	// per-lead wording of the athlete reports is settled.

	return codes
}
