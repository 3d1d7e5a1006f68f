package responses

type DiagnosisCode struct {
	Code        int64  `json:"code"`
	Description string `json:"description"`
}

type Findings struct {
	Findings []string        `json:"findings"`
	Codes    []DiagnosisCode `json:"codes"`
	Overall  string          `json:"overall"`
}

type KeyedFindings struct {
	Key string `json:"key"`
	Findings
}

type SkippedReport struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

type BatchFindings struct {
	Labels  []KeyedFindings `json:"labels"`
	Skipped []SkippedReport `json:"skipped"`
}
