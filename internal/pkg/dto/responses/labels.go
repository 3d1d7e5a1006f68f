package responses

import "time"

type LabeledRecord struct {
	Dataset   string          `json:"dataset"`
	Record    string          `json:"record"`
	RunID     string          `json:"run_id"`
	Age       *int            `json:"age"`
	Sex       string          `json:"sex"`
	Overall   string          `json:"overall,omitempty"`
	Findings  []string        `json:"findings,omitempty"`
	Codes     []DiagnosisCode `json:"codes"`
	LabeledAt time.Time       `json:"labeled_at"`
}

type SkippedRecord struct {
	Record string `json:"record"`
	Reason string `json:"reason"`
}

// LabelRun summarises one labeling pass over a dataset directory.
type LabelRun struct {
	RunID      string          `json:"run_id"`
	Dataset    string          `json:"dataset"`
	Total      int             `json:"total"`
	Labeled    int             `json:"labeled"`
	Skipped    []SkippedRecord `json:"skipped"`
	Filtered   int             `json:"filtered"`
	ByOverall  map[string]int  `json:"by_overall,omitempty"`
	ByCode     map[int64]int   `json:"by_code"`
	OutputPath string          `json:"output_path"`
	ObjectName string          `json:"object_name,omitempty"`
	Duration   time.Duration   `json:"duration"`
}
