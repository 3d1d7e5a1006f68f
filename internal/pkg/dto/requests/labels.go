package requests

type FindLabeledRecord struct {
	Dataset string `validate:"required"`
	Record  string `validate:"required"`
}

// LabeledRecordEvent is published once per labeled record.
type LabeledRecordEvent struct {
	RunID    string   `json:"run_id"`
	Dataset  string   `json:"dataset"`
	Record   string   `json:"record"`
	Age      *int     `json:"age"`
	Sex      string   `json:"sex"`
	Overall  string   `json:"overall,omitempty"`
	Findings []string `json:"findings,omitempty"`
	Codes    []int64  `json:"codes"`
}
