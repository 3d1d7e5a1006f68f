package challenge

import (
	"ecg-labeling-service/internal/pkg/ecgreport"
	"ecg-labeling-service/internal/pkg/wfdb"
)

// RecordLabel holds the demographics and diagnoses of one Challenge record.
type RecordLabel struct {
	Demographics
	Codes    []ecgreport.DiagnosisCode
	Relevant map[ecgreport.DiagnosisCode]bool
}

func LabelHeader(header *wfdb.Header) (*RecordLabel, error) {
	demographics, err := ParseDemographics(header)
	if err != nil {
		return nil, err
	}
	return LabelCodes(header, demographics)
}

// LabelCodes parses the "Dx:" codes of a header whose demographics are
// already known, so callers can filter on age before touching the codes.
func LabelCodes(header *wfdb.Header, demographics Demographics) (*RecordLabel, error) {
	dxComment, err := DxComment(header)
	if err != nil {
		return nil, err
	}
	codes, err := ParseDxCodes(dxComment)
	if err != nil {
		return nil, err
	}

	return &RecordLabel{
		Demographics: demographics,
		Codes:        codes,
		Relevant:     RelevantFindings(codes),
	}, nil
}
