package ecgreport

// ReportLabel is everything derived from one report.
type ReportLabel struct {
	Findings []string
	Codes    []DiagnosisCode
	Overall  OverallFinding
}

// Label runs extraction, code classification and overall classification.
func Label(report string, opts Options) (*ReportLabel, error) {
	findings, err := ExtractFindings(report, opts)
	if err != nil {
		return nil, err
	}

	overall, err := ClassifyOverall(findings)
	if err != nil {
		return nil, err
	}

	return &ReportLabel{
		Findings: findings,
		Codes:    ClassifyFindings(findings),
		Overall:  overall,
	}, nil
}
