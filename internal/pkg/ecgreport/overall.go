package ecgreport

import (
	"fmt"
	"strings"
)

// OverallFinding is the verdict a report ends with.
type OverallFinding int

const (
	Unknown    OverallFinding = -99
	Normal     OverallFinding = 0
	Borderline OverallFinding = 1
	Abnormal   OverallFinding = 2
)

var overallFindingNames = map[OverallFinding]string{
	Unknown:    "unknown",
	Normal:     "normal",
	Borderline: "borderline",
	Abnormal:   "abnormal",
}

func (o OverallFinding) String() string {
	if name, ok := overallFindingNames[o]; ok {
		return name
	}
	return fmt.Sprintf("OverallFinding(%d)", int(o))
}

func (o OverallFinding) MarshalText() ([]byte, error) {
	if _, ok := overallFindingNames[o]; !ok {
		return nil, fmt.Errorf("invalid overall finding %d", int(o))
	}
	return []byte(o.String()), nil
}

func (o *OverallFinding) UnmarshalText(text []byte) error {
	for value, name := range overallFindingNames {
		if strings.EqualFold(name, string(text)) {
			*o = value
			return nil
		}
	}
	return fmt.Errorf("invalid overall finding %q", text)
}

// ClassifyOverall classifies the last finding. "abnormal" is tested before
// "normal" because it contains it.
func ClassifyOverall(findings []string) (OverallFinding, error) {
	if len(findings) == 0 {
		return Unknown, ErrEmptyFindings
	}

	overall := strings.ToLower(findings[len(findings)-1])
	switch {
	case strings.Contains(overall, "abnormal"):
		return Abnormal, nil
	case strings.Contains(overall, "borderline"):
		return Borderline, nil
	case strings.Contains(overall, "normal"):
		return Normal, nil
	default:
		return Unknown, nil
	}
}
