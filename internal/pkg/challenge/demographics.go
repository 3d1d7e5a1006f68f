package challenge

import (
	"fmt"
	"strconv"

	"ecg-labeling-service/internal/pkg/wfdb"
)

const (
	commentAge = "Age"
	commentSex = "Sex"
	commentDx  = "Dx"
)

type Demographics struct {
	// Age is nil when the header does not hold a number, e.g. "Age: NaN".
	Age *int   `json:"age" bson:"age"`
	Sex string `json:"sex" bson:"sex"`
}

func ParseDemographics(header *wfdb.Header) (Demographics, error) {
	ageText, ok := header.Comment(commentAge)
	if !ok {
		return Demographics{}, fmt.Errorf("%w: missing %s comment", ErrMalformedComment, commentAge)
	}
	sex, ok := header.Comment(commentSex)
	if !ok {
		return Demographics{}, fmt.Errorf("%w: missing %s comment", ErrMalformedComment, commentSex)
	}

	demographics := Demographics{Sex: sex}
	if isNumeric(ageText) {
		age, err := strconv.Atoi(ageText)
		if err != nil {
			return Demographics{}, fmt.Errorf("challenge: age %q: %w", ageText, err)
		}
		demographics.Age = &age
	}
	return demographics, nil
}

// DxComment returns the "Dx: ..." comment line of a header.
func DxComment(header *wfdb.Header) (string, error) {
	line, ok := header.CommentLine(commentDx)
	if !ok {
		return "", fmt.Errorf("%w: missing %s comment", ErrMalformedComment, commentDx)
	}
	return line, nil
}

func isNumeric(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// AgeFilter drops implausible ages (typos such as 300) and children.
// Records without a known age are kept.
type AgeFilter struct {
	Min int
	Max int
}

func DefaultAgeFilter() AgeFilter {
	return AgeFilter{Min: 18, Max: 90}
}

func (f AgeFilter) Keep(age *int) bool {
	if age == nil {
		return true
	}
	return *age >= f.Min && *age <= f.Max
}
