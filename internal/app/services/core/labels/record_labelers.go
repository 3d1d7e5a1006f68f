package labels

import (
	"errors"
	"fmt"

	"ecg-labeling-service/internal/pkg/challenge"
	"ecg-labeling-service/internal/pkg/constvars"
	"ecg-labeling-service/internal/pkg/ecgreport"
	"ecg-labeling-service/internal/pkg/exceptions"
	"ecg-labeling-service/internal/pkg/labeltable"
	"ecg-labeling-service/internal/pkg/utils"
	"ecg-labeling-service/internal/pkg/wfdb"

	"go.uber.org/zap"
)

var ErrMissingReport = errors.New("labels: header has no report comment")

// recordOutcome is what labeling one record produced. Exactly one of row,
// filtered or err is meaningful.
type recordOutcome struct {
	record   wfdb.Record
	row      *labeltable.Row
	filtered bool
	err      error
}

type recordLabeler func(record wfdb.Record) recordOutcome

// norwegianLabeler labels a record from the machine statement stored in the
// header comment named commentKey, e.g. "Comment: Sinus rhythm, Normal ECG".
func norwegianLabeler(log *zap.Logger, commentKey string, opts ecgreport.Options) recordLabeler {
	return func(record wfdb.Record) recordOutcome {
		header, err := wfdb.ReadHeaderFile(record.Path)
		if err != nil {
			return recordOutcome{record: record, err: exceptions.ErrCannotParseHeader(err, record.Name)}
		}

		report, ok := header.CommentLine(commentKey)
		if !ok {
			return recordOutcome{record: record, err: fmt.Errorf("%w: %q in %s", ErrMissingReport, commentKey, record.Name)}
		}

		label, err := ecgreport.Label(utils.SanitizeReport(report), opts)
		if err != nil {
			return recordOutcome{record: record, err: fmt.Errorf("%s: %w", record.Name, err)}
		}

		// Athlete headers do not always carry demographics; they are optional here.
		demographics, err := challenge.ParseDemographics(header)
		if err != nil {
			log.Debug("norwegianLabeler demographics left empty",
				zap.String(constvars.LoggingRecordKey, record.Name),
				zap.Error(err),
			)
		}

		return recordOutcome{
			record: record,
			row: &labeltable.Row{
				Record:   record.Name,
				Dataset:  constvars.DatasetNorwegian,
				Age:      demographics.Age,
				Sex:      demographics.Sex,
				Overall:  label.Overall.String(),
				Findings: label.Findings,
				Codes:    label.Codes,
			},
		}
	}
}

// challengeLabeler drops records outside the age filter, then labels the
// rest from their "Dx:" codes.
func challengeLabeler(filter challenge.AgeFilter) recordLabeler {
	return func(record wfdb.Record) recordOutcome {
		header, err := wfdb.ReadHeaderFile(record.Path)
		if err != nil {
			return recordOutcome{record: record, err: exceptions.ErrCannotParseHeader(err, record.Name)}
		}

		demographics, err := challenge.ParseDemographics(header)
		if err != nil {
			return recordOutcome{record: record, err: exceptions.ErrCannotParseDxCodes(err, record.Name)}
		}
		if !filter.Keep(demographics.Age) {
			return recordOutcome{record: record, filtered: true}
		}

		label, err := challenge.LabelCodes(header, demographics)
		if err != nil {
			return recordOutcome{record: record, err: exceptions.ErrCannotParseDxCodes(err, record.Name)}
		}

		return recordOutcome{
			record: record,
			row: &labeltable.Row{
				Record:  record.Name,
				Dataset: constvars.DatasetChallenge2020,
				Age:     label.Age,
				Sex:     label.Sex,
				Codes:   label.Codes,
			},
		}
	}
}
