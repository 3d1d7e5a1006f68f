// Package ecgreport turns single-line cardiologist reports into findings,
// SNOMED-CT diagnosis codes and an overall verdict.
package ecgreport

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	reportDelimiter  = ": "
	segmentSeparator = ", "
	andConjunction   = "and"
)

var wholeWordAnd = regexp.MustCompile(`\band\b`)

// Options controls how a report is split into findings.
type Options struct {
	// FollowOn merges continuation clauses into the preceding finding.
	FollowOn bool
	// SplitAnd splits segments on "and". Without WholeWordAnd the split is a
	// plain substring match, so "standard" becomes "st" and "ard".
	SplitAnd bool
	// WholeWordAnd restricts SplitAnd to the standalone word "and".
	WholeWordAnd bool
}

func DefaultOptions() Options {
	return Options{FollowOn: true, SplitAnd: true}
}

// ExtractFindings splits a report of the form "<label>: <finding>, <finding>"
// into an ordered list of findings.
func ExtractFindings(report string, opts Options) ([]string, error) {
	_, payload, found := strings.Cut(report, reportDelimiter)
	if !found {
		return nil, fmt.Errorf("%w: missing %q delimiter", ErrMalformedReport, reportDelimiter)
	}
	if strings.TrimSpace(payload) == "" {
		return nil, fmt.Errorf("%w: no findings after label", ErrMalformedReport)
	}

	segments := strings.Split(payload, segmentSeparator)
	if opts.SplitAnd {
		segments = splitOnAnd(segments, opts.WholeWordAnd)
	}

	for i, segment := range segments {
		segments[i] = strings.TrimSpace(segment)
	}

	if !opts.FollowOn {
		return segments, nil
	}
	return mergeContinuations(segments)
}

func splitOnAnd(segments []string, wholeWord bool) []string {
	split := make([]string, 0, len(segments))
	for _, segment := range segments {
		if wholeWord {
			split = append(split, wholeWordAnd.Split(segment, -1)...)
			continue
		}
		split = append(split, strings.Split(segment, andConjunction)...)
	}
	return split
}

// mergeContinuations appends every continuation clause to the finding right
// before it, e.g. "ST elevation, consider early repolarization".
func mergeContinuations(segments []string) ([]string, error) {
	findings := make([]string, 0, len(segments))
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if StartsFinding(segment) {
			findings = append(findings, segment)
			continue
		}
		if len(findings) == 0 {
			return nil, fmt.Errorf("%w: segment %d %q", ErrUnhandledContinuation, i, segment)
		}
		last := len(findings) - 1
		findings[last] = findings[last] + segmentSeparator + segment
	}
	if len(findings) == 0 {
		return nil, fmt.Errorf("%w: every segment is empty", ErrMalformedReport)
	}
	return findings, nil
}

// StartsFinding reports whether a segment opens a new finding: its first
// character is upper case or '*'. Anything else, digits included, continues
// the previous finding.
func StartsFinding(segment string) bool {
	first, _ := utf8.DecodeRuneInString(segment)
	if first == utf8.RuneError {
		return false
	}
	return first == '*' || unicode.IsUpper(first)
}

// JoinFindings renders findings back into report form.
func JoinFindings(label string, findings []string) string {
	return label + reportDelimiter + strings.Join(findings, segmentSeparator)
}
