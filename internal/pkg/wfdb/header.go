// Package wfdb reads PhysioNet WFDB header (.hea) files.
package wfdb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var ErrEmptyHeader = errors.New("wfdb: header has no record line")

// Header is the record line plus the free-text comments of a .hea file.
// Signal specification lines are skipped.
type Header struct {
	RecordName        string
	SignalCount       int
	SamplingFrequency float64
	SampleCount       int
	Comments          []string
}

func ReadHeader(r io.Reader) (*Header, error) {
	header := &Header{}
	recordLineSeen := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			header.Comments = append(header.Comments, strings.TrimSpace(strings.TrimLeft(line, "#")))
			continue
		}
		if recordLineSeen {
			continue
		}
		if err := header.parseRecordLine(line); err != nil {
			return nil, err
		}
		recordLineSeen = true
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !recordLineSeen {
		return nil, ErrEmptyHeader
	}
	return header, nil
}

// ReadHeaderFile reads the header of a record path given without suffix.
func ReadHeaderFile(recordPath string) (*Header, error) {
	file, err := os.Open(recordPath + HeaderExtension)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadHeader(file)
}

// parseRecordLine reads "name[/segments] nsig [fs[/counter][(base)] [nsamp ...]]".
func (h *Header) parseRecordLine(line string) error {
	fields := strings.Fields(line)
	name, _, _ := strings.Cut(fields[0], "/")
	h.RecordName = name

	if len(fields) > 1 {
		count, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("wfdb: signal count %q: %w", fields[1], err)
		}
		h.SignalCount = count
	}
	if len(fields) > 2 {
		frequencyText := fields[2]
		if i := strings.IndexAny(frequencyText, "/("); i >= 0 {
			frequencyText = frequencyText[:i]
		}
		frequency, err := strconv.ParseFloat(frequencyText, 64)
		if err != nil {
			return fmt.Errorf("wfdb: sampling frequency %q: %w", fields[2], err)
		}
		h.SamplingFrequency = frequency
	}
	if len(fields) > 3 {
		samples, err := strconv.Atoi(fields[3])
		if err != nil {
			return fmt.Errorf("wfdb: sample count %q: %w", fields[3], err)
		}
		h.SampleCount = samples
	}
	return nil
}

// Comment returns the value of the first "key: value" comment whose key
// matches case-insensitively.
func (h *Header) Comment(key string) (string, bool) {
	line, ok := h.CommentLine(key)
	if !ok {
		return "", false
	}
	_, value, _ := strings.Cut(line, ": ")
	return strings.TrimSpace(value), true
}

// CommentLine returns the whole "key: value" comment line.
func (h *Header) CommentLine(key string) (string, bool) {
	for _, comment := range h.Comments {
		commentKey, _, found := strings.Cut(comment, ":")
		if found && strings.EqualFold(strings.TrimSpace(commentKey), key) {
			return comment, true
		}
	}
	return "", false
}
