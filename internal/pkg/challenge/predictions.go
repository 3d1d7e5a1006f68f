package challenge

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ecg-labeling-service/internal/pkg/ecgreport"
)

var ErrMalformedPredictions = errors.New("challenge: malformed predictions file")

// WritePredictions writes one recording's output in the challenge format:
// "#<recording>", the class codes, the binary labels and the scores.
func WritePredictions(w io.Writer, recording string, classes []string, labels []int, scores []float64) error {
	if len(labels) != len(classes) || len(scores) != len(classes) {
		return fmt.Errorf("%w: %d classes, %d labels, %d scores", ErrMalformedPredictions, len(classes), len(labels), len(scores))
	}

	labelTexts := make([]string, len(labels))
	for i, label := range labels {
		labelTexts[i] = strconv.Itoa(label)
	}
	scoreTexts := make([]string, len(scores))
	for i, score := range scores {
		scoreTexts[i] = strconv.FormatFloat(score, 'g', -1, 64)
	}

	_, err := fmt.Fprintf(w, "#%s\n%s\n%s\n%s\n",
		recording,
		strings.Join(classes, ","),
		strings.Join(labelTexts, ","),
		strings.Join(scoreTexts, ","),
	)
	return err
}

// Predictions is a parsed challenge output file.
type Predictions struct {
	Recording string
	Classes   []string
	Labels    []int
	Scores    []float64
}

func ReadPredictions(r io.Reader) (*Predictions, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) < 3 {
		return nil, fmt.Errorf("%w: expected recording, classes and labels lines", ErrMalformedPredictions)
	}

	predictions := &Predictions{
		Recording: strings.TrimPrefix(lines[0], "#"),
		Classes:   splitTrimmed(lines[1]),
	}

	for _, text := range splitTrimmed(lines[2]) {
		label, err := parseBinaryLabel(text)
		if err != nil {
			return nil, err
		}
		predictions.Labels = append(predictions.Labels, label)
	}
	if len(predictions.Labels) != len(predictions.Classes) {
		return nil, fmt.Errorf("%w: %d classes but %d labels", ErrMalformedPredictions, len(predictions.Classes), len(predictions.Labels))
	}

	if len(lines) > 3 {
		for _, text := range splitTrimmed(lines[3]) {
			score, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: score %q", ErrMalformedPredictions, text)
			}
			predictions.Scores = append(predictions.Scores, score)
		}
	}
	return predictions, nil
}

// ReadPredictedLabels returns the tracked codes predicted positive, in
// ascending code order.
func ReadPredictedLabels(r io.Reader) ([]ecgreport.DiagnosisCode, error) {
	predictions, err := ReadPredictions(r)
	if err != nil {
		return nil, err
	}

	positive := make(map[ecgreport.DiagnosisCode]bool)
	for i, class := range predictions.Classes {
		code, err := ecgreport.ParseDiagnosisCode(class)
		if err != nil {
			return nil, fmt.Errorf("%w: class %q", ErrMalformedPredictions, class)
		}
		if predictions.Labels[i] == 1 {
			positive[code] = true
		}
	}

	predicted := []ecgreport.DiagnosisCode{}
	for _, code := range ecgreport.TrackedCodes() {
		if positive[code] {
			predicted = append(predicted, code)
		}
	}
	return predicted, nil
}

func splitTrimmed(line string) []string {
	parts := strings.Split(line, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

// parseBinaryLabel accepts 0/1 and the True/False spelling some entries emit.
func parseBinaryLabel(text string) (int, error) {
	switch strings.ToLower(text) {
	case "1", "true", "1.0":
		return 1, nil
	case "0", "false", "0.0":
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: label %q", ErrMalformedPredictions, text)
	}
}
