// Package labeltable writes labeled ECG records as a CSV table for model
// training.
package labeltable

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"ecg-labeling-service/internal/pkg/ecgreport"
)

const (
	findingsSeparator = " | "
	codesSeparator    = " "
)

var baseColumns = []string{"record", "dataset", "age", "sex", "overall", "findings", "codes"}

// Row is one labeled record. Overall is empty for datasets labeled from
// structured codes only.
type Row struct {
	Record   string
	Dataset  string
	Age      *int
	Sex      string
	Overall  string
	Findings []string
	Codes    []ecgreport.DiagnosisCode
}

// Header lists the base columns followed by one column per tracked code.
func Header() []string {
	header := append([]string{}, baseColumns...)
	for _, code := range ecgreport.TrackedCodes() {
		header = append(header, code.String())
	}
	return header
}

type Writer struct {
	csv           *csv.Writer
	headerWritten bool
	rows          int
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

func (w *Writer) Write(row Row) error {
	if !w.headerWritten {
		if err := w.csv.Write(Header()); err != nil {
			return err
		}
		w.headerWritten = true
	}
	if err := w.csv.Write(row.record()); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Flush writes buffered rows; an empty table still gets its header.
func (w *Writer) Flush() error {
	if !w.headerWritten {
		if err := w.csv.Write(Header()); err != nil {
			return err
		}
		w.headerWritten = true
	}
	w.csv.Flush()
	return w.csv.Error()
}

func (w *Writer) Rows() int {
	return w.rows
}

func (r Row) record() []string {
	age := ""
	if r.Age != nil {
		age = strconv.Itoa(*r.Age)
	}

	codeTexts := make([]string, len(r.Codes))
	present := make(map[ecgreport.DiagnosisCode]bool, len(r.Codes))
	for i, code := range r.Codes {
		codeTexts[i] = code.String()
		present[code] = true
	}

	record := []string{
		r.Record,
		r.Dataset,
		age,
		r.Sex,
		r.Overall,
		strings.Join(r.Findings, findingsSeparator),
		strings.Join(codeTexts, codesSeparator),
	}
	for _, code := range ecgreport.TrackedCodes() {
		record = append(record, strconv.FormatBool(present[code]))
	}
	return record
}
