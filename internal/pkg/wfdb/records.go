package wfdb

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const HeaderExtension = ".hea"

// Record points at a WFDB record; Path has no file suffix.
type Record struct {
	Name string
	Path string
}

// FindRecords lists every record in dir and in its direct sub-directories,
// e.g. the g1/, g2/ groups of the Challenge 2020 training sets.
func FindRecords(dir string) ([]Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())
		if !entry.IsDir() {
			if record, ok := recordFromFile(dir, entry.Name()); ok {
				records = append(records, record)
			}
			continue
		}

		children, err := os.ReadDir(entryPath)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if child.IsDir() {
				continue
			}
			if record, ok := recordFromFile(entryPath, child.Name()); ok {
				records = append(records, record)
			}
		}
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records, nil
}

func recordFromFile(dir, fileName string) (Record, bool) {
	if filepath.Ext(fileName) != HeaderExtension {
		return Record{}, false
	}
	name := strings.TrimSuffix(fileName, HeaderExtension)
	return Record{Name: name, Path: filepath.Join(dir, name)}, true
}
