package datasets

import (
	"path/filepath"

	"ecg-labeling-service/internal/pkg/constvars"
	"ecg-labeling-service/internal/pkg/exceptions"
)

type Fetcher string

const (
	FetcherWget Fetcher = "wget"
	FetcherGit  Fetcher = "git"
)

// Source is a downloadable dataset. It lands in <datasets path>/<Name>.
type Source struct {
	Name        string
	Description string
	URL         string
	Size        string
	Fetcher     Fetcher
	// OptIn sources are only fetched when named explicitly.
	OptIn bool
}

// catalog is in download order.
var catalog = []Source{
	{
		Name:        constvars.DatasetPF12RED,
		Description: "Professional footballers 12-lead resting ECGs",
		URL:         "https://github.com/dradolfomunoz/PF12RED.git",
		Fetcher:     FetcherGit,
	},
	{
		Name:        constvars.DatasetNorwegian,
		Description: "Norwegian endurance athlete ECGs with machine statements",
		URL:         "https://physionet.org/files/norwegian-athlete-ecg/1.0.0/",
		Size:        "3.2 MB",
		Fetcher:     FetcherWget,
	},
	{
		Name:        constvars.DatasetChallenge2020,
		Description: "PhysioNet/CinC Challenge 2020 training data",
		URL:         "https://physionet.org/files/challenge-2020/1.0.2/",
		Size:        "7.5 GB",
		Fetcher:     FetcherWget,
	},
	{
		Name:        constvars.DatasetMIMICIVECG,
		Description: "MIMIC-IV ECG matched subset",
		URL:         "https://physionet.org/files/mimic-iv-ecg/1.0/",
		Size:        "90.4 GB",
		Fetcher:     FetcherWget,
		OptIn:       true,
	},
}

func Catalog() []Source {
	return append([]Source(nil), catalog...)
}

func Lookup(name string) (Source, bool) {
	for _, source := range catalog {
		if source.Name == name {
			return source, true
		}
	}
	return Source{}, false
}

// Command returns the program and arguments that fetch the source into
// datasetsPath. wget mirrors drop the host and "files/" prefix so the
// dataset lands in <datasetsPath>/<name>/<version>.
func (s Source) Command(datasetsPath string) (string, []string) {
	switch s.Fetcher {
	case FetcherGit:
		return "git", []string{"clone", s.URL, filepath.Join(datasetsPath, s.Name)}
	default:
		return "wget", []string{"-r", "-N", "-c", "-np", "-nH", "--cut-dirs=1", "-P", datasetsPath, s.URL}
	}
}

func selectSources(names []string) ([]Source, error) {
	if len(names) == 0 {
		sources := make([]Source, 0, len(catalog))
		for _, source := range catalog {
			if !source.OptIn {
				sources = append(sources, source)
			}
		}
		return sources, nil
	}

	sources := make([]Source, 0, len(names))
	for _, name := range names {
		source, ok := Lookup(name)
		if !ok {
			return nil, exceptions.ErrDatasetUnknown(name)
		}
		sources = append(sources, source)
	}
	return sources, nil
}
