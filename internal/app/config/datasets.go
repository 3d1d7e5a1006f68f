package config

import (
	"errors"
	"os"

	"ecg-labeling-service/internal/pkg/exceptions"

	"github.com/spf13/viper"
)

const datasetsPathKey = "datasets.path"

// DatasetsFile is the config.ini shared with the training scripts:
//
//	[datasets]
//	path = /data/ecg
type DatasetsFile struct {
	Datasets struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"datasets"`
}

func newDatasetsViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	return v
}

// LoadDatasetsPath returns the persisted dataset directory, or fallback when
// the file does not exist yet.
func LoadDatasetsPath(path, fallback string) (string, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fallback, nil
	}

	v := newDatasetsViper(path)
	if err := v.ReadInConfig(); err != nil {
		return "", exceptions.ErrDatasetsConfigRead(err, path)
	}

	var file DatasetsFile
	if err := v.Unmarshal(&file); err != nil {
		return "", exceptions.ErrDatasetsConfigRead(err, path)
	}
	if file.Datasets.Path == "" {
		return fallback, nil
	}
	return file.Datasets.Path, nil
}

// SaveDatasetsPath writes the dataset directory, keeping other keys of an
// existing file.
func SaveDatasetsPath(path, datasetsPath string) error {
	v := newDatasetsViper(path)
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return exceptions.ErrDatasetsConfigRead(err, path)
		}
	}

	v.Set(datasetsPathKey, datasetsPath)
	if err := v.WriteConfigAs(path); err != nil {
		return exceptions.ErrDatasetsConfigWrite(err, path)
	}
	return nil
}
