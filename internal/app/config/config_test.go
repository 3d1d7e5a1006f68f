package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetsPath(t *testing.T) {
	t.Run("Missing File Uses Fallback", func(t *testing.T) {
		path, err := LoadDatasetsPath(filepath.Join(t.TempDir(), "config.ini"), "data")
		require.NoError(t, err)
		assert.Equal(t, "data", path)
	})

	t.Run("Save Then Load", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "config.ini")
		require.NoError(t, SaveDatasetsPath(file, "/srv/ecg"))

		path, err := LoadDatasetsPath(file, "data")
		require.NoError(t, err)
		assert.Equal(t, "/srv/ecg", path)
	})

	t.Run("Existing File", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "config.ini")
		require.NoError(t, os.WriteFile(file, []byte("[datasets]\npath = /mnt/physionet\n"), 0o644))

		path, err := LoadDatasetsPath(file, "data")
		require.NoError(t, err)
		assert.Equal(t, "/mnt/physionet", path)
	})
}

func TestInternalConfigValidate(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := NewInternalConfig()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Inverted Age Bounds", func(t *testing.T) {
		cfg := NewInternalConfig()
		cfg.Labeler.MinAge = 90
		cfg.Labeler.MaxAge = 18
		assert.Error(t, cfg.Validate())
	})

	t.Run("Options", func(t *testing.T) {
		cfg := NewInternalConfig()
		cfg.Labeler.FollowOn = false
		opts := cfg.Labeler.ExtractOptions()
		assert.False(t, opts.FollowOn)
		assert.Equal(t, cfg.Labeler.SplitAnd, opts.SplitAnd)
	})
}
