package command

import (
	"context"
	"strings"

	"ecg-labeling-service/internal/app/config"
	"ecg-labeling-service/internal/app/services/core/datasets"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
)

type DatasetsCommand struct {
	*Meta
}

func (c *DatasetsCommand) flags() (*pflag.FlagSet, *[]string, *string) {
	fs := c.flagSet("datasets")
	names := fs.StringSliceP("dataset", "d", nil, "dataset to download, repeatable (default: all but opt-in)")
	dataDir := fs.String("data-dir", "", "store datasets here and remember the location in the config file")
	return fs, names, dataDir
}

func (c *DatasetsCommand) Help() string {
	fs, _, _ := c.flags()
	var catalog strings.Builder
	for _, source := range datasets.Catalog() {
		optIn := ""
		if source.OptIn {
			optIn = " (opt-in)"
		}
		catalog.WriteString("  " + source.Name + optIn + ": " + source.Description)
		if source.Size != "" {
			catalog.WriteString(", " + source.Size)
		}
		catalog.WriteString("\n")
	}
	return helpText(`
Usage: ecglabel datasets [options]

  Downloads ECG datasets into the datasets directory. Datasets already
  present are skipped.

Datasets:

`+catalog.String(), fs)
}

func (c *DatasetsCommand) Synopsis() string {
	return "Download ECG datasets"
}

func (c *DatasetsCommand) Run(args []string) int {
	fs, names, dataDir := c.flags()
	if !c.parseFlags(fs, args, c.Help()) {
		return exitError
	}

	if *dataDir != "" {
		if err := config.SaveDatasetsPath(c.InternalConfig.Datasets.ConfigFile, *dataDir); err != nil {
			return c.fail(err)
		}
	}

	results, err := c.DatasetsUsecase.Download(context.Background(), *names)
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		status := "downloaded"
		if result.Skipped {
			status = "already present"
		}
		rows = append(rows, []string{result.Name, result.Path, status})
	}
	if len(rows) > 0 {
		c.table([]string{"Dataset", "Path", "Status"}, rows)
	}
	if err != nil {
		return c.fail(err)
	}
	return exitOK
}

type EntriesCommand struct {
	*Meta
}

func (c *EntriesCommand) flags() (*pflag.FlagSet, *[]string) {
	fs := c.flagSet("entries")
	teams := fs.StringSliceP("team", "t", nil, "challenge team whose entry to download, repeatable (default: configured teams)")
	return fs, teams
}

func (c *EntriesCommand) Help() string {
	fs, _ := c.flags()
	return helpText(`
Usage: ecglabel entries [options]

  Downloads the published source archives of Challenge 2020 teams.
`, fs)
}

func (c *EntriesCommand) Synopsis() string {
	return "Download Challenge 2020 team entries"
}

func (c *EntriesCommand) Run(args []string) int {
	fs, teams := c.flags()
	if !c.parseFlags(fs, args, c.Help()) {
		return exitError
	}

	results, err := c.DatasetsUsecase.DownloadEntries(context.Background(), *teams)
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		size, status := humanize.Bytes(uint64(result.Bytes)), "downloaded"
		if result.Skipped {
			size, status = "", "already present"
		}
		rows = append(rows, []string{result.Team, result.Path, size, status})
	}
	if len(rows) > 0 {
		c.table([]string{"Team", "Path", "Size", "Status"}, rows)
	}
	if err != nil {
		return c.fail(err)
	}
	return exitOK
}

type UnpackCommand struct {
	*Meta
}

func (c *UnpackCommand) Help() string {
	return helpText(`
Usage: ecglabel unpack

  Extracts the DSAIL_SNU entry from the Challenge 2020 mirror and copies its
  checkpoints and model config into the working directory. An existing config
  directory is left untouched.
`, nil)
}

func (c *UnpackCommand) Synopsis() string {
	return "Unpack the original model checkpoints and config"
}

func (c *UnpackCommand) Run(args []string) int {
	result, err := c.DatasetsUsecase.UnpackOriginalModel(context.Background())
	if err != nil {
		return c.fail(err)
	}

	c.Ui.Output("Checkpoints copied to " + result.CheckpointsDir)
	if result.ConfigCopied {
		c.Ui.Output("Model config copied to " + result.ConfigDir)
	} else {
		c.Ui.Warn("Model config directory " + result.ConfigDir + " already exists, kept as is")
	}
	return exitOK
}
