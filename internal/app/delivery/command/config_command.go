package command

import (
	"ecg-labeling-service/internal/app/config"
)

type ConfigGetCommand struct {
	*Meta
}

func (c *ConfigGetCommand) Help() string {
	return helpText(`
Usage: ecglabel config get

  Prints the datasets directory stored in the config file, or the default
  when none is stored.
`, nil)
}

func (c *ConfigGetCommand) Synopsis() string {
	return "Show the datasets directory"
}

func (c *ConfigGetCommand) Run(args []string) int {
	path, err := config.LoadDatasetsPath(c.InternalConfig.Datasets.ConfigFile, c.InternalConfig.Datasets.DataDir)
	if err != nil {
		return c.fail(err)
	}
	c.Ui.Output(path)
	return exitOK
}

type ConfigSetCommand struct {
	*Meta
}

func (c *ConfigSetCommand) Help() string {
	return helpText(`
Usage: ecglabel config set <path>

  Stores the datasets directory in the config file shared with the training
  scripts.
`, nil)
}

func (c *ConfigSetCommand) Synopsis() string {
	return "Change the datasets directory"
}

func (c *ConfigSetCommand) Run(args []string) int {
	if len(args) != 1 || args[0] == "" {
		c.Ui.Error(c.Help())
		return exitError
	}
	if err := config.SaveDatasetsPath(c.InternalConfig.Datasets.ConfigFile, args[0]); err != nil {
		return c.fail(err)
	}
	c.Ui.Output("Datasets directory set to " + args[0])
	return exitOK
}
