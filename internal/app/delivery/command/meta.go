// Package command holds the ecglabel subcommands.
package command

import (
	"io"
	"strings"

	"ecg-labeling-service/internal/app/config"
	"ecg-labeling-service/internal/app/contracts"

	"github.com/mitchellh/cli"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (
	exitOK    = 0
	exitError = 1
)

// Meta is shared by every command.
type Meta struct {
	Ui              cli.Ui
	Log             *zap.Logger
	InternalConfig  *config.InternalConfig
	DatasetsUsecase contracts.DatasetsUsecase
	LabelsUsecase   contracts.LabelsUsecase
}

func Commands(meta *Meta) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"datasets": func() (cli.Command, error) {
			return &DatasetsCommand{Meta: meta}, nil
		},
		"entries": func() (cli.Command, error) {
			return &EntriesCommand{Meta: meta}, nil
		},
		"unpack": func() (cli.Command, error) {
			return &UnpackCommand{Meta: meta}, nil
		},
		"label": func() (cli.Command, error) {
			return &LabelCommand{Meta: meta}, nil
		},
		"extract": func() (cli.Command, error) {
			return &ExtractCommand{Meta: meta}, nil
		},
		"predictions read": func() (cli.Command, error) {
			return &PredictionsReadCommand{Meta: meta}, nil
		},
		"predictions write": func() (cli.Command, error) {
			return &PredictionsWriteCommand{Meta: meta}, nil
		},
		"config get": func() (cli.Command, error) {
			return &ConfigGetCommand{Meta: meta}, nil
		},
		"config set": func() (cli.Command, error) {
			return &ConfigSetCommand{Meta: meta}, nil
		},
	}
}

func (m *Meta) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseFlags reports a parse error with the command help.
func (m *Meta) parseFlags(fs *pflag.FlagSet, args []string, help string) bool {
	if err := fs.Parse(args); err != nil {
		m.Ui.Error(err.Error())
		m.Ui.Error(help)
		return false
	}
	return true
}

func (m *Meta) fail(err error) int {
	m.Ui.Error(err.Error())
	return exitError
}

func (m *Meta) table(header []string, rows [][]string) {
	var out strings.Builder
	table := tablewriter.NewWriter(&out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
	m.Ui.Output(strings.TrimRight(out.String(), "\n"))
}

func helpText(usage string, fs *pflag.FlagSet) string {
	text := strings.TrimSpace(usage)
	if fs != nil && fs.HasFlags() {
		text += "\n\nOptions:\n\n" + fs.FlagUsages()
	}
	return text
}
