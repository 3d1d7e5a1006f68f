package command

import (
	"strconv"
	"strings"

	"ecg-labeling-service/internal/pkg/ecgreport"
	"ecg-labeling-service/internal/pkg/utils"

	"github.com/spf13/pflag"
)

type ExtractCommand struct {
	*Meta
}

func (c *ExtractCommand) flags() (*pflag.FlagSet, *ecgreport.Options) {
	labeler := c.InternalConfig.Labeler
	opts := &ecgreport.Options{}
	fs := c.flagSet("extract")
	fs.BoolVar(&opts.FollowOn, "follow-on", labeler.FollowOn, "merge lower-case segments into the previous finding")
	fs.BoolVar(&opts.SplitAnd, "split-and", labeler.SplitAnd, `split segments on "and"`)
	fs.BoolVar(&opts.WholeWordAnd, "whole-word-and", labeler.WholeWordAnd, `only split on "and" as a whole word`)
	return fs, opts
}

func (c *ExtractCommand) Help() string {
	fs, _ := c.flags()
	return helpText(`
Usage: ecglabel extract [options] <report>

  Prints the findings, diagnosis codes and overall verdict of one report,
  e.g. "Comment: Sinus rhythm, Normal ECG".
`, fs)
}

func (c *ExtractCommand) Synopsis() string {
	return "Extract findings from a single report"
}

func (c *ExtractCommand) Run(args []string) int {
	fs, opts := c.flags()
	if !c.parseFlags(fs, args, c.Help()) {
		return exitError
	}
	if fs.NArg() == 0 {
		c.Ui.Error("expected a report")
		c.Ui.Error(c.Help())
		return exitError
	}

	report := utils.SanitizeReport(strings.Join(fs.Args(), " "))
	label, err := ecgreport.Label(report, *opts)
	if err != nil {
		return c.fail(err)
	}

	rows := make([][]string, 0, len(label.Findings))
	for i, finding := range label.Findings {
		rows = append(rows, []string{strconv.Itoa(i + 1), finding})
	}
	c.table([]string{"#", "Finding"}, rows)

	if len(label.Codes) > 0 {
		codeRows := make([][]string, 0, len(label.Codes))
		for _, code := range label.Codes {
			description, _ := ecgreport.Description(code)
			codeRows = append(codeRows, []string{code.String(), description})
		}
		c.table([]string{"Code", "Finding"}, codeRows)
	}

	c.Ui.Output("Overall: " + label.Overall.String())
	return exitOK
}
