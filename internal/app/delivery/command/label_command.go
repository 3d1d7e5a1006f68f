package command

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"ecg-labeling-service/internal/app/config"
	"ecg-labeling-service/internal/app/services/core/labels"
	"ecg-labeling-service/internal/pkg/constvars"
	"ecg-labeling-service/internal/pkg/dto/responses"
	"ecg-labeling-service/internal/pkg/ecgreport"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
)

type labelFlags struct {
	dir          string
	output       string
	workers      int
	followOn     bool
	splitAnd     bool
	wholeWordAnd bool
	showSkipped  bool
}

type LabelCommand struct {
	*Meta
}

func (c *LabelCommand) flags() (*pflag.FlagSet, *labelFlags) {
	labeler := c.InternalConfig.Labeler
	values := &labelFlags{}
	fs := c.flagSet("label")
	fs.StringVar(&values.dir, "dir", "", "record directory (default: the dataset inside the datasets directory)")
	fs.StringVarP(&values.output, "output", "o", labeler.OutputFileName, "labels table file name, written into the record directory")
	fs.IntVarP(&values.workers, "workers", "w", labeler.Workers, "records labeled in parallel")
	fs.BoolVar(&values.followOn, "follow-on", labeler.FollowOn, "merge lower-case segments into the previous finding")
	fs.BoolVar(&values.splitAnd, "split-and", labeler.SplitAnd, `split segments on "and"`)
	fs.BoolVar(&values.wholeWordAnd, "whole-word-and", labeler.WholeWordAnd, `only split on "and" as a whole word`)
	fs.BoolVar(&values.showSkipped, "show-skipped", false, "list skipped records with the reason")
	return fs, values
}

func (c *LabelCommand) Help() string {
	fs, _ := c.flags()
	return helpText(`
Usage: ecglabel label [options] <norwegian|challenge>

  Labels every record of a dataset and writes the labels table. Norwegian
  athlete records are labeled from their free-text report; Challenge 2020
  records from their Dx codes, keeping adults within the configured ages.
`, fs)
}

func (c *LabelCommand) Synopsis() string {
	return "Label a downloaded dataset"
}

func (c *LabelCommand) Run(args []string) int {
	fs, values := c.flags()
	if !c.parseFlags(fs, args, c.Help()) {
		return exitError
	}
	if fs.NArg() != 1 {
		c.Ui.Error("expected exactly one dataset: norwegian or challenge")
		c.Ui.Error(c.Help())
		return exitError
	}

	labeler := &c.InternalConfig.Labeler
	labeler.OutputFileName = values.output
	labeler.Workers = values.workers
	labeler.FollowOn = values.followOn
	labeler.SplitAnd = values.splitAnd
	labeler.WholeWordAnd = values.wholeWordAnd
	if err := c.InternalConfig.Validate(); err != nil {
		return c.fail(err)
	}

	var (
		run      func(ctx context.Context, dir string) (*responses.LabelRun, error)
		defaults string
	)
	switch fs.Arg(0) {
	case "norwegian", constvars.DatasetNorwegian:
		run, defaults = c.LabelsUsecase.LabelNorwegian, labels.NorwegianRecordsDir
	case "challenge", constvars.DatasetChallenge2020:
		run, defaults = c.LabelsUsecase.LabelChallenge, labels.ChallengeRecordsDir
	default:
		c.Ui.Error(fmt.Sprintf("unknown dataset %q: expected norwegian or challenge", fs.Arg(0)))
		return exitError
	}

	dir := values.dir
	if dir == "" {
		datasetsPath, err := config.LoadDatasetsPath(c.InternalConfig.Datasets.ConfigFile, c.InternalConfig.Datasets.DataDir)
		if err != nil {
			return c.fail(err)
		}
		dir = filepath.Join(datasetsPath, defaults)
	}

	summary, err := run(context.Background(), dir)
	if summary != nil {
		c.printSummary(summary, values.showSkipped)
	}
	if err != nil {
		var sinkErrs *multierror.Error
		if errors.As(err, &sinkErrs) {
			c.Ui.Warn(fmt.Sprintf("%d sink writes failed", sinkErrs.Len()))
		}
		return c.fail(err)
	}
	return exitOK
}

func (c *LabelCommand) printSummary(summary *responses.LabelRun, showSkipped bool) {
	c.table([]string{"Run", "Dataset", "Records", "Labeled", "Skipped", "Filtered", "Duration"}, [][]string{{
		summary.RunID,
		summary.Dataset,
		strconv.Itoa(summary.Total),
		strconv.Itoa(summary.Labeled),
		strconv.Itoa(len(summary.Skipped)),
		strconv.Itoa(summary.Filtered),
		summary.Duration.String(),
	}})

	if len(summary.ByOverall) > 0 {
		overall := make([]string, 0, len(summary.ByOverall))
		for name := range summary.ByOverall {
			overall = append(overall, name)
		}
		sort.Strings(overall)
		rows := make([][]string, 0, len(overall))
		for _, name := range overall {
			rows = append(rows, []string{name, strconv.Itoa(summary.ByOverall[name])})
		}
		c.table([]string{"Overall", "Records"}, rows)
	}

	rows := make([][]string, 0, len(ecgreport.TrackedCodes()))
	for _, code := range ecgreport.TrackedCodes() {
		description, _ := ecgreport.Description(code)
		rows = append(rows, []string{code.String(), description, strconv.Itoa(summary.ByCode[int64(code)])})
	}
	c.table([]string{"Code", "Finding", "Records"}, rows)

	if showSkipped && len(summary.Skipped) > 0 {
		rows := make([][]string, 0, len(summary.Skipped))
		for _, skipped := range summary.Skipped {
			rows = append(rows, []string{skipped.Record, skipped.Reason})
		}
		c.table([]string{"Skipped record", "Reason"}, rows)
	}

	c.Ui.Output("Labels table written to " + summary.OutputPath)
	if summary.ObjectName != "" {
		c.Ui.Output("Labels table uploaded as " + summary.ObjectName)
	}
}
