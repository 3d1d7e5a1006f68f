package command

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"ecg-labeling-service/internal/pkg/challenge"
	"ecg-labeling-service/internal/pkg/ecgreport"

	"github.com/spf13/pflag"
)

type PredictionsReadCommand struct {
	*Meta
}

func (c *PredictionsReadCommand) Help() string {
	return helpText(`
Usage: ecglabel predictions read <file>

  Prints the scores of a challenge output file and the tracked findings it
  predicts.
`, nil)
}

func (c *PredictionsReadCommand) Synopsis() string {
	return "Read a challenge predictions file"
}

func (c *PredictionsReadCommand) Run(args []string) int {
	if len(args) != 1 {
		c.Ui.Error(c.Help())
		return exitError
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return c.fail(err)
	}
	predictions, err := challenge.ReadPredictions(bytes.NewReader(content))
	if err != nil {
		return c.fail(err)
	}
	predicted, err := challenge.ReadPredictedLabels(bytes.NewReader(content))
	if err != nil {
		return c.fail(err)
	}

	rows := make([][]string, 0, len(predictions.Classes))
	for i, class := range predictions.Classes {
		rows = append(rows, []string{
			class,
			strconv.Itoa(predictions.Labels[i]),
			strconv.FormatFloat(predictions.Scores[i], 'f', 4, 64),
		})
	}
	c.Ui.Output("Recording " + predictions.Recording)
	c.table([]string{"Class", "Label", "Score"}, rows)

	if len(predicted) == 0 {
		c.Ui.Output("No tracked findings predicted")
		return exitOK
	}
	trackedRows := make([][]string, 0, len(predicted))
	for _, code := range predicted {
		description, _ := ecgreport.Description(code)
		trackedRows = append(trackedRows, []string{code.String(), description})
	}
	c.table([]string{"Code", "Predicted finding"}, trackedRows)
	return exitOK
}

type predictionsWriteFlags struct {
	recording string
	output    string
	classes   []string
	labels    []int
	scores    []float64
}

type PredictionsWriteCommand struct {
	*Meta
}

func (c *PredictionsWriteCommand) flags() (*pflag.FlagSet, *predictionsWriteFlags) {
	values := &predictionsWriteFlags{}
	fs := c.flagSet("predictions write")
	fs.StringVarP(&values.recording, "recording", "r", "", "recording name")
	fs.StringVarP(&values.output, "output", "o", "", "output file (default: <recording>.csv)")
	fs.StringSliceVar(&values.classes, "classes", nil, "class codes, comma separated")
	fs.IntSliceVar(&values.labels, "labels", nil, "binary labels, comma separated")
	fs.Float64SliceVar(&values.scores, "scores", nil, "scores, comma separated")
	return fs, values
}

func (c *PredictionsWriteCommand) Help() string {
	fs, _ := c.flags()
	return helpText(`
Usage: ecglabel predictions write [options]

  Writes one recording's output in the challenge format.
`, fs)
}

func (c *PredictionsWriteCommand) Synopsis() string {
	return "Write a challenge predictions file"
}

func (c *PredictionsWriteCommand) Run(args []string) int {
	fs, values := c.flags()
	if !c.parseFlags(fs, args, c.Help()) {
		return exitError
	}
	if values.recording == "" {
		c.Ui.Error("--recording is required")
		return exitError
	}
	for _, label := range values.labels {
		if label != 0 && label != 1 {
			return c.fail(fmt.Errorf("%w: label %d is not binary", challenge.ErrMalformedPredictions, label))
		}
	}

	output := values.output
	if output == "" {
		output = values.recording + ".csv"
	}

	var buf bytes.Buffer
	if err := challenge.WritePredictions(&buf, values.recording, values.classes, values.labels, values.scores); err != nil {
		return c.fail(err)
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return c.fail(err)
	}

	c.Ui.Output("Predictions written to " + output)
	return exitOK
}
