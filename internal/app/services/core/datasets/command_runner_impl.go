package datasets

import (
	"context"
	"io"
	"os/exec"
	"strings"

	"ecg-labeling-service/internal/app/contracts"

	"go.uber.org/zap"
)

type execCommandRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Log    *zap.Logger
}

// NewExecCommandRunner runs programs found on PATH, streaming their output to
// stdout and stderr. Either writer may be nil to discard it.
func NewExecCommandRunner(stdout, stderr io.Writer, logger *zap.Logger) contracts.CommandRunner {
	return &execCommandRunner{Stdout: stdout, Stderr: stderr, Log: logger}
}

func (r *execCommandRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	r.Log.Info("execCommandRunner.Run called",
		zap.String("command", name),
		zap.String("args", strings.Join(args, " ")),
	)

	if _, err := exec.LookPath(name); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd.Run()
}
