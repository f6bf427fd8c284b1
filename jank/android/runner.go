package android

import (
	"context"
	"os/exec"
)

const (
	adbPath = "adb"
)

// CommandRunner runs a host command and returns its combined output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// ExecRunner runs commands with os/exec.
var ExecRunner CommandRunner = execRunner{}
