// Package gitcli runs the git binary for the few operations the engine cannot
// perform itself.
package gitcli

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	osexec "os/exec"
	"slices"
)

// Runner executes git with args in dir.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (*Result, error)
}

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ExecError is returned when the command could not be started or exited
// with a non-zero status.
type ExecError struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("command %v failed with exit code %d: %v", e.Args, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("command %v failed with exit code %d", e.Args, e.ExitCode)
}

// Unwrap returns the underlying error.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// Command is the default Runner. It inherits the process environment and
// disables colors and interactive prompts.
type Command struct {
	binary string
	env    map[string]string
	logger *slog.Logger
}

// Option configures a Command.
type Option func(*Command)

// WithBinary runs path instead of "git".
func WithBinary(path string) Option {
	return func(c *Command) {
		c.binary = path
	}
}

// WithEnv adds environment variables to every run.
func WithEnv(env map[string]string) Option {
	return func(c *Command) {
		for k, v := range env {
			c.env[k] = v
		}
	}
}

// WithLogger sets the logger used to trace invocations.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Command) {
		c.logger = logger
	}
}

// New creates a Command.
func New(opts ...Option) *Command {
	c := &Command{
		binary: "git",
		env: map[string]string{
			"NO_COLOR":            "1",
			"TERM":                "dumb",
			"GIT_TERMINAL_PROMPT": "0",
		},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes the binary with args in dir. The process is killed when ctx is
// done.
func (c *Command) Run(ctx context.Context, dir string, args ...string) (*Result, error) {
	if len(args) == 0 {
		return nil, &ExecError{ExitCode: -1, Err: fmt.Errorf("no arguments given")}
	}

	cmd := osexec.CommandContext(ctx, c.binary, args...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	for _, k := range slices.Sorted(maps.Keys(c.env)) {
		cmd.Env = append(cmd.Env, k+"="+c.env[k])
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("running git", "binary", c.binary, "args", args, "dir", dir)
	err := cmd.Run()

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}
	if err != nil {
		return result, &ExecError{
			Args:     slices.Clone(args),
			ExitCode: result.ExitCode,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
			Err:      err,
		}
	}
	return result, nil
}
