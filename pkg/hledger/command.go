package hledger

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandError is returned when the ledger tool exits non-zero. Nothing it
// printed on stdout is usable so callers are expected to abort the run.
type CommandError struct {
	Command string
	Err     error
	Stderr  string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s failed: %v: %s", e.Command, e.Err, strings.TrimSpace(e.Stderr))
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Runner executes queries against the ledger CLI.
type Runner struct {
	command string
	args    []string
}

// NewRunner returns a Runner for the given binary. globalArgs are placed
// before every query, which is where flags such as -f belong.
func NewRunner(command string, globalArgs []string) *Runner {
	return &Runner{
		command: command,
		args:    globalArgs,
	}
}

// Run executes the command with args and returns stdout.
func (r *Runner) Run(ctx context.Context, args ...string) (string, error) {
	realArgs := make([]string, 0, len(r.args)+len(args))
	realArgs = append(realArgs, r.args...)
	realArgs = append(realArgs, args...)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.command, realArgs...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &CommandError{
			Command: strings.Join(append([]string{r.command}, realArgs...), " "),
			Err:     err,
			Stderr:  stderr.String(),
		}
	}

	return stdout.String(), nil
}

// ReadPrices runs `prices` and parses the result.
func ReadPrices(ctx context.Context, r *Runner, yearOffset int) ([]PriceQuote, error) {
	raw, err := r.Run(ctx, "prices")
	if err != nil {
		return nil, err
	}

	return ParsePrices(raw, yearOffset)
}

// ReadPostings runs `print -O csv` and parses the result.
func ReadPostings(ctx context.Context, r *Runner, yearOffset int) ([]Posting, error) {
	raw, err := r.Run(ctx, "print", "-O", "csv")
	if err != nil {
		return nil, err
	}

	return ParsePostings(raw, yearOffset)
}
