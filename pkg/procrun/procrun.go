// Package procrun runs external preprocessor commands with stdin and stdout
// redirected to files. Command lines are tokenized shell-style; execution
// blocks until the child exits.
package procrun

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/google/shlex"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrParse indicates the command line could not be tokenized
	// (unbalanced quoting, empty command).
	ErrParse = errors.New("command parse error")

	// ErrRun indicates the command failed to launch or exited non-zero.
	ErrRun = errors.New("command failed")
)

// Split tokenizes a command line into program and arguments.
func Split(commandLine string) (program string, args []string, err error) {
	tokens, err := shlex.Split(commandLine)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if len(tokens) == 0 {
		return "", nil, fmt.Errorf("%w: empty command", ErrParse)
	}
	return tokens[0], tokens[1:], nil
}

// Run executes the command line with stdin read from inPath and stdout
// written to outPath. It blocks until the child exits; no timeout is imposed
// beyond the caller's context. A parse failure, launch failure, or non-zero
// exit all report an error.
func Run(ctx context.Context, commandLine, inPath, outPath string) error {
	program, args, err := Split(commandLine)
	if err != nil {
		return err
	}

	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("%w: open stdin %s: %w", ErrRun, inPath, err)
	}
	defer in.Close()

	out, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("%w: open stdout %s: %w", ErrRun, outPath, err)
	}
	defer out.Close()

	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Stdin = in
	cmd.Stdout = out
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRun, program, err)
	}
	return nil
}
