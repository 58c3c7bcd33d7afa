/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: process.go
Description: Process oracle for black-box target programs. Each membership query starts the
target once, writes the sequence to its stdin and reads the answer from the exit code
(acceptance targets) or from the last line of stdout (output targets). Timeouts, crashes and
unexpected exit codes are oracle errors, never answers.
*/

package oracle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/kleascm/akaylee-lstar/pkg/sequence"
	"github.com/sirupsen/logrus"
)

// ErrTargetFailed is returned when the target process does not produce an answer
var ErrTargetFailed = errors.New("target process failed")

// ProcessConfig describes how to run the target
type ProcessConfig struct {
	Path      string        // Target executable
	Args      []string      // Extra arguments
	Env       []string      // Extra environment variables
	Separator string        // Joins symbols on stdin
	Timeout   time.Duration // Per-query limit; 0 disables
}

// ProcessOracle answers membership queries by running the target
type ProcessOracle[O comparable] struct {
	config ProcessConfig
	decode func(exitCode int, stdout []byte) (O, error)
	logger *logrus.Logger
}

// NewAcceptanceProcess runs targets that exit 0 to accept and 1 to reject
func NewAcceptanceProcess(config ProcessConfig) (*ProcessOracle[bool], error) {
	return newProcess(config, func(exitCode int, _ []byte) (bool, error) {
		switch exitCode {
		case 0:
			return true, nil
		case 1:
			return false, nil
		}
		return false, fmt.Errorf("%w: unexpected exit code %d", ErrTargetFailed, exitCode)
	})
}

// NewOutputProcess runs targets that print their output on the last stdout line and exit 0
func NewOutputProcess(config ProcessConfig) (*ProcessOracle[string], error) {
	return newProcess(config, func(exitCode int, stdout []byte) (string, error) {
		if exitCode != 0 {
			return "", fmt.Errorf("%w: exit code %d", ErrTargetFailed, exitCode)
		}
		lines := strings.Split(strings.TrimRight(string(stdout), "\r\n"), "\n")
		return strings.TrimSpace(lines[len(lines)-1]), nil
	})
}

func newProcess[O comparable](config ProcessConfig, decode func(int, []byte) (O, error)) (*ProcessOracle[O], error) {
	if config.Path == "" {
		return nil, fmt.Errorf("target path is required")
	}
	if _, err := exec.LookPath(config.Path); err != nil {
		return nil, fmt.Errorf("target %s is not executable: %w", config.Path, err)
	}
	return &ProcessOracle[O]{config: config, decode: decode, logger: logrus.StandardLogger()}, nil
}

// SetLogger replaces the logger
func (p *ProcessOracle[O]) SetLogger(logger *logrus.Logger) {
	p.logger = logger
}

// Query runs the target on seq
func (p *ProcessOracle[O]) Query(ctx context.Context, seq sequence.Sequence) (O, error) {
	var zero O
	parent := ctx
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.config.Path, p.config.Args...)
	cmd.Env = append(os.Environ(), p.config.Env...)
	cmd.Stdin = strings.NewReader(seq.Format(p.config.Separator) + "\n")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Grandchildren holding the output pipes must not outlive a killed target by much
	cmd.WaitDelay = 500 * time.Millisecond

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	// The caller's deadline is reported as such; the per-query timeout is a target failure
	if err := parent.Err(); err != nil {
		return zero, err
	}
	if ctx.Err() != nil {
		return zero, fmt.Errorf("%w: no answer for %s within %v", ErrTargetFailed, seq, p.config.Timeout)
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return zero, fmt.Errorf("%w: failed to run target: %w", ErrTargetFailed, err)
		}
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return zero, fmt.Errorf("%w: killed by signal %v on %s: %s", ErrTargetFailed, status.Signal(), seq, strings.TrimSpace(stderr.String()))
		}
		exitCode = exitErr.ExitCode()
	}

	out, err := p.decode(exitCode, stdout.Bytes())
	if err != nil {
		return zero, fmt.Errorf("query %s: %w", seq, err)
	}
	p.logger.WithFields(logrus.Fields{
		"sequence":  seq.String(),
		"exit_code": exitCode,
		"duration":  duration,
	}).Trace("Target answered")
	return out, nil
}
