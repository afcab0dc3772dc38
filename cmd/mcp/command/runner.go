// Copyright 2026 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout is the ceiling applied to a child process
// when the runner is created without an explicit timeout.
const DefaultTimeout = 5 * time.Second

// Runner executes an external command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// RunnerFunc is an adapter to allow the use of
// ordinary functions as command runners.
type RunnerFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Run calls f(ctx, name, args...).
func (f RunnerFunc) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f(ctx, name, args...)
}

// ExecRunner runs commands as child processes, each bounded by Timeout.
// It holds no state between calls and is safe for concurrent use.
type ExecRunner struct {
	Timeout time.Duration
}

// NewExecRunner returns an ExecRunner with the given timeout,
// falling back to DefaultTimeout for non-positive values.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ExecRunner{Timeout: timeout}
}

// Run starts the named command and waits for it to exit.
// The process is killed when the timeout expires or ctx is canceled.
// Stderr output is attached to the returned error when the command fails.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return stdout.Bytes(), fmt.Errorf("%s timed out after %s", name, timeout)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return stdout.Bytes(), fmt.Errorf("%s failed: %w: %s", name, err, msg)
		}
		return stdout.Bytes(), fmt.Errorf("%s failed: %w", name, err)
	}

	return stdout.Bytes(), nil
}
