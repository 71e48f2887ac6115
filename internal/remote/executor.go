// Package remote runs single commands on cluster hosts over ssh.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// Executor runs one command on a remote host and returns its stdout
type Executor interface {
	Run(ctx context.Context, host, command string) (string, error)
}

// RemoteCommandError is returned when the remote command exits non-zero
type RemoteCommandError struct {
	Host     string
	Command  string
	ExitCode int
	Stderr   string
}

func (e *RemoteCommandError) Error() string {
	return fmt.Sprintf("remote command %q on %s exited with status %d: %s", e.Command, e.Host, e.ExitCode, e.Stderr)
}

// SSHExecutor spawns the ssh client binary once per call. Host keys are not
// verified.
type SSHExecutor struct {
	Binary  string
	User    string
	Options []string

	logger zerolog.Logger
}

// NewSSHExecutor creates an executor; empty binary and user default to
// "ssh" and "root".
func NewSSHExecutor(binary, user string, options []string, logger zerolog.Logger) *SSHExecutor {
	if binary == "" {
		binary = "ssh"
	}
	if user == "" {
		user = "root"
	}

	return &SSHExecutor{
		Binary:  binary,
		User:    user,
		Options: options,
		logger:  logger,
	}
}

// Args returns the argument list passed to the ssh binary
func (e *SSHExecutor) Args(host, command string) []string {
	args := []string{"-o", "StrictHostKeyChecking=no"}
	args = append(args, e.Options...)
	args = append(args, e.User+"@"+host, command)
	return args
}

// Run executes command on host and blocks until the remote process exits
func (e *SSHExecutor) Run(ctx context.Context, host, command string) (string, error) {
	cmd := exec.CommandContext(ctx, e.Binary, e.Args(host, command)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	e.logger.Debug().
		Str("host", host).
		Str("command", command).
		Dur("elapsed", time.Since(start)).
		Int("stdout_bytes", stdout.Len()).
		Msg("remote command finished")

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("remote command on %s aborted: %w", host, ctxErr)
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &RemoteCommandError{
				Host:     host,
				Command:  command,
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
			}
		}
		return "", fmt.Errorf("failed to run %s on %s: %w", e.Binary, host, err)
	}

	return stdout.String(), nil
}
