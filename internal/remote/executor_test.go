package remote

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSSH writes a shell script standing in for the ssh client
func fakeSSH(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ssh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))

	return path
}

func TestArgs(t *testing.T) {
	e := NewSSHExecutor("", "", []string{"-p", "2222"}, zerolog.Nop())

	assert.Equal(t, "ssh", e.Binary)
	assert.Equal(t, []string{
		"-o", "StrictHostKeyChecking=no", "-p", "2222", "root@192.168.0.201", "gluster pool list",
	}, e.Args("192.168.0.201", "gluster pool list"))
}

func TestRunReturnsStdout(t *testing.T) {
	// $3 is user@host, $4 the command
	bin := fakeSSH(t, `printf '%s|%s' "$3" "$4"`)
	e := NewSSHExecutor(bin, "root", nil, zerolog.Nop())

	out, err := e.Run(context.Background(), "192.168.0.201", "gluster pool list")
	require.NoError(t, err)
	assert.Equal(t, "root@192.168.0.201|gluster pool list", out)
}

func TestRunNonZeroExit(t *testing.T) {
	bin := fakeSSH(t, `echo partial; printf 'connection refused' >&2; exit 1`)
	e := NewSSHExecutor(bin, "root", nil, zerolog.Nop())

	out, err := e.Run(context.Background(), "192.168.0.201", "gluster pool list")
	require.Error(t, err)
	assert.Empty(t, out)

	var rce *RemoteCommandError
	require.True(t, errors.As(err, &rce))
	assert.Equal(t, "connection refused", rce.Stderr)
	assert.Equal(t, 1, rce.ExitCode)
	assert.Equal(t, "192.168.0.201", rce.Host)
	assert.Equal(t, "gluster pool list", rce.Command)
}

func TestRunMissingBinary(t *testing.T) {
	e := NewSSHExecutor(filepath.Join(t.TempDir(), "nope"), "root", nil, zerolog.Nop())

	_, err := e.Run(context.Background(), "h", "true")
	require.Error(t, err)

	var rce *RemoteCommandError
	assert.False(t, errors.As(err, &rce))
}

func TestRunCanceled(t *testing.T) {
	bin := fakeSSH(t, `exec sleep 5`)
	e := NewSSHExecutor(bin, "root", nil, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := e.Run(ctx, "h", "gluster pool list")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
