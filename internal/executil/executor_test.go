package executil

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeScript creates an executable shell script named like a Windows tool.
func writeScript(t *testing.T, name, body string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell script tools are not runnable on Windows")
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))

	return path
}

// TestCombinedOutput_MergesStreams checks that stderr lines are captured with stdout.
func TestCombinedOutput_MergesStreams(t *testing.T) {
	tool := writeScript(t, "ntldd.exe", "echo \"out $1 $2\"\necho err >&2\n")

	out, err := new(Executor).CombinedOutput(context.Background(), tool, "-R", "app.exe")
	require.NoError(t, err)
	require.Contains(t, string(out), "out -R app.exe")
	require.Contains(t, string(out), "err")
}

// TestOutput_PassesEnvironment ensures the environment override reaches the tool.
func TestOutput_PassesEnvironment(t *testing.T) {
	tool := writeScript(t, "gdk-pixbuf-query-loaders.exe", "echo \"dir=$GDK_PIXBUF_MODULEDIR\"\n")

	out, err := new(Executor).Output(context.Background(), map[string]string{"GDK_PIXBUF_MODULEDIR": "/tmp/loaders"}, tool)
	require.NoError(t, err)
	require.Equal(t, "dir=/tmp/loaders\n", string(out))
}

// TestRun_ReportsExitError verifies non-zero exits become *ExitError with stderr kept.
func TestRun_ReportsExitError(t *testing.T) {
	tool := writeScript(t, "glib-compile-schemas.exe", "echo 'bad schema' >&2\nexit 3\n")

	var stderr bytes.Buffer

	err := (&Executor{Stderr: &stderr}).Run(context.Background(), nil, tool, "schemas")
	require.ErrorIs(t, err, ErrToolFailed)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Contains(t, string(exitErr.Output), "bad schema")
	require.Contains(t, stderr.String(), "bad schema")
	require.Contains(t, err.Error(), "exit status 3")

	var osExit *exec.ExitError
	require.ErrorAs(t, err, &osExit)
	require.Equal(t, 3, osExit.ExitCode())
}

// TestRun_MissingTool reports a start failure as a tool failure.
func TestRun_MissingTool(t *testing.T) {
	t.Parallel()

	err := new(Executor).Run(context.Background(), nil, filepath.Join(t.TempDir(), "absent.exe"))
	require.ErrorIs(t, err, ErrToolFailed)
}
