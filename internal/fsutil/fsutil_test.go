package fsutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string, mode os.FileMode) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), mode))
}

// TestCopyFile_PreservesModeAndTime mirrors copy2 semantics and creates parents.
func TestCopyFile_PreservesModeAndTime(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src", "ca-bundle.crt")
	dst := filepath.Join(dir, "dst", "etc", "ssl", "certs", "ca-bundle.crt")

	writeFile(t, src, "certs", 0o640)

	stamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, stamp, stamp))

	require.NoError(t, CopyFile(src, dst))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	require.True(t, info.ModTime().Equal(stamp))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "certs", string(got))
}

// TestMergeTree_KeepsExtraFiles checks overwrite-and-preserve merge semantics.
func TestMergeTree_KeepsExtraFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "icons")
	dst := filepath.Join(dir, "bundle", "icons")

	writeFile(t, filepath.Join(src, "index.theme"), "new", 0o644)
	writeFile(t, filepath.Join(src, "16x16", "go-up.png"), "png", 0o644)
	writeFile(t, filepath.Join(dst, "index.theme"), "old", 0o644)
	writeFile(t, filepath.Join(dst, "local.txt"), "keep me", 0o644)

	require.NoError(t, MergeTree(src, dst))

	got, err := os.ReadFile(filepath.Join(dst, "index.theme"))
	require.NoError(t, err)
	require.Equal(t, "new", string(got))
	require.True(t, IsFile(filepath.Join(dst, "16x16", "go-up.png")))
	require.True(t, IsFile(filepath.Join(dst, "local.txt")))

	require.ErrorIs(t, MergeTree(filepath.Join(src, "index.theme"), dst), ErrNotDirectory)
}

// TestInstallExecutable_ReplacesTarget installs over an existing and a missing target.
func TestInstallExecutable_ReplacesTarget(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "toolchain", "gst-plugin-scanner.exe")
	dst := filepath.Join(dir, "bundle", "libexec", "gstreamer-1.0", "gst-plugin-scanner.exe")

	writeFile(t, src, "scanner v1", 0o755)
	require.NoError(t, InstallExecutable(src, dst))

	writeFile(t, src, "scanner v2", 0o755)

	stamp := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, stamp, stamp))
	require.NoError(t, InstallExecutable(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "scanner v2", string(got))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	require.True(t, info.ModTime().Equal(stamp))
	require.True(t, IsDir(filepath.Dir(dst)))
	require.False(t, Exists(filepath.Join(dir, "absent")))
}
