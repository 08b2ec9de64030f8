package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func sampleBundle(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "bin", "app.exe"), "exe")
	writeFile(t, filepath.Join(root, "bin", "libglib-2.0-0.dll"), "glib")
	writeFile(t, filepath.Join(root, "lib", "gstreamer-1.0", "libgstudp.dll"), "udp")

	return root
}

// TestDescription_FillSaveLoad writes a manifest and reads it back.
func TestDescription_FillSaveLoad(t *testing.T) {
	t.Parallel()

	root := sampleBundle(t)

	desc := NewDescription("app.exe")
	desc.Plugins = []string{"libgstudp.dll"}
	desc.Libraries = []string{"libintl-8.dll", "libglib-2.0-0.dll"}
	require.NoError(t, desc.Fill(root))
	require.NoError(t, desc.Save(root))

	require.Len(t, desc.Files, 3)
	require.Contains(t, desc.Files, "lib/gstreamer-1.0/libgstudp.dll")
	require.Len(t, desc.Files["bin/app.exe"], 64)

	loaded, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, desc, loaded)
	require.Equal(t, []string{"libglib-2.0-0.dll", "libintl-8.dll"}, loaded.Libraries)

	// The manifest never lists itself, so filling again is stable.
	again := NewDescription("app.exe")
	require.NoError(t, again.Fill(root))
	require.Equal(t, desc.Files, again.Files)
}

// TestDescription_Verify detects missing, changed and extra files.
func TestDescription_Verify(t *testing.T) {
	t.Parallel()

	root := sampleBundle(t)

	desc := NewDescription("app.exe")
	require.NoError(t, desc.Fill(root))
	require.NoError(t, desc.Save(root))

	diff, err := desc.Verify(root)
	require.NoError(t, err)
	require.True(t, diff.Empty())

	require.NoError(t, os.Remove(filepath.Join(root, "bin", "libglib-2.0-0.dll")))
	writeFile(t, filepath.Join(root, "bin", "app.exe"), "patched")
	writeFile(t, filepath.Join(root, "share", "extra.txt"), "extra")

	diff, err = desc.Verify(root)
	require.ErrorIs(t, err, ErrMismatch)
	require.Equal(t, []string{"bin/libglib-2.0-0.dll"}, diff.Missing)
	require.Equal(t, []string{"bin/app.exe"}, diff.Changed)
	require.Equal(t, []string{"share/extra.txt"}, diff.Extra)
}

// TestLoad_NotFound reports a bundle without a manifest.
func TestLoad_NotFound(t *testing.T) {
	t.Parallel()

	_, err := Load(t.TempDir())
	require.ErrorIs(t, err, ErrNotFound)
}

// TestDetectBuilder reports the current host.
func TestDetectBuilder(t *testing.T) {
	t.Parallel()

	builder, err := DetectBuilder()
	if err != nil {
		t.Skipf("no user database: %v", err)
	}

	hostname, err := os.Hostname()
	require.NoError(t, err)
	require.Equal(t, hostname, builder.Hostname)
	require.NotEmpty(t, builder.Username)
}
