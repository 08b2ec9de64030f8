package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPrinter_Step writes plain banners when colors are off.
func TestPrinter_Step(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	p := New(&out, false, false)
	p.Step("Copying %d required GStreamer plugins", 12)
	p.Done("Packaging complete!")

	require.Equal(t, "\n==> Copying 12 required GStreamer plugins\n\n==> Packaging complete!\n", out.String())
}

// TestPrinter_ZeroValueIsSilent ensures nil and zero printers are usable.
func TestPrinter_ZeroValueIsSilent(t *testing.T) {
	t.Parallel()

	var p *Printer

	p.Step("ignored")
	require.NoError(t, p.Progress(3, "plugins").Add(1))

	new(Printer).Done("ignored")
}

// TestPrinter_Progress renders a bar only when enabled.
func TestPrinter_Progress(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	bar := New(&out, false, true).Progress(2, "assets")
	require.NoError(t, bar.Add(1))
	require.NoError(t, bar.Add(1))
	require.NoError(t, bar.Finish())
	require.NotEmpty(t, out.String())

	out.Reset()

	disabled := New(&out, false, false).Progress(2, "assets")
	require.NoError(t, disabled.Add(2))
	require.Empty(t, out.String())
}
