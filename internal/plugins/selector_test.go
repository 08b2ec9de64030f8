package plugins

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/oshokin/f1sh-bundler/internal/config"
	"github.com/oshokin/f1sh-bundler/internal/logger"
)

// recordingCopier remembers which binaries were handed to it.
type recordingCopier struct {
	binaries []string
}

func (r *recordingCopier) Copy(_ context.Context, binary string) ([]string, error) {
	r.binaries = append(r.binaries, filepath.Base(binary))
	return nil, nil
}

func observed() (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return logger.ToContext(context.Background(), zap.New(core).Sugar()), logs
}

// TestSelect_MissingPluginsWarnAndContinue covers partial plugin sets.
func TestSelect_MissingPluginsWarnAndContinue(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := t.TempDir()

	present := []string{"libgstudp.dll", "libgstlibav.dll"}
	for _, name := range present {
		require.NoError(t, os.WriteFile(filepath.Join(src, name), []byte(name), 0o644))
	}

	copier := new(recordingCopier)
	ctx, logs := observed()

	result, err := Select(ctx, &Options{
		SourceDir: src,
		DestDir:   dst,
		Plugins:   config.DefaultPlugins(),
		Deps:      copier,
	})
	require.NoError(t, err)

	require.Equal(t, 12, result.Total)
	require.Equal(t, []string{"libgstudp.dll", "libgstlibav.dll"}, result.Copied)
	require.Len(t, result.Missing, 10)
	require.Equal(t, present, copier.binaries)
	require.Equal(t, 10, logs.FilterMessage("Plugin not found").Len())
	require.Equal(t, 1, logs.FilterMessage("Copied 2/12 plugins").Len())

	for _, name := range present {
		got, readErr := os.ReadFile(filepath.Join(dst, name))
		require.NoError(t, readErr)
		require.Equal(t, name, string(got))
	}
}

// TestSelect_MissingSourceIsFatal ensures a broken toolchain aborts.
func TestSelect_MissingSourceIsFatal(t *testing.T) {
	t.Parallel()

	ctx, _ := observed()

	_, err := Select(ctx, &Options{
		SourceDir: filepath.Join(t.TempDir(), "gstreamer-1.0"),
		DestDir:   t.TempDir(),
		Plugins:   config.DefaultPlugins(),
		Deps:      new(recordingCopier),
	})
	require.ErrorIs(t, err, ErrSourceMissing)
}
