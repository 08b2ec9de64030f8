package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"WARN":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		" error ": zapcore.ErrorLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got, s)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestNew_SplitsStreams checks that warnings go to the error writer only.
func TestNew_SplitsStreams(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer

	l := New(zap.NewAtomicLevelAt(zapcore.DebugLevel), &out, &errOut)
	l.Info("copied library")
	l.Warn("plugin not found")

	require.Contains(t, out.String(), "copied library")
	require.NotContains(t, out.String(), "plugin not found")
	require.Contains(t, errOut.String(), "plugin not found")
	require.NotContains(t, errOut.String(), "copied library")
}

// TestContextHelpers ensures the context logger is used and named.
func TestContextHelpers(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())
	ctx = WithName(ctx, "deps")
	ctx = WithKV(ctx, "binary", "app.exe")

	WarnKV(ctx, "dependency walk failed", "error", "exit status 1")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "deps", entries[0].LoggerName)
	require.Equal(t, "app.exe", entries[0].ContextMap()["binary"])
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)

	require.Same(t, Logger(), FromContext(context.Background()))
}
