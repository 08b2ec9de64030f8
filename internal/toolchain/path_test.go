package toolchain

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var testRoot = Root{Path: filepath.Join("msys64"), Subsystem: "ucrt64"}

// segmentGen draws a path segment without separators, colons or spaces.
func segmentGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z0-9_.\-]{1,12}`)
}

func segmentsGen() *rapid.Generator[[]string] {
	return rapid.SliceOfN(segmentGen(), 1, 6)
}

// TestNormalize_Literals covers each rule with a literal token.
func TestNormalize_Literals(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"/c/msys64/ucrt64/bin/libglib-2.0-0.dll": `C:\msys64\ucrt64\bin\libglib-2.0-0.dll`,
		"C:/msys64/ucrt64/bin/libintl-8.dll":     `C:\msys64\ucrt64\bin\libintl-8.dll`,
		`C:\Windows\SYSTEM32\KERNEL32.dll`:       `C:\Windows\SYSTEM32\KERNEL32.dll`,
		"  /d/tools/x.dll  ":                     `D:\tools\x.dll`,
		"/ucrt64/bin/libffi-8.dll":               filepath.Join(testRoot.Path, "ucrt64", "bin", "libffi-8.dll"),
		"libfoo.dll":                             "",
		"not":                                    "",
		"":                                       "",
		"   \t ":                                 "",
		"/":                                      testRoot.Path,
	}

	for token, want := range cases {
		require.Equal(t, want, testRoot.Normalize(token), "token %q", token)
	}
}

// TestNormalize_DriveRooted checks /x/a/b always becomes X:\a\b.
func TestNormalize_DriveRooted(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		drive := rapid.StringMatching(`[a-zA-Z]`).Draw(t, "drive")
		segments := segmentsGen().Draw(t, "segments")

		token := "/" + drive + "/" + strings.Join(segments, "/")
		want := strings.ToUpper(drive) + `:\` + strings.Join(segments, `\`)

		require.Equal(t, want, testRoot.Normalize(token))
	})
}

// TestNormalize_NativeIsIdempotent checks that tokens with a drive only change separators.
func TestNormalize_NativeIsIdempotent(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		drive := rapid.StringMatching(`[A-Z]`).Draw(t, "drive")
		separators := rapid.SliceOfN(rapid.SampledFrom([]string{"/", `\`}), 1, 6).Draw(t, "separators")
		segments := rapid.SliceOfN(segmentGen(), len(separators), len(separators)).Draw(t, "segments")

		var builder strings.Builder

		builder.WriteString(drive + ":")

		for i, segment := range segments {
			builder.WriteString(separators[i])
			builder.WriteString(segment)
		}

		token := builder.String()
		once := testRoot.Normalize(token)

		require.Equal(t, strings.ReplaceAll(token, "/", `\`), once)
		require.Equal(t, once, testRoot.Normalize(once))
	})
}

// TestNormalize_RootRelative checks /a/b... with a multi-letter first segment joins the root.
func TestNormalize_RootRelative(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		first := rapid.StringMatching(`[A-Za-z0-9_\-]{2,12}`).Draw(t, "first")
		rest := rapid.SliceOfN(segmentGen(), 0, 5).Draw(t, "rest")

		remainder := strings.Join(append([]string{first}, rest...), "/")

		require.Equal(t, filepath.Join(testRoot.Path, filepath.FromSlash(remainder)), testRoot.Normalize("/"+remainder))
	})
}

// TestNormalize_NeverPanics feeds arbitrary strings to the normalizer.
func TestNormalize_NeverPanics(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		token := rapid.String().Draw(t, "token")

		require.NotPanics(t, func() {
			_ = testRoot.Normalize(token)
		})
	})
}

// TestRoot_Contains compares prefixes case-insensitively.
func TestRoot_Contains(t *testing.T) {
	t.Parallel()

	root := Root{Path: filepath.Join("C:", "msys64"), Subsystem: "ucrt64"}

	require.True(t, root.Contains(filepath.Join("C:", "MSYS64", "UCRT64", "bin", "x.dll")))
	require.False(t, root.Contains(filepath.Join("C:", "msys64", "usr", "bin", "msys-2.0.dll")))
	require.False(t, root.Contains(filepath.Join("C:", "Windows", "System32", "kernel32.dll")))
	require.Equal(t, filepath.Join(root.Prefix(), "bin", "ntldd.exe"), root.Tool("ntldd.exe"))
	require.Equal(t, filepath.Join(root.Prefix(), "lib", "gstreamer-1.0"), root.Join("lib/gstreamer-1.0"))
}
