package toolchain

import (
	"path/filepath"
	"strings"
)

const (
	msysSeparator    = '/'
	windowsSeparator = `\`
)

// Normalize converts a path printed by an MSYS2 tool into a native path.
// It returns an empty string when the token cannot be resolved.
//
// Three forms are understood:
//   - C:/msys64/ucrt64/bin/x.dll or C:\... keeps its drive, separators become backslashes;
//   - /c/msys64/ucrt64/bin/x.dll becomes C:\msys64\ucrt64\bin\x.dll;
//   - /ucrt64/bin/x.dll is taken relative to the MSYS2 root.
func (r Root) Normalize(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}

	if strings.Contains(token, ":") && len(token) > 2 {
		return strings.ReplaceAll(token, string(msysSeparator), windowsSeparator)
	}

	if token[0] != msysSeparator {
		return ""
	}

	if len(token) >= 3 && token[2] == msysSeparator {
		drive := strings.ToUpper(token[1:2])
		rest := strings.ReplaceAll(token[3:], string(msysSeparator), windowsSeparator)

		return drive + ":" + windowsSeparator + rest
	}

	return filepath.Join(r.Path, filepath.FromSlash(token[1:]))
}
