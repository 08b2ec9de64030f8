package deps

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/f1sh-bundler/internal/domain/bundle"
	"github.com/oshokin/f1sh-bundler/internal/executil"
	"github.com/oshokin/f1sh-bundler/internal/fsutil"
	"github.com/oshokin/f1sh-bundler/internal/logger"
	"github.com/oshokin/f1sh-bundler/internal/toolchain"
)

// ListerTool is the file name of the dependency walker inside the subsystem bin directory.
const ListerTool = "ntldd.exe"

// resolutionMarker separates a DLL name from its resolved path in ntldd output.
const resolutionMarker = "=>"

// Lister reports the shared-library dependencies of a binary as text,
// one "name => path (address)" resolution per line.
type Lister interface {
	List(ctx context.Context, binary string) ([]byte, error)
}

// Ntldd runs ntldd in recursive mode.
type Ntldd struct {
	// Path is the ntldd executable.
	Path string
	// Executor runs the tool.
	Executor *executil.Executor
}

// List implements Lister.
func (n *Ntldd) List(ctx context.Context, binary string) ([]byte, error) {
	return n.Executor.CombinedOutput(ctx, n.Path, "-R", binary)
}

// Session copies dependency closures into one destination directory.
// It is not safe for concurrent use.
type Session struct {
	lister  Lister
	root    toolchain.Root
	destDir string
	copied  *bundle.CopiedSet
}

// NewSession creates a session. A nil set starts empty.
func NewSession(lister Lister, root toolchain.Root, destDir string, copied *bundle.CopiedSet) *Session {
	if copied == nil {
		copied = bundle.NewCopiedSet()
	}

	return &Session{
		lister:  lister,
		root:    root,
		destDir: destDir,
		copied:  copied,
	}
}

// Copied returns the set shared by every Copy call of this session.
func (s *Session) Copied() *bundle.CopiedSet {
	return s.copied
}

// Copy copies every toolchain DLL that binary depends on and returns the names copied by this call.
// A failing dependency walk is logged and yields no copies; only copy failures are returned as errors.
func (s *Session) Copy(ctx context.Context, binary string) ([]string, error) {
	ctx = logger.WithKV(ctx, "binary", filepath.Base(binary))

	output, err := s.lister.List(ctx, binary)
	if err != nil {
		logger.WarnKV(ctx, "Dependency walk failed, skipping", "error", err)
		return nil, nil
	}

	var copied []string

	for _, candidate := range s.resolve(output) {
		name := filepath.Base(candidate)
		if s.copied.Contains(name) {
			continue
		}

		if err = fsutil.CopyFile(candidate, filepath.Join(s.destDir, name)); err != nil {
			return copied, err
		}

		s.copied.Add(name)
		copied = append(copied, name)

		logger.InfoKV(ctx, "Copied library", "name", name)
	}

	return copied, nil
}

// resolve extracts existing toolchain paths from lister output, in output order.
func (s *Session) resolve(output []byte) []string {
	var paths []string

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		_, right, found := strings.Cut(scanner.Text(), resolutionMarker)
		if !found {
			continue
		}

		fields := strings.Fields(right)
		if len(fields) == 0 {
			continue
		}

		path := s.root.Normalize(fields[0])
		if path == "" || !s.root.Contains(path) {
			continue
		}

		if _, err := os.Stat(path); err != nil {
			continue
		}

		paths = append(paths, path)
	}

	return paths
}
