package archive

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/ulikunitz/xz"

	"github.com/oshokin/f1sh-bundler/internal/config"
	"github.com/oshokin/f1sh-bundler/internal/console"
	"github.com/oshokin/f1sh-bundler/internal/logger"
)

// Format is a supported archive compression.
type Format string

const (
	// FormatZstd writes .tar.zst archives.
	FormatZstd Format = "zstd"
	// FormatGzip writes .tar.gz and .tgz archives.
	FormatGzip Format = "gzip"
	// FormatXz writes .tar.xz archives.
	FormatXz Format = "xz"
)

// ErrUnsupportedFormat is returned for archive names with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported archive format")

// DetectFormat picks the compression from the archive file name.
func DetectFormat(path string) (Format, error) {
	name := strings.ToLower(filepath.Base(path))

	switch {
	case strings.HasSuffix(name, ".tar.zst"):
		return FormatZstd, nil
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return FormatGzip, nil
	case strings.HasSuffix(name, ".tar.xz"):
		return FormatXz, nil
	default:
		return "", fmt.Errorf("%s: %w (use .tar.zst, .tar.gz or .tar.xz)", path, ErrUnsupportedFormat)
	}
}

// Options are the inputs of Write.
type Options struct {
	// Root is the bundle directory.
	Root string
	// Path is the archive to create.
	Path string
	// Prefix is the top-level directory inside the archive; empty means the base name of Root.
	Prefix string
	// Printer shows progress; nil disables it.
	Printer *console.Printer
}

// Write packs the bundle tree into opts.Path.
// Entries are written in lexical order with zeroed ownership so equal trees give equal tarballs.
func Write(ctx context.Context, opts *Options) (err error) {
	ctx = logger.WithName(ctx, "archive")

	format, err := DetectFormat(opts.Path)
	if err != nil {
		return err
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = filepath.Base(opts.Root)
	}

	paths, err := collect(opts.Root, opts.Path)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Clean(opts.Path), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, config.DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close archive: %w", closeErr)
		}
	}()

	compressor, err := newCompressor(format, f)
	if err != nil {
		return err
	}

	tw := tar.NewWriter(compressor)
	bar := opts.Printer.Progress(len(paths), "archive")

	for _, rel := range paths {
		if err = ctx.Err(); err != nil {
			return err
		}

		if err = addEntry(tw, opts.Root, rel, prefix); err != nil {
			return err
		}

		_ = bar.Add(1)
	}

	_ = bar.Finish()

	if err = tw.Close(); err != nil {
		return fmt.Errorf("finish tar stream: %w", err)
	}

	if err = compressor.Close(); err != nil {
		return fmt.Errorf("finish %s stream: %w", format, err)
	}

	logger.InfoKV(ctx, "Archive written", "path", opts.Path, "format", format, "entries", len(paths))

	return nil
}

func newCompressor(format Format, w io.Writer) (io.WriteCloser, error) {
	switch format {
	case FormatZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("create zstd writer: %w", err)
		}

		return zw, nil
	case FormatGzip:
		return pgzip.NewWriter(w), nil
	case FormatXz:
		xw, err := xz.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("create xz writer: %w", err)
		}

		return xw, nil
	default:
		return nil, fmt.Errorf("%s: %w", format, ErrUnsupportedFormat)
	}
}

// collect returns the slash-separated paths below root in walk order,
// skipping the archive itself when it is written inside the bundle.
func collect(root, archivePath string) ([]string, error) {
	archiveAbs, _ := filepath.Abs(archivePath)

	var paths []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if path == root {
			return nil
		}

		if abs, _ := filepath.Abs(path); abs == archiveAbs {
			return nil
		}

		if !entry.IsDir() && !entry.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		paths = append(paths, filepath.ToSlash(rel))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan bundle: %w", err)
	}

	return paths, nil
}

func addEntry(tw *tar.Writer, root, rel, prefix string) error {
	path := filepath.Join(root, filepath.FromSlash(rel))

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", rel, err)
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("header for %s: %w", rel, err)
	}

	hdr.Name = prefix + "/" + rel
	if info.IsDir() {
		hdr.Name += "/"
	}

	hdr.Uid, hdr.Gid = 0, 0
	hdr.Uname, hdr.Gname = "", ""
	hdr.ModTime = info.ModTime().UTC().Truncate(time.Second)
	hdr.AccessTime, hdr.ChangeTime = time.Time{}, time.Time{}
	hdr.Format = tar.FormatPAX

	if err = tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write header for %s: %w", rel, err)
	}

	if info.IsDir() {
		return nil
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}

	defer func() {
		_ = f.Close()
	}()

	if _, err = io.Copy(tw, f); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}

	return nil
}
