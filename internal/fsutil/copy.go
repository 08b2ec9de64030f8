package fsutil

import (
	"errors"
	"fmt"
	"os"

	"github.com/otiai10/copy"
)

// ErrNotDirectory is returned when a tree copy is asked to copy a file.
var ErrNotDirectory = errors.New("not a directory")

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile reports whether path exists and is a regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// CopyFile copies a single file, creating parent directories of dst as needed.
// An existing dst is overwritten.
func CopyFile(src, dst string) error {
	if err := copy.Copy(src, dst, copyOptions()); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}

	return nil
}

// MergeTree copies the directory src into dst. Files present in both are
// overwritten; files only present in dst are left alone.
func MergeTree(src, dst string) error {
	if !IsDir(src) {
		return fmt.Errorf("%s: %w", src, ErrNotDirectory)
	}

	if err := copy.Copy(src, dst, copyOptions()); err != nil {
		return fmt.Errorf("copy tree %s: %w", src, err)
	}

	return nil
}

func copyOptions() copy.Options {
	//nolint:exhaustruct // Remaining options keep their defaults.
	return copy.Options{
		OnSymlink: func(string) copy.SymlinkAction {
			return copy.Deep
		},
		OnDirExists: func(_, _ string) copy.DirExistsAction {
			return copy.Merge
		},
		PreserveTimes: true,
	}
}
