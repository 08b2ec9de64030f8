package fsutil

import (
	"bytes"
	"crypto"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"

	// Ensure SHA512 available for checksum calculation.
	_ "crypto/sha512"
)

// ExecutableChecksum is the hash go-update verifies before swapping an executable in.
const ExecutableChecksum crypto.Hash = crypto.SHA512

var errHashUnavailable = errors.New("hash function unavailable")

// InstallExecutable places the executable src at dst.
// The new file is staged next to dst, verified against the source checksum and
// renamed over the old one, which also works when dst is being executed on Windows.
func InstallExecutable(src, dst string) error {
	data, err := os.ReadFile(filepath.Clean(src))
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	checksum, err := Checksum(data)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(dst), err)
	}

	// go-update renames the current target away first, so it has to exist.
	if _, err = os.Stat(dst); errors.Is(err, os.ErrNotExist) {
		placeholder, createErr := os.Create(dst)
		if createErr != nil {
			return fmt.Errorf("create %s: %w", dst, createErr)
		}

		_ = placeholder.Close()
	}

	options := goupdate.Options{
		TargetPath: dst,
		TargetMode: info.Mode().Perm(),
		Checksum:   checksum,
		Hash:       ExecutableChecksum,
	}

	if err = goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return fmt.Errorf("install %s: %w", dst, err)
	}

	if err = os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("set times on %s: %w", dst, err)
	}

	return nil
}

// Checksum returns the ExecutableChecksum digest of data.
func Checksum(data []byte) ([]byte, error) {
	if !ExecutableChecksum.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := ExecutableChecksum.New()
	if _, err := hasher.Write(data); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
}
