package manifest

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
	"lukechampine.com/blake3"

	"github.com/oshokin/f1sh-bundler/internal/config"
	"github.com/oshokin/f1sh-bundler/internal/version"
)

const (
	// Filename is the manifest file name at the bundle root.
	Filename = "bundle-manifest.yaml"

	// digestSize is the BLAKE3 output length in bytes.
	digestSize = 32
)

var (
	// ErrMismatch is returned by Verify when the bundle differs from its manifest.
	ErrMismatch = errors.New("bundle does not match manifest")
	// ErrNotFound is returned by Load when the bundle has no manifest.
	ErrNotFound = errors.New("manifest not found")
)

// Description lists the contents of a bundle.
type Description struct {
	// Version is the bundler version that produced the bundle.
	Version string `yaml:"version"`
	// Executable is the main application file name.
	Executable string `yaml:"executable"`
	// Builder is omitted when the host or user cannot be determined.
	Builder *Builder `yaml:"builder,omitempty"`
	// Plugins lists the plugins that were copied.
	Plugins []string `yaml:"plugins"`
	// Libraries lists the DLL names copied by the dependency walk.
	Libraries []string `yaml:"libraries"`
	// Files maps slash-separated bundle paths to hex BLAKE3 digests.
	Files map[string]string `yaml:"files"`
}

// NewDescription produces an empty description stamped with the current version and builder.
func NewDescription(executable string) *Description {
	builder, _ := DetectBuilder()

	return &Description{
		Version:    version.Short(),
		Executable: executable,
		Builder:    builder,
		Files:      make(map[string]string),
	}
}

// Fill hashes every file below root, except the manifest itself.
func (d *Description) Fill(root string) error {
	files, err := hashTree(root)
	if err != nil {
		return err
	}

	d.Files = files

	return nil
}

// Save writes the description to the bundle root.
func (d *Description) Save(root string) error {
	slices.Sort(d.Plugins)
	slices.Sort(d.Libraries)

	contents, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err = os.WriteFile(filepath.Join(root, Filename), contents, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// Load reads the manifest stored at the bundle root.
func Load(root string) (*Description, error) {
	contents, err := os.ReadFile(filepath.Join(root, Filename))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", root, ErrNotFound)
		}

		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var desc Description
	if err = yaml.Unmarshal(contents, &desc); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	return &desc, nil
}

// Difference describes how a bundle diverges from its manifest.
type Difference struct {
	// Missing files are listed in the manifest but absent from the bundle.
	Missing []string
	// Changed files have a different digest.
	Changed []string
	// Extra files are present in the bundle but not in the manifest.
	Extra []string
}

// Empty reports whether no difference was found.
func (d *Difference) Empty() bool {
	return len(d.Missing) == 0 && len(d.Changed) == 0 && len(d.Extra) == 0
}

// Verify re-hashes the bundle at root and compares it with the description.
// It returns ErrMismatch together with the difference when they diverge.
func (d *Description) Verify(root string) (*Difference, error) {
	actual, err := hashTree(root)
	if err != nil {
		return nil, err
	}

	diff := new(Difference)

	for path, digest := range d.Files {
		got, ok := actual[path]

		switch {
		case !ok:
			diff.Missing = append(diff.Missing, path)
		case got != digest:
			diff.Changed = append(diff.Changed, path)
		}
	}

	for path := range actual {
		if _, ok := d.Files[path]; !ok {
			diff.Extra = append(diff.Extra, path)
		}
	}

	slices.Sort(diff.Missing)
	slices.Sort(diff.Changed)
	slices.Sort(diff.Extra)

	if !diff.Empty() {
		return diff, fmt.Errorf("%d missing, %d changed, %d extra: %w",
			len(diff.Missing), len(diff.Changed), len(diff.Extra), ErrMismatch)
	}

	return diff, nil
}

// hashTree returns digests of all regular files below root keyed by slash path.
func hashTree(root string) (map[string]string, error) {
	files := make(map[string]string)

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if !entry.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		rel = filepath.ToSlash(rel)
		if rel == Filename {
			return nil
		}

		digest, err := hashFile(path)
		if err != nil {
			return err
		}

		files[rel] = digest

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("hash bundle: %w", err)
	}

	return files, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	hasher := blake3.New(digestSize, nil)
	if _, err = io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
