package bundle

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirPermissions is used for every directory created inside the bundle.
const DirPermissions os.FileMode = 0o755

// Layout is the fixed directory structure of a portable bundle.
type Layout struct {
	// Root is the absolute installation destination.
	Root string
	// Bin holds the executables and every copied DLL.
	Bin string
	// Lib holds loadable module directories.
	Lib string
	// Plugins holds the selected GStreamer plugins.
	Plugins string
	// Libexec holds helper executables such as the plugin scanner.
	Libexec string
	// Share holds schemas, icons, themes and presets.
	Share string
	// Etc holds configuration fragments and the certificate bundle.
	Etc string
}

// NewLayout derives the bundle layout from the destination root.
func NewLayout(root string) Layout {
	lib := filepath.Join(root, "lib")

	return Layout{
		Root:    root,
		Bin:     filepath.Join(root, "bin"),
		Lib:     lib,
		Plugins: filepath.Join(lib, "gstreamer-1.0"),
		Libexec: filepath.Join(root, "libexec", "gstreamer-1.0"),
		Share:   filepath.Join(root, "share"),
		Etc:     filepath.Join(root, "etc"),
	}
}

// Dirs returns every directory of the layout in creation order.
func (l Layout) Dirs() []string {
	return []string{l.Bin, l.Lib, l.Plugins, l.Libexec, l.Share, l.Etc}
}

// Create makes all layout directories. It is safe to call repeatedly.
func (l Layout) Create() error {
	for _, dir := range l.Dirs() {
		if err := os.MkdirAll(dir, DirPermissions); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	return nil
}

// Path joins slash-separated path elements onto the bundle root.
func (l Layout) Path(rel string) string {
	return filepath.Join(l.Root, filepath.FromSlash(rel))
}
