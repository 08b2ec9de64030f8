//go:build windows

package toolchain

import (
	"strings"

	"golang.org/x/sys/windows/registry"
)

const uninstallKeyPath = `Software\Microsoft\Windows\CurrentVersion\Uninstall`

// registryInstallLocations returns the InstallLocation of every MSYS2 entry
// registered by the installer, per-user entries first.
func registryInstallLocations() []string {
	var locations []string

	for _, root := range []registry.Key{registry.CURRENT_USER, registry.LOCAL_MACHINE} {
		locations = append(locations, installLocationsUnder(root)...)
	}

	return locations
}

func installLocationsUnder(root registry.Key) []string {
	uninstall, err := registry.OpenKey(root, uninstallKeyPath, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil
	}
	defer uninstall.Close()

	names, err := uninstall.ReadSubKeyNames(-1)
	if err != nil {
		return nil
	}

	var locations []string

	for _, name := range names {
		entry, err := registry.OpenKey(uninstall, name, registry.QUERY_VALUE)
		if err != nil {
			continue
		}

		displayName, _, nameErr := entry.GetStringValue("DisplayName")
		location, _, locErr := entry.GetStringValue("InstallLocation")
		_ = entry.Close()

		if nameErr != nil || locErr != nil || !strings.HasPrefix(displayName, "MSYS2") {
			continue
		}

		locations = append(locations, location)
	}

	return locations
}
