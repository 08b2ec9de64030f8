//go:build !windows

package toolchain

// registryInstallLocations has nothing to report outside Windows.
func registryInstallLocations() []string {
	return nil
}
