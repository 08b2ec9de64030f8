// Package toolchain locates the MSYS2 installation that supplies the bundle's
// DLLs, plugins, assets and helper tools, and converts the MSYS-style paths
// printed by those tools into native Windows paths.
package toolchain
