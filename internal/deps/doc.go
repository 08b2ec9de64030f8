// Package deps copies the DLL dependency closure of a binary into the bundle.
//
// A Session asks ntldd for the recursive dependency list, keeps only DLLs that
// live inside the MSYS2 subsystem prefix and copies each base name at most
// once per run, no matter how many binaries reference it.
package deps
