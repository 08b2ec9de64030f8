// Package bundle defines the transient domain model of one packaging run:
// the destination directory layout, the asset manifest entries and the set
// of library names already copied into the bundle.
package bundle
