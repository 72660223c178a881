// Package source reads the Swift files referenced by diagnostics.
//
// Reads are scoped: a file is opened, the needed line window is collected and
// the file is closed before returning. Nothing here keeps file handles or
// whole file contents across lookups.
package source
