// Package types defines the public vocabulary shared by the decoder and its
// callers: the closed set of status codes carried by typed errors, and the
// diagnostics sink through which non-fatal findings (misaligned structs,
// unresolved pointers, dropped blocks) are reported.
//
// This package has no dependencies beyond the standard library.
package types
