// Package dna reads, compiles and links the self-describing struct schema
// ("DNA") embedded in every container file.
//
// A schema is read twice per parse: once from the reading program's own blob
// (the memory schema) and once from the file (the file schema). Each is
// compiled into flat per-struct field lists, where members of structs that are
// embedded by value are expanded in place and tagged with their nesting depth
// and key chain. Link then pairs every memory struct and field with its file
// counterpart so the relinker can copy data between the two layouts with flat
// scans only.
package dna
