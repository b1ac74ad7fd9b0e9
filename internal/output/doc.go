// Package output renders grouped, flattened resources as CSV and writes
// the result to files or streams.
//
// The package is organized around four concerns:
//
//   - Tables (table.go): Build a deterministic header from the union of row
//     keys and align every row against it.
//
//   - Encoding (csv.go): Render a [Table] as CSV with LF line endings and
//     standard quoting.
//
//   - File names (sanitize.go): Map group type names to safe file names,
//     replacing path separators and characters some filesystems reject.
//
//   - Writers (writer.go): Pluggable output destinations via the [Writer]
//     interface, with [StdoutWriter] and [FileWriter] implementations.
package output
