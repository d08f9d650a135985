// Package matrix loads, validates and preprocesses binary taxon×character
// matrices.
//
// # CSV Format
//
// A matrix file is a delimited text table whose header names the characters
// and whose rows name the taxa:
//
//	taxon,C1,C2,C3
//	A,1,1,0
//	B,1,0,0
//	C,0,0,1
//
// The first header cell must be "taxon". Character names must be non-empty
// and unique, as must taxon names. Every data row has exactly one cell per
// header column and every state is the literal 0 or 1. Blank lines are
// ignored and a leading UTF-8 byte order mark is tolerated. The delimiter
// defaults to a comma and can be changed with [Options].
//
// Validation failures are reported as *errors.Error with code
// INVALID_MATRIX (or INVALID_NAME for malformed names) and carry the
// 1-based line number of the offending row.
//
// # Preprocessing
//
// [Matrix.DropAllZeroColumns] removes characters no taxon has, which cannot
// contribute a split. [Matrix.NormalizeByFirstRow] flips every character in
// which the first taxon has state 1, turning unrooted compatibility into the
// rooted ones-set compatibility the phylo package decides.
//
// Both return new matrices; a [Matrix] is never modified in place.
package matrix
