// Package normalisers converts markup files into plain text for filesystem
// sources that opt in with the "normalise" option. Each normaliser handles a
// fixed set of file extensions; files with no normaliser are used verbatim.
package normalisers
