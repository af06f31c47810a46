// Package plaintext normalises plain text files: byte order marks are
// dropped and line endings unified.
package plaintext

import (
	"strings"

	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plaintext normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".txt", ".text", ".log", ".csv"}
}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Normalise returns content with CRLF and CR line endings replaced by LF.
// Plain text has no title.
func (n *Normaliser) Normalise(_, content string) (text, title string) {
	content = strings.TrimPrefix(content, "\ufeff")
	return lineEndings.Replace(content), ""
}
