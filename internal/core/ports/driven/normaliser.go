package driven

// Normaliser turns file content in a markup format into plain text before it
// is fingerprinted and chunked.
type Normaliser interface {
	// Extensions returns the lower-case file extensions handled, e.g. ".md".
	Extensions() []string

	// Normalise returns the plain text of content and a title when the
	// format carries one.
	Normalise(path, content string) (text, title string)
}

// NormaliserRegistry resolves normalisers by file path.
type NormaliserRegistry interface {
	// ForPath returns the normaliser for path's extension, or nil.
	ForPath(path string) Normaliser
}
