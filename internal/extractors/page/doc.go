// Package page provides an Extractor that treats a whole fetched page as a
// single item. HTML is reduced to readable text, or to Markdown when the
// source asks for it, and any other body is taken as text.
package page
