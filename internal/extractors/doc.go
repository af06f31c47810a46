// Package extractors provides implementations of the Extractor interface
// for the response formats remote sources publish. Each extractor turns one
// fetched response into keyed plain-text items.
//
// Extractors are registered with the Registry at startup and selected per
// source by name.
package extractors
