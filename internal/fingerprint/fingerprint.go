// Package fingerprint computes content digests used for change detection.
package fingerprint

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/custodia-labs/biowatch/internal/core/domain"
)

// Size is the length in characters of every fingerprint.
const Size = 16

// Of returns the fingerprint of text. It hashes the raw bytes as given;
// any normalisation is the caller's responsibility.
func Of(text string) domain.Fingerprint {
	return domain.Fingerprint(fmt.Sprintf("%016x", xxhash.Sum64String(text)))
}
