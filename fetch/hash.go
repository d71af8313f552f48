package fetch

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ContentHash computes a hash of the raw markup using xxhash. It identifies
// a document snapshot cheaply; it is not a cryptographic digest.
func ContentHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}
