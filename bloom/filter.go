// Package bloom provides URL deduplication using Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// falsePositiveRate keeps duplicate detection effectively exact at batch
// sizes; a false positive silently skips a URL, so the rate is set very low.
const falsePositiveRate = 1e-6

// SeenFilter tracks URLs already accepted into a batch.
type SeenFilter struct {
	f *bloom.BloomFilter
}

// NewSeenFilter creates a filter sized for n expected URLs.
func NewSeenFilter(n uint) *SeenFilter {
	return &SeenFilter{
		f: bloom.NewWithEstimates(n, falsePositiveRate),
	}
}

// Add records the URL and reports whether it was new.
func (s *SeenFilter) Add(url string) bool {
	if s.f.TestString(url) {
		return false
	}
	s.f.AddString(url)
	return true
}

// Seen returns true if the URL might have been added.
// False positives are possible; false negatives are not.
func (s *SeenFilter) Seen(url string) bool {
	return s.f.TestString(url)
}

// EstimatedCount returns the approximate number of URLs in the filter.
func (s *SeenFilter) EstimatedCount() uint {
	return uint(s.f.ApproximatedSize())
}
