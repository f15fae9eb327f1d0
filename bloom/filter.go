// Package bloom detects files whose content was already seen during a scan.
package bloom

import (
	"encoding/binary"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/cespare/xxhash/v2"
)

// Filter remembers content digests in a Bloom filter. A false positive makes
// a distinct file look like a duplicate; the rate is bounded by the fpRate
// given to NewFilter.
type Filter struct {
	f    *bloom.BloomFilter
	seen uint
}

// NewFilter creates a filter sized for n expected files with the given false
// positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// Digest returns the 64-bit content hash used as the filter key.
func Digest(content []byte) uint64 {
	return xxhash.Sum64(content)
}

// Seen adds content to the filter and reports whether it was probably
// added before.
func (f *Filter) Seen(content []byte) bool {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], Digest(content))
	if f.f.TestAndAdd(key[:]) {
		return true
	}
	f.seen++
	return false
}

// Unique returns the number of distinct contents added.
func (f *Filter) Unique() uint {
	return f.seen
}

// EstimatedCount returns the filter's own estimate of distinct contents.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
