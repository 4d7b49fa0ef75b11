// Package hash provides the xxHash64 fingerprints used by the codec.
package hash

import (
	"io"

	"github.com/cespare/xxhash/v2"
)

// SatList fingerprints a rendered satellite list. Equal lists give equal
// fingerprints, so an unchanged list can skip slot retirement.
func SatList(sats string) uint64 {
	return xxhash.Sum64String(sats)
}

// Stream returns the xxHash64 of everything read from r.
func Stream(r io.Reader) (uint64, error) {
	d := xxhash.New()
	if _, err := io.Copy(d, r); err != nil {
		return 0, err
	}

	return d.Sum64(), nil
}

// Writer returns an io.Writer that fingerprints what is written to it.
func Writer() *xxhash.Digest {
	return xxhash.New()
}
