// Package hash computes the 64-bit identifiers used by record blocks.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Sum computes the xxHash64 of the given bytes.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Checksum32 folds the xxHash64 of data into 32 bits.
func Checksum32(data []byte) uint32 {
	h := Sum(data)
	return uint32(h>>32) ^ uint32(h) //nolint:gosec
}

// Fingerprint hashes an ordered list of parts. Parts are separated so that
// ("ab", "c") and ("a", "bc") produce different fingerprints.
func Fingerprint(parts ...string) uint64 {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.WriteString(p)
		_, _ = d.Write([]byte{0})
	}

	return d.Sum64()
}
