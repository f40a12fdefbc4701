// Package hashutil provides the content-hashing primitive used by the
// walker and snapshot store to detect unchanged files between scans.
package hashutil

import "github.com/minio/highwayhash"

// key is a fixed 32-byte HighwayHash key. It only needs to be stable across
// runs of this program, not secret.
var key = []byte("0123456789ABCDEF0123456789ABCDEF")

// Hash returns the HighwayHash64 checksum of data.
func Hash(data []byte) (uint64, error) {
	h, err := highwayhash.New64(key)
	if err != nil {
		return 0, err
	}
	if _, err := h.Write(data); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
