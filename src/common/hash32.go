package common

import "hash/fnv"

// Hash32 is the FNV-1a hash used to derive numeric peer IDs from public keys.
func Hash32(data []byte) uint32 {
	h := fnv.New32a()

	h.Write(data)

	return h.Sum32()
}
