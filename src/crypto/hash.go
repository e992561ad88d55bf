package crypto

import (
	"crypto/sha256"
	"crypto/sha512"
)

// HashSize is the width, in bytes, of event hashes.
const HashSize = sha512.Size384

// SHA256 returns the SHA256 hash of the data.
func SHA256(data []byte) []byte {
	hasher := sha256.New()
	hasher.Write(data)
	hash := hasher.Sum(nil)
	return hash
}

// SHA384 returns the SHA384 hash of the data. Events are identified by this
// hash.
func SHA384(data []byte) []byte {
	hasher := sha512.New384()
	hasher.Write(data)
	return hasher.Sum(nil)
}

// SimpleHashFromTwoHashes returns the SHA256 hash of the concatenation of left
// and right data.
func SimpleHashFromTwoHashes(left []byte, right []byte) []byte {
	var hasher = sha256.New()
	hasher.Write(left)
	hasher.Write(right)
	return hasher.Sum(nil)
}

// XOR folds src into dst byte by byte. dst is grown to the length of src if it
// is shorter.
func XOR(dst []byte, src []byte) []byte {
	for len(dst) < len(src) {
		dst = append(dst, 0)
	}
	for i, b := range src {
		dst[i] ^= b
	}
	return dst
}
