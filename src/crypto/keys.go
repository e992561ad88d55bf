package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
)

// GenerateECDSAKey creates a P256 key. Public keys identify event creators.
func GenerateECDSAKey() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
}

// FromECDSAPub returns the uncompressed encoding of a public key.
func FromECDSAPub(pub *ecdsa.PublicKey) []byte {
	if pub == nil || pub.X == nil || pub.Y == nil {
		return nil
	}
	return elliptic.Marshal(elliptic.P256(), pub.X, pub.Y)
}

// PublicKeyHex returns the 0X-prefixed upper-case hex of a public key.
func PublicKeyHex(pub *ecdsa.PublicKey) string {
	return fmt.Sprintf("0X%X", FromECDSAPub(pub))
}
