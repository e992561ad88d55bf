package crypto

import (
	"bytes"
	"testing"
)

func TestSHA384(t *testing.T) {
	h := SHA384([]byte("hashround"))
	if len(h) != HashSize {
		t.Fatalf("hash should have %d bytes, not %d", HashSize, len(h))
	}
	if !bytes.Equal(h, SHA384([]byte("hashround"))) {
		t.Fatalf("SHA384 should be deterministic")
	}
}

func TestXOR(t *testing.T) {
	a := []byte{0x0F, 0xF0}
	b := []byte{0xFF, 0xFF, 0x01}

	res := XOR(nil, a)
	res = XOR(res, b)

	expected := []byte{0xF0, 0x0F, 0x01}
	if !bytes.Equal(res, expected) {
		t.Fatalf("XOR should be %X, not %X", expected, res)
	}

	// XOR with itself cancels out
	res = XOR(res, expected)
	if !bytes.Equal(res, []byte{0, 0, 0}) {
		t.Fatalf("XOR with itself should be zero, not %X", res)
	}
}

func TestPublicKeyHex(t *testing.T) {
	key, err := GenerateECDSAKey()
	if err != nil {
		t.Fatal(err)
	}
	pub := FromECDSAPub(&key.PublicKey)
	if len(pub) != 65 {
		t.Fatalf("uncompressed public key should have 65 bytes, not %d", len(pub))
	}
	if h := PublicKeyHex(&key.PublicKey); h[:2] != "0X" || len(h) != 2+2*65 {
		t.Fatalf("unexpected public key hex %s", h)
	}
}
