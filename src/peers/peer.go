package peers

import (
	"github.com/mosaicnetworks/hashround/src/common"
)

// DefaultWeight is the weight given to peers that do not specify one.
const DefaultWeight uint64 = 1

// Peer is a member of the roster.
type Peer struct {
	PubKeyHex string
	Moniker   string
	Weight    uint64

	id uint32
}

// NewPeer creates a Peer. A zero weight is replaced by DefaultWeight.
func NewPeer(pubKeyHex, moniker string, weight uint64) *Peer {
	if weight == 0 {
		weight = DefaultWeight
	}
	peer := &Peer{
		PubKeyHex: pubKeyHex,
		Moniker:   moniker,
		Weight:    weight,
	}

	return peer
}

// ID returns the FNV32a hash of the public key.
func (p *Peer) ID() uint32 {
	if p.id == 0 {
		pubKey, err := p.PubKeyBytes()
		if err != nil {
			return 0
		}
		p.id = common.Hash32(pubKey)
	}
	return p.id
}

// PubKeyString returns the upper-case hexadecimal representation of the
// peer's public key.
func (p *Peer) PubKeyString() string {
	return p.PubKeyHex
}

// PubKeyBytes decodes the public key.
func (p *Peer) PubKeyBytes() ([]byte, error) {
	return common.DecodeFromString(p.PubKeyHex)
}

// weight returns the effective weight of the peer.
func (p *Peer) weight() uint64 {
	if p.Weight == 0 {
		return DefaultWeight
	}
	return p.Weight
}
