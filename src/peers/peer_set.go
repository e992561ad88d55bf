package peers

import (
	"sort"

	"github.com/mosaicnetworks/hashround/src/common"
	"github.com/mosaicnetworks/hashround/src/crypto"
)

// PeerSet is a weighted set of Peers forming a consensus network
type PeerSet struct {
	Peers    []*Peer          `json:"peers"`
	ByPubKey map[string]*Peer `json:"-"`
	ByID     map[uint32]*Peer `json:"-"`

	//cached values
	hash          []byte
	hex           string
	totalWeight   uint64
	superMajority uint64
}

/* Constructors */

// NewPeerSet creates a new PeerSet from a list of Peers
func NewPeerSet(peers []*Peer) *PeerSet {
	peerSet := &PeerSet{
		ByPubKey: make(map[string]*Peer),
		ByID:     make(map[uint32]*Peer),
	}

	for _, peer := range peers {
		peerSet.ByPubKey[peer.PubKeyString()] = peer
		peerSet.ByID[peer.ID()] = peer
		peerSet.totalWeight += peer.weight()
	}

	peerSet.Peers = peers
	peerSet.superMajority = 2*peerSet.totalWeight/3 + 1

	return peerSet
}

/* ToSlice Methods */

// IDs returns the PeerSet's IDs in ascending order
func (peerSet *PeerSet) IDs() []uint32 {
	res := []uint32{}

	for _, peer := range peerSet.Peers {
		res = append(res, peer.ID())
	}

	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })

	return res
}

/* Utilities */

// Len returns the number of Peers in the PeerSet
func (peerSet *PeerSet) Len() int {
	return len(peerSet.ByID)
}

// Contains returns true if the creator ID belongs to a member of the PeerSet
func (peerSet *PeerSet) Contains(id uint32) bool {
	_, ok := peerSet.ByID[id]
	return ok
}

// Weight returns the weight of a member, or 0 for non-members
func (peerSet *PeerSet) Weight(id uint32) uint64 {
	p, ok := peerSet.ByID[id]
	if !ok {
		return 0
	}
	return p.weight()
}

// TotalWeight is the sum of all the members' weights
func (peerSet *PeerSet) TotalWeight() uint64 {
	return peerSet.totalWeight
}

// SuperMajority returns the weight that forms a strong majority (+2/3) in the
// PeerSet
func (peerSet *PeerSet) SuperMajority() uint64 {
	return peerSet.superMajority
}

// Hash uniquely identifies a PeerSet. It is computed by hashing (SHA256) their
// public keys together, one by one.
func (peerSet *PeerSet) Hash() ([]byte, error) {
	if len(peerSet.hash) == 0 {
		hash := []byte{}
		for _, p := range peerSet.Peers {
			pk, err := p.PubKeyBytes()
			if err != nil {
				return nil, err
			}
			hash = crypto.SimpleHashFromTwoHashes(hash, pk)
		}
		peerSet.hash = hash
	}
	return peerSet.hash, nil
}

// Hex is the hexadecimal representation of Hash
func (peerSet *PeerSet) Hex() string {
	if len(peerSet.hex) == 0 {
		hash, _ := peerSet.Hash()
		peerSet.hex = common.EncodeToString(hash)
	}
	return peerSet.hex
}
