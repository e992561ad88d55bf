package peers

// StakeCounter sums the weight of distinct members of a PeerSet.
type StakeCounter struct {
	peerSet *PeerSet
	already map[uint32]bool
	sum     uint64
}

// NewStakeCounter returns an empty counter over the PeerSet.
func (peerSet *PeerSet) NewStakeCounter() *StakeCounter {
	return &StakeCounter{
		peerSet: peerSet,
		already: make(map[uint32]bool),
	}
}

// Count adds the weight of a member. It returns false if the ID was already
// counted or is not a member.
func (s *StakeCounter) Count(id uint32) bool {
	if s.already[id] || !s.peerSet.Contains(id) {
		return false
	}
	s.already[id] = true
	s.sum += s.peerSet.Weight(id)
	return true
}

// Sum ...
func (s *StakeCounter) Sum() uint64 {
	return s.sum
}

// HasQuorum is true once the counted weight reaches a supermajority.
func (s *StakeCounter) HasQuorum() bool {
	return s.sum >= s.peerSet.SuperMajority()
}
