package hashgraph

// OldestNonAncientRound returns the oldest round that is not ancient when
// lastRoundDecided is the latest decided round and the last roundsNonAncient
// decided rounds are non-ancient. Before enough rounds are decided, it is the
// first round.
func OldestNonAncientRound(roundsNonAncient int64, lastRoundDecided int64) int64 {
	// with N non-ancient rounds and the last one being M, the oldest
	// non-ancient round is M-N+1
	oldest := lastRoundDecided - roundsNonAncient + 1
	if oldest < RoundFirst {
		return RoundFirst
	}
	return oldest
}
