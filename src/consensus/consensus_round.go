package consensus

import (
	"github.com/mosaicnetworks/hashround/src/hashgraph"
	"github.com/mosaicnetworks/hashround/src/snapshot"
)

// ConsensusRound is a decided round with the events it received, in consensus
// order.
type ConsensusRound struct {
	RoundReceived int64
	Events        []*hashgraph.EventMetadata
	Snapshot      *snapshot.ConsensusSnapshot
	EventWindow   snapshot.EventWindow
}

// Transactions returns the transactions of the round's events, in consensus
// order.
func (r *ConsensusRound) Transactions() [][]byte {
	txs := [][]byte{}
	for _, e := range r.Events {
		txs = append(txs, e.Event().Transactions()...)
	}
	return txs
}

// Hexes returns the hashes of the round's events, in consensus order.
func (r *ConsensusRound) Hexes() []string {
	res := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		res = append(res, e.Hex())
	}
	return res
}
