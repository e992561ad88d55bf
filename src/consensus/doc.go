// Package consensus turns a stream of events into a sequence of decided
// rounds with a deterministic total order of events.
//
// ConsensusRounds keeps the boundary between decided and undecided rounds,
// the minimum judge info of the decided rounds, and the ancient and expired
// thresholds derived from it. It applies the fame shortcut: a witness received
// after an event two rounds above it can not be famous.
//
// Consensus is the engine of a node. Events are inserted in the Graph, their
// DeGen is computed, and witnesses drive the election of the current round.
// When a round is decided, the events it receives are timestamped, numbered
// with cGen, sorted and given consensus order numbers. A ConsensusSnapshot is
// then stored and the round is handed to the commit callback. Finally expired
// events are evicted and the remaining witnesses are replayed against the next
// election.
package consensus
