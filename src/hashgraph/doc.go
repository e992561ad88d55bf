// Package hashgraph holds the event graph and the per-event consensus
// computations that do not depend on round elections.
//
// Events are immutable once created. Everything the consensus core learns about
// an event (its nGen, round, witness flag, fame, local generations, round
// received, consensus timestamp and order) lives in an EventMetadata entry of
// the Graph's side-table, keyed by the event hash.
//
// The Graph computes rounds with the strongly-see predicate: an event is in the
// round of its highest-round parent, plus one if it strongly sees witnesses of
// that round holding a supermajority of the roster's weight. A witness is the
// first event of its creator in a round.
//
// The package also provides the round-finalization building blocks: DeGen and
// cGen local generations, and the ConsensusSorter which defines the canonical
// order of the events received in a round.
package hashgraph
