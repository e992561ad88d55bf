// Package peers defines the roster of validators that take part in consensus.
//
// A peer is identified by its public key. Its numeric ID is the FNV32a hash of
// the key bytes, which is also how events reference their creators. Each peer
// carries a voting weight; a PeerSet answers the two questions the consensus
// core asks of a roster: is a creator a member, and does a collection of
// members hold a supermajority (more than 2/3) of the total weight.
//
// A roster can be loaded from a peers.json file in the data directory.
package peers
