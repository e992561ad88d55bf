// Package snapshot holds the consensus state needed to restart a node from a
// decided round, and the event windows derived from it.
//
// A ConsensusSnapshot is produced at the end of every decided round. It can
// also be created for genesis, or synthetically from a single known-good judge
// to bootstrap consensus without replaying history. Snapshots are persisted in
// a Store, backed by memory, Badger or LevelDB.
package snapshot
