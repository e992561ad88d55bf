// Package election decides the fame of the witnesses of one round at a time.
//
// A RoundElections instance is reused for successive rounds. Witnesses of the
// round under election are enrolled with AddWitness, and every witness of a
// later round casts virtual votes on them with Vote. Votes are derived from
// the structure of the graph only: a witness of the next round votes yes for
// the candidates it sees, and a witness further up adopts the majority vote of
// the witnesses it strongly sees in the round below, weighted by stake. A
// supermajority decides, except in coin rounds where undecided voters flip a
// pseudo-random coin taken from their own hash.
//
// Once every enrolled witness is decided, the famous ones, at most one per
// creator, are the judges of the round.
package election
