package election

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/mosaicnetworks/hashround/src/hashgraph"
	"github.com/mosaicnetworks/hashround/src/peers"
	"github.com/sirupsen/logrus"
)

// Graph is the view of the event graph needed to vote.
type Graph interface {
	See(x, y *hashgraph.EventMetadata) bool
	StronglySee(x, y *hashgraph.EventMetadata) bool
	Witnesses(round int64) []*hashgraph.EventMetadata
}

type voteKey struct {
	voter, candidate string
}

// RoundElections holds the ballot of the round currently under election.
type RoundElections struct {
	graph    Graph
	peerSet  *peers.PeerSet
	coinFreq int64

	round      int64
	candidates []*hashgraph.EventMetadata
	enrolled   map[string]bool
	votes      map[voteKey]bool

	logger *logrus.Entry
}

// NewRoundElections creates a RoundElections for RoundFirst. coinFreq is the
// period of coin rounds.
func NewRoundElections(graph Graph, peerSet *peers.PeerSet, coinFreq int64, logger *logrus.Entry) *RoundElections {
	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	re := &RoundElections{
		graph:    graph,
		peerSet:  peerSet,
		coinFreq: coinFreq,
		logger:   logger,
	}
	re.Reset()

	return re
}

// Reset starts over with an election for RoundFirst.
func (re *RoundElections) Reset() {
	re.SetRound(hashgraph.RoundFirst)
}

// Round returns the round under election.
func (re *RoundElections) Round() int64 {
	return re.round
}

// SetRound discards the current ballot and opens an election for round.
func (re *RoundElections) SetRound(round int64) {
	re.round = round
	re.clear()
}

// StartNextElection opens the election of the following round.
func (re *RoundElections) StartNextElection() {
	re.SetRound(re.round + 1)
}

func (re *RoundElections) clear() {
	re.candidates = []*hashgraph.EventMetadata{}
	re.enrolled = make(map[string]bool)
	re.votes = make(map[voteKey]bool)
}

// Candidates returns the enrolled witnesses in enrollment order.
func (re *RoundElections) Candidates() []*hashgraph.EventMetadata {
	return re.candidates
}

// AddWitness enrolls a witness of the round under election. Enrolling is only
// possible while the election is open.
func (re *RoundElections) AddWitness(w *hashgraph.EventMetadata) {
	if re.IsDecided() {
		re.logger.WithFields(logrus.Fields{
			"round":   re.round,
			"witness": w.Hex(),
		}).Error("Witness added to a decided election")
		return
	}
	if w.RoundCreated() != re.round {
		re.logger.WithFields(logrus.Fields{
			"round":         re.round,
			"witness":       w.Hex(),
			"round_created": w.RoundCreated(),
		}).Error("Witness added to the wrong election")
		return
	}
	if re.enrolled[w.Hex()] {
		return
	}

	re.enrolled[w.Hex()] = true
	re.candidates = append(re.candidates, w)
}

// IsDecided returns true when at least one witness is enrolled and the fame of
// every enrolled witness is decided.
func (re *RoundElections) IsDecided() bool {
	if len(re.candidates) == 0 {
		return false
	}
	for _, c := range re.candidates {
		if !c.FameDecided() {
			return false
		}
	}
	return true
}

// Vote has a witness of a later round vote on every undecided candidate, and
// records the decisions it causes. It returns true if the election is then
// decided.
func (re *RoundElections) Vote(voter *hashgraph.EventMetadata) bool {
	diff := voter.RoundCreated() - re.round
	if diff <= 0 || !voter.IsWitness() {
		return re.IsDecided()
	}

	for _, x := range re.candidates {
		if x.FameDecided() {
			continue
		}

		if diff == 1 {
			re.vote(voter, x)
			continue
		}

		v, t := re.tally(voter, x)

		//normal round
		if diff%re.coinFreq > 0 && t >= re.peerSet.SuperMajority() {
			x.SetFamous(v)
			re.logger.WithFields(logrus.Fields{
				"round":   re.round,
				"witness": x.Hex(),
				"famous":  v,
				"voter":   voter.Hex(),
			}).Debug("Fame decided")
		}
		re.vote(voter, x)
	}

	return re.IsDecided()
}

// vote returns the vote of y on the fame of x. Votes are memoised for the
// duration of the election, and computed from the votes of the round below
// when needed.
func (re *RoundElections) vote(y, x *hashgraph.EventMetadata) bool {
	k := voteKey{y.Hex(), x.Hex()}
	if v, ok := re.votes[k]; ok {
		return v
	}

	diff := y.RoundCreated() - re.round

	var v bool
	switch {
	case diff == 1:
		v = re.graph.See(y, x)
	case diff > 1:
		var t uint64
		v, t = re.tally(y, x)
		//coin round
		if diff%re.coinFreq == 0 && t < re.peerSet.SuperMajority() {
			v = middleBit(y.Hash())
		}
	}

	re.votes[k] = v
	return v
}

// tally collects the votes on x of the round below y that y strongly sees. It
// returns the majority vote, yes on ties, and the stake behind it.
func (re *RoundElections) tally(y, x *hashgraph.EventMetadata) (bool, uint64) {
	var yays, nays uint64
	for _, w := range re.graph.Witnesses(y.RoundCreated() - 1) {
		if !re.graph.StronglySee(y, w) {
			continue
		}
		if re.vote(w, x) {
			yays += re.peerSet.Weight(w.CreatorID())
		} else {
			nays += re.peerSet.Weight(w.CreatorID())
		}
	}
	if yays >= nays {
		return true, yays
	}
	return false, nays
}

// Judges returns the famous witnesses of the decided round, at most one per
// creator, ordered by creator ID. A creator with several famous witnesses is
// represented by the one with the smallest hash.
func (re *RoundElections) Judges() []*hashgraph.EventMetadata {
	byCreator := make(map[uint32]*hashgraph.EventMetadata)
	for _, c := range re.candidates {
		if !c.IsFamous() {
			continue
		}
		prev, ok := byCreator[c.CreatorID()]
		if !ok || bytes.Compare(c.Hash(), prev.Hash()) < 0 {
			byCreator[c.CreatorID()] = c
		}
	}

	judges := make([]*hashgraph.EventMetadata, 0, len(byCreator))
	for _, j := range byCreator {
		judges = append(judges, j)
	}
	sort.Slice(judges, func(i, j int) bool {
		return judges[i].CreatorID() < judges[j].CreatorID()
	})
	return judges
}

// JudgeHashes returns the hashes of the judges, ordered like Judges.
func (re *RoundElections) JudgeHashes() [][]byte {
	res := [][]byte{}
	for _, j := range re.Judges() {
		res = append(res, j.Hash())
	}
	return res
}

// CreateMinimumJudgeInfo returns the smallest ancient indicator among the
// judges of the round.
func (re *RoundElections) CreateMinimumJudgeInfo(mode hashgraph.AncientMode) hashgraph.MinimumJudgeInfo {
	judges := re.Judges()
	if len(judges) == 0 {
		re.logger.WithField("round", re.round).Warn("No judges, using genesis indicator")
		return hashgraph.NewMinimumJudgeInfo(re.round, mode.GenesisIndicator())
	}

	min := mode.SelectIndicator(judges[0].Event())
	for _, j := range judges[1:] {
		if ind := mode.SelectIndicator(j.Event()); ind < min {
			min = ind
		}
	}
	return hashgraph.NewMinimumJudgeInfo(re.round, min)
}

// MinNGen returns the smallest nGen among the judges, or NGenUndefined if
// there are none.
func (re *RoundElections) MinNGen() int64 {
	min := hashgraph.NGenUndefined
	for _, j := range re.Judges() {
		if min == hashgraph.NGenUndefined || j.NGen() < min {
			min = j.NGen()
		}
	}
	return min
}

func (re *RoundElections) String() string {
	decided := 0
	for _, c := range re.candidates {
		if c.FameDecided() {
			decided++
		}
	}
	return fmt.Sprintf("round %d: %d/%d decided", re.round, decided, len(re.candidates))
}

// middleBit returns false if the middle byte of a hash is zero.
func middleBit(hash []byte) bool {
	if len(hash) > 0 && hash[len(hash)/2] == 0 {
		return false
	}
	return true
}
