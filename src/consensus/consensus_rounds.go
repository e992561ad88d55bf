package consensus

import (
	"fmt"

	"github.com/mosaicnetworks/hashround/src/common"
	"github.com/mosaicnetworks/hashround/src/config"
	"github.com/mosaicnetworks/hashround/src/hashgraph"
	"github.com/mosaicnetworks/hashround/src/peers"
	"github.com/sirupsen/logrus"
)

// Elections is the fame election of one round at a time, as driven by
// ConsensusRounds.
type Elections interface {
	Reset()
	Round() int64
	SetRound(round int64)
	AddWitness(w *hashgraph.EventMetadata)
	CreateMinimumJudgeInfo(mode hashgraph.AncientMode) hashgraph.MinimumJudgeInfo
	MinNGen() int64
	StartNextElection()
}

// ConsensusRounds keeps track of the boundary between decided and undecided
// rounds, and of the ancient and expired thresholds derived from the judges of
// the decided rounds.
//
// It is not safe for concurrent use.
type ConsensusRounds struct {
	roundsNonAncient int64
	roundsExpired    int64
	mode             hashgraph.AncientMode
	peerSet          *peers.PeerSet
	elections        Elections

	// one MinimumJudgeInfo per decided and non-expired round
	minimumJudgeStorage *common.SequentialRingBuffer[hashgraph.MinimumJudgeInfo]

	maxRoundCreated       int64
	consensusRelevantNGen int64
	ancientThreshold      int64
	expiredThreshold      int64

	logger *logrus.Entry
}

// NewConsensusRounds creates a ConsensusRounds in its genesis state.
func NewConsensusRounds(conf *config.Config,
	mode hashgraph.AncientMode,
	peerSet *peers.PeerSet,
	elections Elections) *ConsensusRounds {

	cr := &ConsensusRounds{
		roundsNonAncient: conf.RoundsNonAncient,
		roundsExpired:    conf.RoundsExpired,
		mode:             mode,
		peerSet:          peerSet,
		elections:        elections,
		minimumJudgeStorage: common.NewSequentialRingBuffer[hashgraph.MinimumJudgeInfo](
			"MinimumJudgeInfo",
			hashgraph.RoundFirst,
			int(2*conf.RoundsExpired)),
		logger: conf.Logger().WithField("component", "consensus-rounds"),
	}
	cr.Reset()

	return cr
}

// Reset brings everything back to the genesis state.
func (cr *ConsensusRounds) Reset() {
	cr.elections.Reset()
	cr.minimumJudgeStorage.Reset(hashgraph.RoundFirst)
	cr.maxRoundCreated = hashgraph.RoundUndefined
	cr.consensusRelevantNGen = hashgraph.NGenUndefined
	cr.ancientThreshold = hashgraph.ThresholdUndefined
	cr.expiredThreshold = hashgraph.ThresholdUndefined
}

// Recalculating is called before the metadata of the events is recomputed.
// The max round goes back to the last decided round, and is raised again by
// the witnesses that are replayed.
func (cr *ConsensusRounds) Recalculating() {
	if cr.AnyRoundDecided() {
		cr.maxRoundCreated = cr.LastRoundDecided()
	} else {
		cr.maxRoundCreated = hashgraph.RoundUndefined
	}
}

// NewWitness is called for every witness, in nGen order. A witness of the
// round under election is either decided right away or enrolled in the
// election.
func (cr *ConsensusRounds) NewWitness(w *hashgraph.EventMetadata) {
	if w.RoundCreated() > cr.maxRoundCreated {
		cr.maxRoundCreated = w.RoundCreated()
	}

	if w.RoundCreated() != cr.elections.Round() {
		return
	}

	// A witness received after an event two rounds above it cannot be seen
	// by a supermajority of the next round, so it can not be famous. Neither
	// can the witness of a creator outside the roster.
	if cr.maxRoundCreated >= w.RoundCreated()+2 || !cr.peerSet.Contains(w.CreatorID()) {
		w.SetFamous(false)
		cr.logger.WithFields(logrus.Fields{
			"round":     w.RoundCreated(),
			"witness":   w.Hex(),
			"max_round": cr.maxRoundCreated,
		}).Debug("Witness decided not famous")
		return
	}

	cr.elections.AddWitness(w)
}

// CurrentElectionDecided records the judges of the round whose election is
// decided, opens the election of the next round and updates the thresholds.
func (cr *ConsensusRounds) CurrentElectionDecided() {
	round := cr.elections.Round()

	info := cr.elections.CreateMinimumJudgeInfo(cr.mode)
	if latest, ok := cr.minimumJudgeStorage.Latest(); ok &&
		info.MinimumJudgeAncientThreshold < latest.MinimumJudgeAncientThreshold {
		// thresholds never go down
		info = hashgraph.NewMinimumJudgeInfo(info.Round, latest.MinimumJudgeAncientThreshold)
	}

	if err := cr.minimumJudgeStorage.Add(round, info); err != nil {
		cr.logger.WithError(err).WithFields(logrus.Fields{
			"round":      round,
			"next_index": cr.minimumJudgeStorage.NextIndex(),
		}).Error("Failed to store minimum judge info")
	}

	cr.consensusRelevantNGen = cr.elections.MinNGen()
	cr.elections.StartNextElection()

	cr.minimumJudgeStorage.RemoveOlderThan(round - cr.roundsExpired)
	cr.updateThresholds()

	cr.logger.WithFields(logrus.Fields{
		"round":             round,
		"threshold":         info.MinimumJudgeAncientThreshold,
		"ancient_threshold": cr.ancientThreshold,
		"expired_threshold": cr.expiredThreshold,
	}).Debug("Round decided")
}

func (cr *ConsensusRounds) updateThresholds() {
	if !cr.AnyRoundDecided() {
		cr.ancientThreshold = hashgraph.ThresholdUndefined
		cr.expiredThreshold = hashgraph.ThresholdUndefined
		return
	}

	oldestNonAncient := hashgraph.OldestNonAncientRound(cr.roundsNonAncient, cr.LastRoundDecided())
	if info, ok := cr.minimumJudgeStorage.Get(oldestNonAncient); ok {
		cr.ancientThreshold = info.MinimumJudgeAncientThreshold
	} else {
		cr.logger.WithFields(logrus.Fields{
			"round":                    oldestNonAncient,
			"fame_decided_below":       cr.FameDecidedBelow(),
			"oldest_non_ancient_round": oldestNonAncient,
			"min_stored_round":         cr.minimumJudgeStorage.MinIndex(),
		}).Error("Missing minimum judge info for the oldest non-ancient round")
	}

	if info, ok := cr.minimumJudgeStorage.Oldest(); ok {
		cr.expiredThreshold = info.MinimumJudgeAncientThreshold
	}
}

// MinimumJudgeIndicator returns the ancient threshold stored for a decided
// round.
func (cr *ConsensusRounds) MinimumJudgeIndicator(round int64) (int64, bool) {
	info, ok := cr.minimumJudgeStorage.Get(round)
	if !ok {
		cr.logger.WithFields(logrus.Fields{
			"round":              round,
			"fame_decided_below": cr.FameDecidedBelow(),
		}).Debug("No minimum judge info for round")
		return hashgraph.ThresholdUndefined, false
	}
	return info.MinimumJudgeAncientThreshold, true
}

// MinimumJudgeInfoList returns the stored MinimumJudgeInfo in ascending round
// order.
func (cr *ConsensusRounds) MinimumJudgeInfoList() []hashgraph.MinimumJudgeInfo {
	return cr.minimumJudgeStorage.Items()
}

// LoadFromMinimumJudge restores the state of a node from the minimum judge
// info of the decided rounds, as saved in a snapshot. The list must be
// non-empty, in ascending and contiguous round order.
func (cr *ConsensusRounds) LoadFromMinimumJudge(list []hashgraph.MinimumJudgeInfo) error {
	if len(list) == 0 {
		return fmt.Errorf("empty minimum judge info list")
	}
	for i := 1; i < len(list); i++ {
		if list[i].Round != list[i-1].Round+1 {
			return fmt.Errorf("minimum judge info list not contiguous at index %d: round %d after %d",
				i, list[i].Round, list[i-1].Round)
		}
	}

	cr.minimumJudgeStorage.Reset(list[0].Round)
	for _, info := range list {
		if err := cr.minimumJudgeStorage.Add(info.Round, info); err != nil {
			return err
		}
	}

	latest := list[len(list)-1].Round
	cr.elections.SetRound(latest + 1)
	cr.maxRoundCreated = latest
	cr.updateThresholds()

	cr.logger.WithFields(logrus.Fields{
		"first_round":       list[0].Round,
		"last_round":        latest,
		"ancient_threshold": cr.ancientThreshold,
	}).Debug("Loaded minimum judge info")

	return nil
}

// SetConsensusRelevantNGen is used when restarting from a snapshot.
func (cr *ConsensusRounds) SetConsensusRelevantNGen(nGen int64) {
	cr.consensusRelevantNGen = nGen
}

// ConsensusRelevantNGen is the smallest nGen of the judges of the last decided
// round.
func (cr *ConsensusRounds) ConsensusRelevantNGen() int64 {
	return cr.consensusRelevantNGen
}

// IsOlderThanDecidedRoundGeneration returns true if the event was received
// before every judge of the last decided round, which means it cannot affect
// any pending calculation.
func (cr *ConsensusRounds) IsOlderThanDecidedRoundGeneration(m *hashgraph.EventMetadata) bool {
	return cr.consensusRelevantNGen > m.NGen()
}

// FameDecidedBelow is the round under election. The fame of every witness of
// lower rounds is decided.
func (cr *ConsensusRounds) FameDecidedBelow() int64 {
	return cr.elections.Round()
}

// ElectionRound is the round under election.
func (cr *ConsensusRounds) ElectionRound() int64 {
	return cr.elections.Round()
}

// LastRoundDecided returns RoundNegativeInfinity if no round is decided.
func (cr *ConsensusRounds) LastRoundDecided() int64 {
	return cr.FameDecidedBelow() - 1
}

// AnyRoundDecided ...
func (cr *ConsensusRounds) AnyRoundDecided() bool {
	return cr.LastRoundDecided() >= hashgraph.RoundFirst
}

// AncientThreshold is the threshold of the oldest non-ancient round, or
// ThresholdUndefined if no round is decided.
func (cr *ConsensusRounds) AncientThreshold() int64 {
	return cr.ancientThreshold
}

// ExpiredThreshold is the threshold of the oldest round still stored, or
// ThresholdUndefined if no round is decided.
func (cr *ConsensusRounds) ExpiredThreshold() int64 {
	return cr.expiredThreshold
}

// MaxRound is the highest round of the witnesses seen since the last reset
// or recalculation.
func (cr *ConsensusRounds) MaxRound() int64 {
	return cr.maxRoundCreated
}

// AncientMode ...
func (cr *ConsensusRounds) AncientMode() hashgraph.AncientMode {
	return cr.mode
}
