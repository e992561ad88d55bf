package snapshot

import (
	"time"

	"github.com/mosaicnetworks/hashround/src/config"
	"github.com/mosaicnetworks/hashround/src/hashgraph"
)

// GenesisSnapshot returns the snapshot a network starts from.
func GenesisSnapshot(mode hashgraph.AncientMode) *ConsensusSnapshot {
	return &ConsensusSnapshot{
		Round:       hashgraph.RoundFirst,
		JudgeHashes: [][]byte{},
		MinimumJudgeInfoList: []hashgraph.MinimumJudgeInfo{
			hashgraph.NewMinimumJudgeInfo(hashgraph.RoundFirst, mode.GenesisIndicator()),
		},
		NextConsensusOrder: hashgraph.FirstConsensusNumber,
		ConsensusTimestamp: time.Unix(0, 0).UTC(),
	}
}

// IsGenesis returns true if s has the shape of GenesisSnapshot: no judges, and
// a single MinimumJudgeInfo for the first round.
func (s *ConsensusSnapshot) IsGenesis() bool {
	return len(s.JudgeHashes) == 0 &&
		s.Round == hashgraph.RoundFirst &&
		len(s.MinimumJudgeInfoList) == 1 &&
		s.MinimumJudgeInfoList[0].Round == hashgraph.RoundFirst
}

// GenerateSyntheticSnapshot creates a snapshot for round with judge as its
// only judge. The judge's ancient indicator is used as the threshold of every
// non-ancient round, which makes every event older than the judge ancient.
// lastConsensusOrder and roundTimestamp are those of the last event that
// reached consensus.
func GenerateSyntheticSnapshot(round int64,
	lastConsensusOrder int64,
	roundTimestamp time.Time,
	conf *config.Config,
	mode hashgraph.AncientMode,
	judge *hashgraph.Event) *ConsensusSnapshot {

	indicator := mode.SelectIndicator(judge)

	infos := []hashgraph.MinimumJudgeInfo{}
	for r := hashgraph.OldestNonAncientRound(conf.RoundsNonAncient, round); r <= round; r++ {
		infos = append(infos, hashgraph.NewMinimumJudgeInfo(r, indicator))
	}

	return &ConsensusSnapshot{
		Round:                round,
		JudgeHashes:          [][]byte{judge.Hash()},
		MinimumJudgeInfoList: infos,
		NextConsensusOrder:   lastConsensusOrder + 1,
		ConsensusTimestamp:   roundTimestamp.Add(time.Microsecond).UTC(),
	}
}
