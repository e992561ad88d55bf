package hashgraph

import "fmt"

// MinimumJudgeInfo records, for a decided round, the lowest ancient indicator
// among the round's judges. Events with a lower indicator are ancient relative
// to that round.
type MinimumJudgeInfo struct {
	Round                        int64
	MinimumJudgeAncientThreshold int64
}

// NewMinimumJudgeInfo ...
func NewMinimumJudgeInfo(round, threshold int64) MinimumJudgeInfo {
	return MinimumJudgeInfo{
		Round:                        round,
		MinimumJudgeAncientThreshold: threshold,
	}
}

func (m MinimumJudgeInfo) String() string {
	return fmt.Sprintf("(round %d, threshold %d)", m.Round, m.MinimumJudgeAncientThreshold)
}
