package snapshot

import (
	"fmt"

	"github.com/mosaicnetworks/hashround/src/hashgraph"
)

// EventWindow tells event intake which events are still useful. Events whose
// ancient indicator is below AncientThreshold are ancient, and those below
// ExpiredThreshold can be forgotten.
type EventWindow struct {
	LatestConsensusRound int64
	NewEventBirthRound   int64
	AncientThreshold     int64
	ExpiredThreshold     int64
	AncientMode          hashgraph.AncientMode
}

// NewEventWindow ...
func NewEventWindow(latestConsensusRound, ancientThreshold, expiredThreshold int64, mode hashgraph.AncientMode) EventWindow {
	return EventWindow{
		LatestConsensusRound: latestConsensusRound,
		NewEventBirthRound:   latestConsensusRound + 1,
		AncientThreshold:     ancientThreshold,
		ExpiredThreshold:     expiredThreshold,
		AncientMode:          mode,
	}
}

// GenesisEventWindow is the window before any round is decided. Nothing is
// ancient.
func GenesisEventWindow(mode hashgraph.AncientMode) EventWindow {
	return NewEventWindow(hashgraph.RoundNegativeInfinity,
		mode.GenesisIndicator(),
		mode.GenesisIndicator(),
		mode)
}

// CreateEventWindow derives the event window of a snapshot. It fails if the
// snapshot does not hold the threshold of its oldest non-ancient round.
func CreateEventWindow(s *ConsensusSnapshot, mode hashgraph.AncientMode, roundsNonAncient int64) (EventWindow, error) {
	if len(s.MinimumJudgeInfoList) == 0 {
		return EventWindow{}, fmt.Errorf("snapshot of round %d has no minimum judge info", s.Round)
	}

	oldestNonAncient := hashgraph.OldestNonAncientRound(roundsNonAncient, s.Round)
	info, ok := s.MinimumJudgeInfo(oldestNonAncient)
	if !ok {
		return EventWindow{}, fmt.Errorf("snapshot of round %d has no minimum judge info for round %d",
			s.Round, oldestNonAncient)
	}

	return NewEventWindow(s.Round,
		info.MinimumJudgeAncientThreshold,
		s.MinimumJudgeInfoList[0].MinimumJudgeAncientThreshold,
		mode), nil
}

// IsAncient returns true if the event is below the ancient threshold.
func (w EventWindow) IsAncient(e *hashgraph.Event) bool {
	return w.AncientMode.SelectIndicator(e) < w.AncientThreshold
}

// IsExpired returns true if the event is below the expired threshold.
func (w EventWindow) IsExpired(e *hashgraph.Event) bool {
	return w.AncientMode.SelectIndicator(e) < w.ExpiredThreshold
}

func (w EventWindow) String() string {
	return fmt.Sprintf("latest round %d, birth round %d, %s ancient below %d, expired below %d",
		w.LatestConsensusRound,
		w.NewEventBirthRound,
		w.AncientMode,
		w.AncientThreshold,
		w.ExpiredThreshold)
}
