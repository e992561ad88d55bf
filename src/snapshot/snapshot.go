package snapshot

import (
	"bytes"
	"fmt"
	"time"

	"github.com/mosaicnetworks/hashround/src/common"
	"github.com/mosaicnetworks/hashround/src/crypto"
	"github.com/mosaicnetworks/hashround/src/hashgraph"
	"github.com/ugorji/go/codec"
)

// ConsensusSnapshot is the consensus state at the end of a decided round.
type ConsensusSnapshot struct {
	// Round is the decided round
	Round int64
	// JudgeHashes are the hashes of the round's judges, ordered by creator
	JudgeHashes [][]byte
	// MinimumJudgeInfoList covers the non-expired decided rounds, in
	// ascending order
	MinimumJudgeInfoList []hashgraph.MinimumJudgeInfo
	// NextConsensusOrder is the consensus order of the next event to reach
	// consensus
	NextConsensusOrder int64
	// ConsensusTimestamp is the consensus timestamp of the last event that
	// reached consensus
	ConsensusTimestamp time.Time
}

// wireSnapshot is the encoded form of a ConsensusSnapshot. The timestamp is
// kept as unix nanoseconds so that the encoding does not depend on locations.
type wireSnapshot struct {
	Round                int64
	JudgeHashes          [][]byte
	MinimumJudgeInfoList []hashgraph.MinimumJudgeInfo
	NextConsensusOrder   int64
	ConsensusTimestamp   int64
}

func jsonHandle() *codec.JsonHandle {
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	return jh
}

// Marshal returns the canonical JSON encoding of the snapshot.
func (s *ConsensusSnapshot) Marshal() ([]byte, error) {
	w := wireSnapshot{
		Round:                s.Round,
		JudgeHashes:          s.JudgeHashes,
		MinimumJudgeInfoList: s.MinimumJudgeInfoList,
		NextConsensusOrder:   s.NextConsensusOrder,
		ConsensusTimestamp:   s.ConsensusTimestamp.UnixNano(),
	}

	b := new(bytes.Buffer)
	enc := codec.NewEncoder(b, jsonHandle())
	if err := enc.Encode(w); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Unmarshal decodes a snapshot encoded by Marshal.
func (s *ConsensusSnapshot) Unmarshal(data []byte) error {
	var w wireSnapshot
	dec := codec.NewDecoder(bytes.NewBuffer(data), jsonHandle())
	if err := dec.Decode(&w); err != nil {
		return err
	}

	*s = ConsensusSnapshot{
		Round:                w.Round,
		JudgeHashes:          w.JudgeHashes,
		MinimumJudgeInfoList: w.MinimumJudgeInfoList,
		NextConsensusOrder:   w.NextConsensusOrder,
		ConsensusTimestamp:   time.Unix(0, w.ConsensusTimestamp).UTC(),
	}
	return nil
}

// Hash returns the SHA256 hash of the encoded snapshot.
func (s *ConsensusSnapshot) Hash() ([]byte, error) {
	data, err := s.Marshal()
	if err != nil {
		return nil, err
	}
	return crypto.SHA256(data), nil
}

// MinimumJudgeInfo returns the info stored for a round, if the snapshot covers
// it.
func (s *ConsensusSnapshot) MinimumJudgeInfo(round int64) (hashgraph.MinimumJudgeInfo, bool) {
	for _, info := range s.MinimumJudgeInfoList {
		if info.Round == round {
			return info, true
		}
	}
	return hashgraph.MinimumJudgeInfo{}, false
}

// JudgeHexes returns the judge hashes as hex strings.
func (s *ConsensusSnapshot) JudgeHexes() []string {
	res := make([]string, 0, len(s.JudgeHashes))
	for _, h := range s.JudgeHashes {
		res = append(res, common.EncodeToString(h))
	}
	return res
}

func (s *ConsensusSnapshot) String() string {
	return fmt.Sprintf("round %d: %d judges, %d rounds of thresholds, next order %d, timestamp %s",
		s.Round,
		len(s.JudgeHashes),
		len(s.MinimumJudgeInfoList),
		s.NextConsensusOrder,
		s.ConsensusTimestamp.Format(time.RFC3339Nano))
}
