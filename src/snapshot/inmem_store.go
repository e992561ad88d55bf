package snapshot

import (
	"strconv"

	rbt "github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
	"github.com/mosaicnetworks/hashround/src/common"
)

// InmemStore keeps snapshots in memory, ordered by round.
type InmemStore struct {
	snapshots *rbt.Tree //[round] => encoded snapshot
}

// NewInmemStore ...
func NewInmemStore() *InmemStore {
	return &InmemStore{
		snapshots: rbt.NewWith(utils.Int64Comparator),
	}
}

// SetSnapshot implements the Store interface. Snapshots are stored encoded, so
// later changes to s are not reflected in the store.
func (s *InmemStore) SetSnapshot(snap *ConsensusSnapshot) error {
	data, err := snap.Marshal()
	if err != nil {
		return err
	}
	s.snapshots.Put(snap.Round, data)
	return nil
}

// GetSnapshot implements the Store interface.
func (s *InmemStore) GetSnapshot(round int64) (*ConsensusSnapshot, error) {
	data, ok := s.snapshots.Get(round)
	if !ok {
		return nil, common.NewStoreErr("Snapshot", common.KeyNotFound, strconv.FormatInt(round, 10))
	}
	return decode(data.([]byte))
}

// LastSnapshot implements the Store interface.
func (s *InmemStore) LastSnapshot() (*ConsensusSnapshot, error) {
	node := s.snapshots.Right()
	if node == nil {
		return nil, common.NewStoreErr("Snapshot", common.Empty, "")
	}
	return decode(node.Value.([]byte))
}

// Rounds implements the Store interface.
func (s *InmemStore) Rounds() ([]int64, error) {
	res := make([]int64, 0, s.snapshots.Size())
	for _, k := range s.snapshots.Keys() {
		res = append(res, k.(int64))
	}
	return res, nil
}

// Close implements the Store interface.
func (s *InmemStore) Close() error {
	return nil
}

func decode(data []byte) (*ConsensusSnapshot, error) {
	snap := new(ConsensusSnapshot)
	if err := snap.Unmarshal(data); err != nil {
		return nil, err
	}
	return snap, nil
}
