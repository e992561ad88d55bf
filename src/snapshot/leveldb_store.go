package snapshot

import (
	"strconv"

	"github.com/mosaicnetworks/hashround/src/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/syndtr/goleveldb/leveldb"
	lerrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDBStore persists snapshots in a LevelDB database, with the same keys
// as BadgerStore.
type LevelDBStore struct {
	db   *leveldb.DB
	path string
}

// NewLevelDBStore opens an existing database or creates a new one if nothing is
// found in path. A corrupted database is recovered.
func NewLevelDBStore(path string, logger *logrus.Entry) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{
		Filter: filter.NewBloomFilter(10),
	})
	if lerrors.IsCorrupted(err) {
		if logger != nil {
			logger.WithError(err).WithField("path", path).Warn("Recovering corrupted LevelDB")
		}
		db, err = leveldb.RecoverFile(path, nil)
	}
	if err != nil {
		return nil, err
	}

	return &LevelDBStore{
		db:   db,
		path: path,
	}, nil
}

// SetSnapshot implements the Store interface.
func (s *LevelDBStore) SetSnapshot(snap *ConsensusSnapshot) error {
	val, err := snap.Marshal()
	if err != nil {
		return err
	}
	return s.db.Put(snapshotKey(snap.Round), val, nil)
}

// GetSnapshot implements the Store interface.
func (s *LevelDBStore) GetSnapshot(round int64) (*ConsensusSnapshot, error) {
	data, err := s.db.Get(snapshotKey(round), nil)
	if err == leveldb.ErrNotFound {
		return nil, common.NewStoreErr("Snapshot", common.KeyNotFound, strconv.FormatInt(round, 10))
	}
	if err != nil {
		return nil, err
	}
	return decode(data)
}

// LastSnapshot implements the Store interface.
func (s *LevelDBStore) LastSnapshot() (*ConsensusSnapshot, error) {
	it := s.db.NewIterator(util.BytesPrefix([]byte(snapshotPrefix+"_")), nil)
	defer it.Release()

	if !it.Last() {
		if err := it.Error(); err != nil {
			return nil, err
		}
		return nil, common.NewStoreErr("Snapshot", common.Empty, "")
	}
	// the iterator's buffer is only valid until the next move
	data := append([]byte{}, it.Value()...)
	return decode(data)
}

// Rounds implements the Store interface.
func (s *LevelDBStore) Rounds() ([]int64, error) {
	it := s.db.NewIterator(util.BytesPrefix([]byte(snapshotPrefix+"_")), nil)
	defer it.Release()

	res := []int64{}
	for it.Next() {
		round, err := roundFromKey(it.Key())
		if err != nil {
			return nil, errors.Wrapf(err, "parsing key %s", it.Key())
		}
		res = append(res, round)
	}
	return res, it.Error()
}

// Close implements the Store interface.
func (s *LevelDBStore) Close() error {
	return s.db.Close()
}

// StorePath returns the path of the LevelDB directory.
func (s *LevelDBStore) StorePath() string {
	return s.path
}
