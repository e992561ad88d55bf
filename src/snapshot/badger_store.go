package snapshot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger"
	"github.com/mosaicnetworks/hashround/src/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// BadgerStore persists snapshots in a Badger database. Keys are zero-padded so
// that the key order is the round order.
type BadgerStore struct {
	db   *badger.DB
	path string
}

// NewBadgerStore opens an existing database or creates a new one if nothing is
// found in path.
func NewBadgerStore(path string, logger *logrus.Entry) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).
		WithSyncWrites(false).
		WithTruncate(true)

	if logger != nil {
		sub := logger.WithFields(logrus.Fields{"ns": "badger"})
		opts = opts.WithLogger(sub)
	}

	handle, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &BadgerStore{
		db:   handle,
		path: path,
	}, nil
}

func snapshotKey(round int64) []byte {
	return []byte(fmt.Sprintf("%s_%020d", snapshotPrefix, round))
}

func roundFromKey(key []byte) (int64, error) {
	return strconv.ParseInt(strings.TrimPrefix(string(key), snapshotPrefix+"_"), 10, 64)
}

// SetSnapshot implements the Store interface.
func (s *BadgerStore) SetSnapshot(snap *ConsensusSnapshot) error {
	val, err := snap.Marshal()
	if err != nil {
		return err
	}

	//insert [snapshot_round] => [snapshot bytes]
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(snapshotKey(snap.Round), val)
	})
}

// GetSnapshot implements the Store interface.
func (s *BadgerStore) GetSnapshot(round int64) (*ConsensusSnapshot, error) {
	var data []byte
	key := snapshotKey(round)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, mapError(err, string(key))
	}
	return decode(data)
}

// LastSnapshot implements the Store interface.
func (s *BadgerStore) LastSnapshot() (*ConsensusSnapshot, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(snapshotPrefix + "_")
		// in reverse mode, seek to the largest key with the prefix
		it.Seek(append(append([]byte{}, prefix...), 0xFF))
		if !it.ValidForPrefix(prefix) {
			return nil
		}

		var err error
		data, err = it.Item().ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, common.NewStoreErr("Snapshot", common.Empty, "")
	}
	return decode(data)
}

// Rounds implements the Store interface.
func (s *BadgerStore) Rounds() ([]int64, error) {
	res := []int64{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(snapshotPrefix + "_")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			round, err := roundFromKey(it.Item().Key())
			if err != nil {
				return errors.Wrapf(err, "parsing key %s", it.Item().Key())
			}
			res = append(res, round)
		}
		return nil
	})
	return res, err
}

// Close implements the Store interface.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// StorePath returns the full path of the underlying Badger database directory.
func (s *BadgerStore) StorePath() string {
	return s.path
}

func mapError(err error, key string) error {
	if err == badger.ErrKeyNotFound {
		return common.NewStoreErr("Snapshot", common.KeyNotFound, key)
	}
	return err
}
