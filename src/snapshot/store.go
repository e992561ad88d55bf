package snapshot

import (
	"path/filepath"

	"github.com/mosaicnetworks/hashround/src/config"
	"github.com/pkg/errors"
)

// Store persists the snapshots of decided rounds.
type Store interface {
	SetSnapshot(s *ConsensusSnapshot) error
	GetSnapshot(round int64) (*ConsensusSnapshot, error)
	LastSnapshot() (*ConsensusSnapshot, error)
	Rounds() ([]int64, error)
	Close() error
}

const snapshotPrefix = "snapshot"

// NewStore creates the Store selected by the configuration: an InmemStore if
// persistence is off, otherwise a Badger or LevelDB store in the database
// directory.
func NewStore(conf *config.Config) (Store, error) {
	if !conf.Store {
		return NewInmemStore(), nil
	}

	logger := conf.Logger()

	switch conf.StoreType {
	case config.BadgerStoreType:
		store, err := NewBadgerStore(conf.DatabaseDir, logger)
		if err != nil {
			return nil, errors.Wrapf(err, "opening badger store in %s", conf.DatabaseDir)
		}
		return store, nil
	case config.LevelDBStoreType:
		path := conf.DatabaseDir
		if filepath.Base(path) == config.DefaultBadgerFile {
			path = filepath.Join(filepath.Dir(path), config.DefaultLevelDBFile)
		}
		store, err := NewLevelDBStore(path, logger)
		if err != nil {
			return nil, errors.Wrapf(err, "opening leveldb store in %s", path)
		}
		return store, nil
	}

	return nil, errors.Errorf("unknown store type %q", conf.StoreType)
}
