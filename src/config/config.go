package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/mosaicnetworks/hashround/src/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Default filenames.
const (
	// DefaultBadgerFile is the default name of the folder containing the Badger
	// database
	DefaultBadgerFile = "badger_db"

	// DefaultLevelDBFile is the default name of the folder containing the
	// LevelDB database
	DefaultLevelDBFile = "leveldb"
)

// Store types.
const (
	BadgerStoreType  = "badger"
	LevelDBStoreType = "leveldb"
)

// Ancient modes.
const (
	GenerationAncientMode = "generation"
	BirthRoundAncientMode = "birth-round"
)

// Default configuration values.
const (
	DefaultLogLevel         = "debug"
	DefaultRoundsNonAncient = 26
	DefaultRoundsExpired    = 500
	DefaultCoinFreq         = 12
	DefaultAncientMode      = GenerationAncientMode
	DefaultCacheSize        = 10000
	DefaultStore            = false
	DefaultStoreType        = BadgerStoreType
)

// Config contains the configuration of the consensus core.
type Config struct {
	// DataDir is the top-level directory containing configuration and data
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// RoundsNonAncient is the number of decided rounds, counting the latest
	// one, whose events are not ancient.
	RoundsNonAncient int64 `mapstructure:"rounds-non-ancient"`

	// RoundsExpired is the number of decided rounds for which judge thresholds
	// are kept. It must be at least RoundsNonAncient.
	RoundsExpired int64 `mapstructure:"rounds-expired"`

	// CoinFreq is the period of coin rounds in fame elections.
	CoinFreq int64 `mapstructure:"coin-freq"`

	// AncientMode selects the event field compared against ancient thresholds:
	// "generation" or "birth-round".
	AncientMode string `mapstructure:"ancient-mode"`

	// CacheSize is the max number of items in in-memory caches.
	CacheSize int `mapstructure:"cache-size"`

	// Store activates persistant storage of consensus snapshots.
	Store bool `mapstructure:"store"`

	// StoreType is the persistant store backend: "badger" or "leveldb".
	StoreType string `mapstructure:"store-type"`

	// DatabaseDir is the directory containing database files.
	DatabaseDir string `mapstructure:"db"`

	logger *logrus.Logger
}

// NewDefaultConfig returns a config object with default values.
func NewDefaultConfig() *Config {
	config := &Config{
		DataDir:          DefaultDataDir(),
		LogLevel:         DefaultLogLevel,
		RoundsNonAncient: DefaultRoundsNonAncient,
		RoundsExpired:    DefaultRoundsExpired,
		CoinFreq:         DefaultCoinFreq,
		AncientMode:      DefaultAncientMode,
		CacheSize:        DefaultCacheSize,
		Store:            DefaultStore,
		StoreType:        DefaultStoreType,
		DatabaseDir:      DefaultDatabaseDir(),
	}

	return config
}

// NewTestConfig returns a config object with default values and a special
// logger for debugging tests.
func NewTestConfig(t testing.TB, level logrus.Level) *Config {
	config := NewDefaultConfig()
	config.CacheSize = 1000
	config.logger = common.NewTestLogger(t, level)
	return config
}

// SetDataDir sets the top-level directory, and updates the database directory
// if it is currently set to the default value. If the database directory is
// not currently the default, it means the user has explicitely set it to
// something else, so avoid changing it again here.
func (c *Config) SetDataDir(dataDir string) {
	c.DataDir = dataDir
	if c.DatabaseDir == DefaultDatabaseDir() {
		c.DatabaseDir = filepath.Join(dataDir, c.defaultDatabaseFile())
	}
}

// Validate checks the values that the consensus core relies on.
func (c *Config) Validate() error {
	if c.RoundsNonAncient < 1 {
		return errors.Errorf("rounds-non-ancient must be positive, got %d", c.RoundsNonAncient)
	}
	if c.RoundsExpired < c.RoundsNonAncient {
		return errors.Errorf("rounds-expired (%d) must not be lower than rounds-non-ancient (%d)",
			c.RoundsExpired, c.RoundsNonAncient)
	}
	if c.CoinFreq < 3 {
		return errors.Errorf("coin-freq must be at least 3, got %d", c.CoinFreq)
	}
	switch c.AncientMode {
	case GenerationAncientMode, BirthRoundAncientMode:
	default:
		return errors.Errorf("unknown ancient-mode %q", c.AncientMode)
	}
	switch c.StoreType {
	case BadgerStoreType, LevelDBStoreType:
	default:
		return errors.Errorf("unknown store-type %q", c.StoreType)
	}
	return nil
}

// Logger returns a formatted logrus Entry, with prefix set to "hashround".
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Level = LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)
	}
	return c.logger.WithField("prefix", "hashround")
}

// SetLogger replaces the logger returned by Logger.
func (c *Config) SetLogger(logger *logrus.Logger) {
	c.logger = logger
}

func (c *Config) defaultDatabaseFile() string {
	if c.StoreType == LevelDBStoreType {
		return DefaultLevelDBFile
	}
	return DefaultBadgerFile
}

// DefaultDatabaseDir returns the default path for the database files.
func DefaultDatabaseDir() string {
	return filepath.Join(DefaultDataDir(), DefaultBadgerFile)
}

// DefaultDataDir return the default directory name for top-level config based
// on the underlying OS, attempting to respect conventions.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, ".Hashround")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "Hashround")
		} else {
			return filepath.Join(home, ".hashround")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// LogLevel parses a string into a Logrus log level.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}
