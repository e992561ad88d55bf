package commands

import (
	"github.com/mosaicnetworks/hashround/src/config"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var (
	_config = NewDefaultCLIConfig()
)

// RootCmd is the root command for Hashround
var RootCmd = &cobra.Command{
	Use:               "hashround",
	Short:             "Hashgraph round management and consensus ordering",
	TraverseChildren:  true,
	PersistentPreRunE: loadConfig,
}

func init() {
	AddRootFlags(RootCmd)
}

// AddRootFlags adds the flags shared by every command
func AddRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("datadir", _config.Hashround.DataDir, "Top-level directory for configuration and data")
	cmd.PersistentFlags().String("log", _config.Hashround.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.PersistentFlags().String("log-file", _config.LogFile, "File where log entries are also written")

	// Rounds
	cmd.PersistentFlags().String("ancient-mode", _config.Hashround.AncientMode, "Ancient indicator: generation or birth-round")
	cmd.PersistentFlags().Int64("rounds-non-ancient", _config.Hashround.RoundsNonAncient, "Number of decided rounds that are not ancient")
	cmd.PersistentFlags().Int64("rounds-expired", _config.Hashround.RoundsExpired, "Number of decided rounds that are not expired")
	cmd.PersistentFlags().Int64("coin-freq", _config.Hashround.CoinFreq, "Period of coin rounds in fame elections")
	cmd.PersistentFlags().Int("cache-size", _config.Hashround.CacheSize, "Number of items in LRU caches")

	// Store
	cmd.PersistentFlags().Bool("store", _config.Hashround.Store, "Persist snapshots instead of keeping them in memory")
	cmd.PersistentFlags().String("store-type", _config.Hashround.StoreType, "Snapshot database: badger or leveldb")
	cmd.PersistentFlags().String("db", _config.Hashround.DatabaseDir, "Database directory")
}

/*******************************************************************************
* CONFIG
*******************************************************************************/

func loadConfig(cmd *cobra.Command, args []string) error {

	err := bindFlagsLoadViper(cmd)
	if err != nil {
		return err
	}

	// If --datadir was explicitely set, but not --db, this will update the
	// default database dir to be inside the new datadir
	_config.Hashround.SetDataDir(_config.Hashround.DataDir)

	_config.Hashround.SetLogger(newLogger())

	if err := _config.Hashround.Validate(); err != nil {
		return err
	}

	logFields := logrus.Fields{
		"hashround.DataDir":          _config.Hashround.DataDir,
		"hashround.LogLevel":         _config.Hashround.LogLevel,
		"hashround.AncientMode":      _config.Hashround.AncientMode,
		"hashround.RoundsNonAncient": _config.Hashround.RoundsNonAncient,
		"hashround.RoundsExpired":    _config.Hashround.RoundsExpired,
		"hashround.CoinFreq":         _config.Hashround.CoinFreq,
		"hashround.CacheSize":        _config.Hashround.CacheSize,
		"hashround.Store":            _config.Hashround.Store,
		"LogFile":                    _config.LogFile,
	}

	if _config.Hashround.Store {
		logFields["hashround.StoreType"] = _config.Hashround.StoreType
		logFields["hashround.DatabaseDir"] = _config.Hashround.DatabaseDir
	}

	_config.Hashround.Logger().WithFields(logFields).Debug(cmd.Name())

	return nil
}

// Bind all flags and read the config into viper
func bindFlagsLoadViper(cmd *cobra.Command) error {
	// Register flags with viper. Include flags from this command and all other
	// persistent flags from the parent
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// first unmarshal to read from CLI flags
	if err := viper.Unmarshal(_config); err != nil {
		return err
	}

	// look for config file in [datadir]/hashround.toml (.json, .yaml also work)
	viper.SetConfigName("hashround")
	viper.AddConfigPath(_config.Hashround.DataDir)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		logrus.Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		logrus.Debugf("No config file found in: %s", _config.Hashround.DataDir)
	} else {
		return err
	}

	// second unmarshal to read from config file
	return viper.Unmarshal(_config)
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.Level = config.LogLevel(_config.Hashround.LogLevel)
	logger.Formatter = new(prefixed.TextFormatter)

	if _config.LogFile != "" {
		pathMap := lfshook.PathMap{}
		for _, level := range logrus.AllLevels {
			pathMap[level] = _config.LogFile
		}

		logger.Hooks.Add(lfshook.NewHook(
			pathMap,
			&logrus.JSONFormatter{},
		))
	}

	return logger
}
