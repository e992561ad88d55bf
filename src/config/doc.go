// Package config defines the configuration of the consensus core.
//
// The Config struct is bound to command line flags and configuration files
// through viper, using the mapstructure tags of its fields. The two values that
// drive round bookkeeping are RoundsNonAncient, the number of decided rounds
// whose events are still relevant to consensus, and RoundsExpired, the number
// of decided rounds whose judge thresholds are retained.
package config
