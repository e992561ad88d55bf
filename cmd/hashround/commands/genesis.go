package commands

import (
	"fmt"

	"github.com/mosaicnetworks/hashround/src/common"
	"github.com/mosaicnetworks/hashround/src/hashgraph"
	"github.com/mosaicnetworks/hashround/src/snapshot"
	"github.com/spf13/cobra"
)

var writeGenesis bool

// NewGenesisCmd produces a GenesisCmd which prints, and optionally stores, the
// genesis snapshot.
func NewGenesisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genesis",
		Short: "Create the genesis snapshot",
		RunE:  genesis,
	}

	AddGenesisFlags(cmd)

	return cmd
}

// AddGenesisFlags adds flags to the genesis command
func AddGenesisFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&writeGenesis, "write", false, "Write the genesis snapshot to the database")
}

func genesis(cmd *cobra.Command, args []string) error {
	mode, err := hashgraph.ParseAncientMode(_config.Hashround.AncientMode)
	if err != nil {
		return err
	}

	s := snapshot.GenesisSnapshot(mode)

	if writeGenesis {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		last, err := store.LastSnapshot()
		if err == nil {
			return fmt.Errorf("Database %s already contains round %d", _config.Hashround.DatabaseDir, last.Round)
		}
		if !common.IsStore(err, common.Empty) {
			return err
		}

		if err := store.SetSnapshot(s); err != nil {
			return fmt.Errorf("Writing genesis snapshot: %s", err)
		}

		_config.Hashround.Logger().WithField("db", _config.Hashround.DatabaseDir).Info("Genesis snapshot written")
	}

	return printSnapshot(cmd, s)
}

func printSnapshot(cmd *cobra.Command, s *snapshot.ConsensusSnapshot) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))

	return nil
}
