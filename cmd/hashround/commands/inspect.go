package commands

import (
	"fmt"

	"github.com/mosaicnetworks/hashround/src/common"
	"github.com/mosaicnetworks/hashround/src/snapshot"
	"github.com/spf13/cobra"
)

var inspectRound int64

// NewInspectCmd produces an InspectCmd which prints the snapshots kept in the
// database.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the snapshots kept in the database",
		RunE:  inspect,
	}

	cmd.Flags().Int64Var(&inspectRound, "round", 0, "Round to show (defaults to the last decided round)")

	return cmd
}

func inspect(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	rounds, err := store.Rounds()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if len(rounds) == 0 {
		fmt.Fprintf(out, "No snapshots in %s\n", _config.Hashround.DatabaseDir)
		return nil
	}

	fmt.Fprintf(out, "Rounds: %d..%d (%d snapshots)\n", rounds[0], rounds[len(rounds)-1], len(rounds))

	s, err := loadSnapshot(store, inspectRound)
	if err != nil {
		return err
	}

	hash, err := s.Hash()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, s.String())
	fmt.Fprintf(out, "Hash: %s\n", common.EncodeToString(hash))
	for _, j := range s.JudgeHexes() {
		fmt.Fprintf(out, "Judge: %s\n", j)
	}
	for _, info := range s.MinimumJudgeInfoList {
		fmt.Fprintf(out, "MinimumJudge: %s\n", info.String())
	}

	return nil
}

// openStore opens the persistent snapshot store, whatever the value of
// --store.
func openStore() (snapshot.Store, error) {
	conf := _config.Hashround
	conf.Store = true
	return snapshot.NewStore(&conf)
}

// loadSnapshot returns the snapshot of round, or the last snapshot if round is
// not positive.
func loadSnapshot(store snapshot.Store, round int64) (*snapshot.ConsensusSnapshot, error) {
	if round > 0 {
		return store.GetSnapshot(round)
	}

	s, err := store.LastSnapshot()
	if common.IsStore(err, common.Empty) {
		return nil, fmt.Errorf("No snapshots in %s", _config.Hashround.DatabaseDir)
	}
	return s, err
}
