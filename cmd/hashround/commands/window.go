package commands

import (
	"fmt"

	"github.com/mosaicnetworks/hashround/src/hashgraph"
	"github.com/mosaicnetworks/hashround/src/snapshot"
	"github.com/spf13/cobra"
)

var windowRound int64

// NewWindowCmd produces a WindowCmd which prints the event window derived from
// a stored snapshot.
func NewWindowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Show the event window of a decided round",
		RunE:  window,
	}

	cmd.Flags().Int64Var(&windowRound, "round", 0, "Decided round (defaults to the last decided round)")

	return cmd
}

func window(cmd *cobra.Command, args []string) error {
	mode, err := hashgraph.ParseAncientMode(_config.Hashround.AncientMode)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	s, err := loadSnapshot(store, windowRound)
	if err != nil {
		return err
	}

	var w snapshot.EventWindow
	if s.IsGenesis() {
		w = snapshot.GenesisEventWindow(mode)
	} else {
		w, err = snapshot.CreateEventWindow(s, mode, _config.Hashround.RoundsNonAncient)
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), w.String())

	return nil
}
