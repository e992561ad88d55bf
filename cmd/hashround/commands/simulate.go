package commands

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mosaicnetworks/hashround/src/consensus"
	"github.com/mosaicnetworks/hashround/src/hashgraph"
	"github.com/mosaicnetworks/hashround/src/peers"
	"github.com/mosaicnetworks/hashround/src/snapshot"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	simNodes  int
	simEvents int
	simSeed   int64
)

// NewSimulateCmd produces a SimulateCmd which runs the consensus engine on a
// randomly gossiped graph.
func NewSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Order a simulated gossip graph",
		RunE:  simulate,
	}

	AddSimulateFlags(cmd)

	return cmd
}

// AddSimulateFlags adds flags to the simulate command
func AddSimulateFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&simNodes, "nodes", 4, "Number of simulated creators")
	cmd.Flags().IntVar(&simEvents, "events", 1000, "Number of gossiped events")
	cmd.Flags().Int64Var(&simSeed, "seed", 1, "Random seed of the gossip")
}

func simulate(cmd *cobra.Command, args []string) error {
	if simNodes < 1 {
		return fmt.Errorf("At least one node is required")
	}

	logger := _config.Hashround.Logger().WithField("component", "simulate")

	b, err := hashgraph.NewEqualDAGBuilder(simNodes, time.Unix(0, 0).UTC())
	if err != nil {
		return err
	}

	store, err := snapshot.NewStore(&_config.Hashround)
	if err != nil {
		return err
	}
	defer store.Close()

	if _config.Hashround.Store {
		jsonPeers := peers.NewJSONPeerSet(_config.Hashround.DataDir)
		if err := jsonPeers.Write(b.PeerSet().Peers); err != nil {
			return fmt.Errorf("Writing peers: %s", err)
		}
	}

	rounds, ordered := 0, 0
	commit := func(r *consensus.ConsensusRound) error {
		rounds++
		ordered += len(r.Events)
		logger.WithFields(logrus.Fields{
			"round":  r.RoundReceived,
			"events": len(r.Events),
			"window": r.EventWindow.String(),
		}).Debug("Round decided")
		return nil
	}

	c, err := consensus.NewConsensus(&_config.Hashround, b.PeerSet(), store, commit)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(simSeed))

	b.Gossip(rng, 0)
	for i := 0; i <= simEvents; i++ {
		for _, e := range b.Ordered[c.Graph().NextNGen()-hashgraph.FirstNGen:] {
			if err := c.AddEvent(e); err != nil {
				return fmt.Errorf("Adding event %s: %s", e.Hex(), err)
			}
		}
		if i == simEvents {
			break
		}
		b.BirthRound = c.EventWindow().NewEventBirthRound
		b.Gossip(rng, 1)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Events: %d\n", len(b.Ordered))
	fmt.Fprintf(out, "Decided rounds: %d\n", rounds)
	fmt.Fprintf(out, "Ordered events: %d\n", ordered)
	fmt.Fprintf(out, "Undetermined events: %d\n", c.Undetermined())
	fmt.Fprintf(out, "Event window: %s\n", c.EventWindow().String())

	if s := c.LastSnapshot(); s != nil {
		fmt.Fprintf(out, "Last snapshot: %s\n", s.String())
	}

	return nil
}
