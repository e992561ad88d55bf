package consensus

import (
	"errors"
	"sort"
	"time"

	"github.com/mosaicnetworks/hashround/src/common"
	"github.com/mosaicnetworks/hashround/src/config"
	"github.com/mosaicnetworks/hashround/src/election"
	"github.com/mosaicnetworks/hashround/src/hashgraph"
	"github.com/mosaicnetworks/hashround/src/peers"
	"github.com/mosaicnetworks/hashround/src/snapshot"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrAncient is returned by AddEvent for events below the ancient threshold.
var ErrAncient = errors.New("ancient event")

// minTimestampIncrement separates the consensus timestamps of consecutive
// events.
const minTimestampIncrement = time.Microsecond

// Consensus computes the consensus order of the events of one node.
//
// It is not safe for concurrent use. Calls must be serialized by the caller.
type Consensus struct {
	conf    *config.Config
	mode    hashgraph.AncientMode
	peerSet *peers.PeerSet

	graph     *hashgraph.Graph
	elections *election.RoundElections
	rounds    *ConsensusRounds

	// events without a round received, in nGen order
	undetermined []*hashgraph.EventMetadata

	nextConsensusOrder     int64
	lastConsensusTimestamp time.Time
	lastSnapshot           *snapshot.ConsensusSnapshot

	store          snapshot.Store
	commitCallback func(*ConsensusRound) error

	logger *logrus.Entry
}

// NewConsensus creates a Consensus in its genesis state. store may be nil, in
// which case snapshots are not persisted. commitCallback, if not nil, is
// called with every decided round.
func NewConsensus(conf *config.Config,
	peerSet *peers.PeerSet,
	store snapshot.Store,
	commitCallback func(*ConsensusRound) error) (*Consensus, error) {

	if err := conf.Validate(); err != nil {
		return nil, pkgerrors.Wrap(err, "invalid configuration")
	}

	mode, err := hashgraph.ParseAncientMode(conf.AncientMode)
	if err != nil {
		return nil, err
	}

	logger := conf.Logger()

	graph := hashgraph.NewGraph(peerSet, conf.CacheSize, logger.WithField("component", "graph"))
	elections := election.NewRoundElections(graph, peerSet, conf.CoinFreq, logger.WithField("component", "elections"))

	c := &Consensus{
		conf:           conf,
		mode:           mode,
		peerSet:        peerSet,
		graph:          graph,
		elections:      elections,
		rounds:         NewConsensusRounds(conf, mode, peerSet, elections),
		store:          store,
		commitCallback: commitCallback,
		logger:         logger.WithField("component", "consensus"),
	}
	c.reset()

	return c, nil
}

func (c *Consensus) reset() {
	c.rounds.Reset()
	c.graph.Reset(hashgraph.RoundFirst)
	c.undetermined = []*hashgraph.EventMetadata{}
	c.nextConsensusOrder = hashgraph.FirstConsensusNumber
	c.lastConsensusTimestamp = time.Unix(0, 0).UTC()
	c.lastSnapshot = nil
}

// AddEvent inserts an event and runs the elections it takes part in. Events
// must be added after their parents. Ancient events are rejected with
// ErrAncient, and their children are later accepted without them.
func (c *Consensus) AddEvent(event *hashgraph.Event) error {
	if c.rounds.AnyRoundDecided() && c.mode.SelectIndicator(event) < c.rounds.AncientThreshold() {
		c.graph.MarkAncient(event)
		return ErrAncient
	}

	m, err := c.graph.Insert(event)
	if err != nil {
		return err
	}

	hashgraph.CalculateDeGen(m)
	c.undetermined = append(c.undetermined, m)

	if !m.IsWitness() {
		return nil
	}

	if c.processWitness(m) {
		return c.decideRounds()
	}
	return nil
}

// processWitness hands a witness to ConsensusRounds, and lets it vote if it
// belongs to a later round than the election. It returns true if the election
// is decided.
func (c *Consensus) processWitness(w *hashgraph.EventMetadata) bool {
	c.rounds.NewWitness(w)
	if w.RoundCreated() > c.rounds.ElectionRound() {
		return c.elections.Vote(w)
	}
	return false
}

func (c *Consensus) decideRounds() error {
	for c.elections.IsDecided() {
		if err := c.handleDecided(); err != nil {
			return err
		}

		c.rounds.Recalculating()
		for _, w := range c.graph.WitnessesFrom(c.rounds.ElectionRound()) {
			if c.processWitness(w) {
				break
			}
		}
	}
	return nil
}

func (c *Consensus) handleDecided() error {
	round := c.rounds.ElectionRound()
	judges := c.elections.Judges()
	judgeHashes := c.elections.JudgeHashes()

	c.rounds.CurrentElectionDecided()

	received := c.receive(round, judges)

	hashgraph.AssignCGen(received)
	whitening := hashgraph.Whitening(judgeHashes)
	hashgraph.Sort(received, whitening)
	if err := hashgraph.CheckTotal(received, whitening); err != nil {
		c.logger.WithError(err).WithField("round", round).Error("Consensus order is not total")
	}
	hashgraph.ClearCGen(received)

	for _, e := range received {
		ts := e.ConsensusTimestamp()
		if floor := c.lastConsensusTimestamp.Add(minTimestampIncrement); ts.Before(floor) {
			ts = floor
		}
		e.SetConsensusTimestamp(ts)
		e.SetConsensusOrder(c.nextConsensusOrder)
		c.nextConsensusOrder++
		c.lastConsensusTimestamp = ts
	}

	snap := &snapshot.ConsensusSnapshot{
		Round:                round,
		JudgeHashes:          judgeHashes,
		MinimumJudgeInfoList: c.rounds.MinimumJudgeInfoList(),
		NextConsensusOrder:   c.nextConsensusOrder,
		ConsensusTimestamp:   c.lastConsensusTimestamp,
	}
	c.lastSnapshot = snap

	if c.store != nil {
		if err := c.store.SetSnapshot(snap); err != nil {
			return pkgerrors.Wrapf(err, "storing snapshot of round %d", round)
		}
	}

	c.logger.WithFields(logrus.Fields{
		"round":             round,
		"judges":            len(judges),
		"events":            len(received),
		"undetermined":      len(c.undetermined),
		"ancient_threshold": c.rounds.AncientThreshold(),
	}).Debug("Round received")

	if c.commitCallback != nil {
		if err := c.commitCallback(&ConsensusRound{
			RoundReceived: round,
			Events:        received,
			Snapshot:      snap,
			EventWindow:   c.EventWindow(),
		}); err != nil {
			return pkgerrors.Wrapf(err, "committing round %d", round)
		}
	}

	c.evict()

	return nil
}

// receive assigns round to the undetermined events seen by every judge, and
// computes their received times and consensus timestamp. It returns the
// received events in nGen order.
func (c *Consensus) receive(round int64, judges []*hashgraph.EventMetadata) []*hashgraph.EventMetadata {
	received := []*hashgraph.EventMetadata{}
	if len(judges) == 0 {
		return received
	}

	remaining := []*hashgraph.EventMetadata{}
	for _, x := range c.undetermined {
		seenByAll := true
		for _, j := range judges {
			if !c.graph.See(j, x) {
				seenByAll = false
				break
			}
		}
		if !seenByAll {
			remaining = append(remaining, x)
			continue
		}

		x.SetRoundReceived(round)
		x.SetRecTimes(c.recTimes(x, judges))
		x.SetConsensusTimestamp(common.MedianTime(x.RecTimes()))
		received = append(received, x)
	}
	c.undetermined = remaining

	return received
}

// recTimes returns, for each judge, the creator timestamp of the first event
// of the judge's creator that has x as an ancestor. The result is sorted.
func (c *Consensus) recTimes(x *hashgraph.EventMetadata, judges []*hashgraph.EventMetadata) []time.Time {
	res := []time.Time{}
	for _, j := range judges {
		fd, ok := c.graph.FirstDescendant(x, j.CreatorID())
		if !ok || fd.Event().Index() > j.Event().Index() {
			continue
		}
		res = append(res, fd.Event().Timestamp())
	}
	sort.Slice(res, func(i, k int) bool { return res[i].Before(res[k]) })
	return res
}

// evict forgets the events below the expired threshold that were received
// before the judges of the last decided round.
func (c *Consensus) evict() {
	threshold := c.rounds.ExpiredThreshold()
	if threshold == hashgraph.ThresholdUndefined {
		return
	}

	evicted := c.graph.Evict(func(m *hashgraph.EventMetadata) bool {
		return c.mode.SelectIndicator(m.Event()) < threshold &&
			c.rounds.IsOlderThanDecidedRoundGeneration(m)
	})
	if len(evicted) == 0 {
		return
	}

	gone := make(map[string]bool, len(evicted))
	for _, m := range evicted {
		gone[m.Hex()] = true
	}

	remaining := []*hashgraph.EventMetadata{}
	for _, m := range c.undetermined {
		if !gone[m.Hex()] {
			remaining = append(remaining, m)
		}
	}
	if dropped := len(c.undetermined) - len(remaining); dropped > 0 {
		c.logger.WithField("dropped", dropped).Warn("Stale undetermined events evicted")
	}
	c.undetermined = remaining
}

// LoadSnapshot restarts consensus from a snapshot. A genesis snapshot resets
// the engine. Otherwise the next election is the round after the snapshot's,
// and events whose parents predate the snapshot are accepted.
func (c *Consensus) LoadSnapshot(s *snapshot.ConsensusSnapshot) error {
	c.reset()

	if s.IsGenesis() {
		return nil
	}

	if err := c.rounds.LoadFromMinimumJudge(s.MinimumJudgeInfoList); err != nil {
		return pkgerrors.Wrapf(err, "loading snapshot of round %d", s.Round)
	}
	if c.rounds.LastRoundDecided() != s.Round {
		c.reset()
		return pkgerrors.Errorf("snapshot of round %d ends with round %d",
			s.Round, c.rounds.LastRoundDecided())
	}

	c.graph.Reset(s.Round + 1)
	c.rounds.SetConsensusRelevantNGen(c.graph.NextNGen())
	c.nextConsensusOrder = s.NextConsensusOrder
	c.lastConsensusTimestamp = s.ConsensusTimestamp
	c.lastSnapshot = s

	c.logger.WithFields(logrus.Fields{
		"round":      s.Round,
		"next_order": s.NextConsensusOrder,
	}).Info("Loaded snapshot")

	return nil
}

// EventWindow returns the current event window.
func (c *Consensus) EventWindow() snapshot.EventWindow {
	if !c.rounds.AnyRoundDecided() {
		return snapshot.GenesisEventWindow(c.mode)
	}

	ancient := c.rounds.AncientThreshold()
	if ancient == hashgraph.ThresholdUndefined {
		ancient = c.mode.GenesisIndicator()
	}
	expired := c.rounds.ExpiredThreshold()
	if expired == hashgraph.ThresholdUndefined {
		expired = c.mode.GenesisIndicator()
	}

	return snapshot.NewEventWindow(c.rounds.LastRoundDecided(), ancient, expired, c.mode)
}

// Graph ...
func (c *Consensus) Graph() *hashgraph.Graph {
	return c.graph
}

// Rounds ...
func (c *Consensus) Rounds() *ConsensusRounds {
	return c.rounds
}

// LastSnapshot returns the snapshot of the last decided round, or nil.
func (c *Consensus) LastSnapshot() *snapshot.ConsensusSnapshot {
	return c.lastSnapshot
}

// NextConsensusOrder ...
func (c *Consensus) NextConsensusOrder() int64 {
	return c.nextConsensusOrder
}

// Undetermined returns the number of events waiting for a round received.
func (c *Consensus) Undetermined() int {
	return len(c.undetermined)
}

// AncientMode ...
func (c *Consensus) AncientMode() hashgraph.AncientMode {
	return c.mode
}
