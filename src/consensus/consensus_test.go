package consensus

import (
	"math/rand"
	"testing"

	"github.com/mosaicnetworks/hashround/src/config"
	"github.com/mosaicnetworks/hashround/src/hashgraph"
	"github.com/mosaicnetworks/hashround/src/snapshot"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	rounds []*ConsensusRound
}

func (c *collector) commit(r *ConsensusRound) error {
	c.rounds = append(c.rounds, r)
	return nil
}

func (c *collector) hexes() []string {
	res := []string{}
	for _, r := range c.rounds {
		res = append(res, r.Hexes()...)
	}
	return res
}

func engineConfig(t *testing.T) *config.Config {
	conf := config.NewTestConfig(t, logrus.InfoLevel)
	conf.RoundsNonAncient = 4
	conf.RoundsExpired = 8
	return conf
}

func newEngine(t *testing.T, conf *config.Config, b *hashgraph.DAGBuilder, store snapshot.Store) (*Consensus, *collector) {
	col := &collector{}
	c, err := NewConsensus(conf, b.PeerSet(), store, col.commit)
	require.NoError(t, err)
	return c, col
}

func gossip(t *testing.T, seed int64, n, count int) *hashgraph.DAGBuilder {
	b, err := hashgraph.NewEqualDAGBuilder(n, genesis)
	require.NoError(t, err)
	b.Gossip(rand.New(rand.NewSource(seed)), count)
	return b
}

func TestConsensusOrder(t *testing.T) {
	b := gossip(t, 1, 4, 400)
	store := snapshot.NewInmemStore()
	c, col := newEngine(t, engineConfig(t), b, store)

	for _, e := range b.Ordered {
		require.NoError(t, c.AddEvent(e))
	}

	require.True(t, len(col.rounds) >= 5, "decided %d rounds", len(col.rounds))

	order := hashgraph.FirstConsensusNumber
	var last *hashgraph.EventMetadata
	for i, r := range col.rounds {
		assert.Equal(t, hashgraph.RoundFirst+int64(i), r.RoundReceived)
		assert.Equal(t, r.RoundReceived, r.Snapshot.Round)
		assert.Equal(t, r.RoundReceived, r.EventWindow.LatestConsensusRound)

		for _, e := range r.Events {
			assert.Equal(t, r.RoundReceived, e.RoundReceived())
			assert.True(t, e.RoundCreated() <= e.RoundReceived())
			assert.Equal(t, order, e.ConsensusOrder())
			assert.True(t, e.IsConsensus())
			assert.Equal(t, hashgraph.LocalGenerationUndefined, e.CGen())
			if last != nil {
				assert.True(t, e.ConsensusTimestamp().After(last.ConsensusTimestamp()))
			}
			last = e
			order++
		}
		assert.Equal(t, order, r.Snapshot.NextConsensusOrder)
	}
	assert.Equal(t, order, c.NextConsensusOrder())
	assert.True(t, order > 100, "only %d events ordered", order)

	// an event is received after every event it descends from
	ordered := map[string]int64{}
	for _, r := range col.rounds {
		for _, e := range r.Events {
			ordered[e.Hex()] = e.ConsensusOrder()
		}
	}
	for _, r := range col.rounds {
		for _, e := range r.Events {
			for _, p := range []string{e.Event().SelfParent(), e.Event().OtherParent()} {
				if p == "" {
					continue
				}
				po, ok := ordered[p]
				require.True(t, ok)
				assert.True(t, po < e.ConsensusOrder())
			}
		}
	}

	rounds, err := store.Rounds()
	require.NoError(t, err)
	assert.Len(t, rounds, len(col.rounds))

	stored, err := store.LastSnapshot()
	require.NoError(t, err)
	assert.Equal(t, c.LastSnapshot().Round, stored.Round)
	assert.Equal(t, c.LastSnapshot().JudgeHashes, stored.JudgeHashes)
}

func TestConsensusDeterminism(t *testing.T) {
	b := gossip(t, 2, 4, 400)
	conf := config.NewTestConfig(t, logrus.InfoLevel)

	reference, refCol := newEngine(t, conf, b, nil)
	for _, e := range b.Ordered {
		require.NoError(t, reference.AddEvent(e))
	}
	require.True(t, len(refCol.rounds) >= 5)

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 3; i++ {
		c, col := newEngine(t, config.NewTestConfig(t, logrus.InfoLevel), b, nil)
		for _, e := range b.Shuffled(rng) {
			require.NoError(t, c.AddEvent(e))
		}

		n := len(refCol.rounds)
		if len(col.rounds) < n {
			n = len(col.rounds)
		}
		require.True(t, n >= 5)

		for r := 0; r < n; r++ {
			assert.Equal(t, refCol.rounds[r].Hexes(), col.rounds[r].Hexes(), "round %d", r+1)
			assert.Equal(t, refCol.rounds[r].Snapshot.JudgeHashes, col.rounds[r].Snapshot.JudgeHashes)
			assert.Equal(t, refCol.rounds[r].Snapshot.MinimumJudgeInfoList, col.rounds[r].Snapshot.MinimumJudgeInfoList)
			assert.True(t, refCol.rounds[r].Snapshot.ConsensusTimestamp.Equal(col.rounds[r].Snapshot.ConsensusTimestamp))
		}
	}
}

func TestConsensusEviction(t *testing.T) {
	b := gossip(t, 4, 4, 600)
	c, col := newEngine(t, engineConfig(t), b, nil)

	for _, e := range b.Ordered {
		require.NoError(t, c.AddEvent(e))
	}
	require.True(t, len(col.rounds) > 10)

	w := c.EventWindow()
	assert.True(t, w.ExpiredThreshold > hashgraph.FirstGeneration)
	assert.True(t, w.AncientThreshold >= w.ExpiredThreshold)
	assert.True(t, c.Graph().Len() < len(b.Ordered))

	// the stored thresholds only cover the non-expired rounds
	list := c.Rounds().MinimumJudgeInfoList()
	assert.Equal(t, c.Rounds().LastRoundDecided(), list[len(list)-1].Round)
	assert.True(t, list[0].Round >= c.Rounds().LastRoundDecided()-c.conf.RoundsExpired)

	// events that are gone are ancient
	err := c.AddEvent(b.Ordered[0])
	assert.Equal(t, ErrAncient, err)
}

func TestConsensusAncientParent(t *testing.T) {
	conf := engineConfig(t)
	conf.RoundsExpired = config.DefaultRoundsExpired

	b, err := hashgraph.NewEqualDAGBuilder(5, genesis)
	require.NoError(t, err)
	c, col := newEngine(t, conf, b, nil)

	rng := rand.New(rand.NewSource(9))
	fed := 0
	feed := func() {
		for ; fed < len(b.Ordered); fed++ {
			require.NoError(t, c.AddEvent(b.Ordered[fed]))
		}
	}
	sync := func(nodes, count int) {
		for i := 0; i < count; i++ {
			to := rng.Intn(nodes)
			from := rng.Intn(nodes - 1)
			if from >= to {
				from++
			}
			b.Sync(to, from)
			feed()
		}
	}

	// node 4 stays silent while the others decide rounds without it
	b.Gossip(rng, 0)
	feed()
	sync(4, 600)
	require.True(t, len(col.rounds) >= 5, "decided %d rounds", len(col.rounds))

	stale, err := b.Add(4, "stale", "")
	require.NoError(t, err)
	require.True(t, stale.Generation() < c.Rounds().AncientThreshold())
	assert.Equal(t, ErrAncient, c.AddEvent(stale))
	fed++

	// children of the ancient event are inserted without it
	x := b.Sync(1, 4)
	require.NoError(t, c.AddEvent(x))
	m, ok := c.Graph().Get(x.Hex())
	require.True(t, ok)
	assert.Nil(t, m.OtherParent())
	fed++

	fresh := b.Sync(4, 0)
	require.NoError(t, c.AddEvent(fresh))
	m, ok = c.Graph().Get(fresh.Hex())
	require.True(t, ok)
	assert.Nil(t, m.SelfParent())
	fed++

	// node 4 takes part again
	decided := len(col.rounds)
	sync(5, 400)
	assert.True(t, len(col.rounds) > decided)

	received := map[string]bool{}
	for _, h := range col.hexes() {
		received[h] = true
	}
	assert.True(t, received[fresh.Hex()])
	assert.False(t, received[stale.Hex()])
}

func TestConsensusBirthRound(t *testing.T) {
	conf := engineConfig(t)
	conf.AncientMode = config.BirthRoundAncientMode

	b, err := hashgraph.NewEqualDAGBuilder(4, genesis)
	require.NoError(t, err)
	c, col := newEngine(t, conf, b, nil)
	assert.Equal(t, hashgraph.BirthRoundThreshold, c.AncientMode())

	rng := rand.New(rand.NewSource(5))
	b.Gossip(rng, 0)
	for i := 0; i < 400; i++ {
		for _, e := range b.Ordered[c.Graph().NextNGen()-hashgraph.FirstNGen:] {
			require.NoError(t, c.AddEvent(e))
		}
		b.BirthRound = c.EventWindow().NewEventBirthRound
		b.Gossip(rng, 1)
	}
	require.True(t, len(col.rounds) >= 5)

	w := c.EventWindow()
	assert.Equal(t, c.Rounds().LastRoundDecided()+1, w.NewEventBirthRound)
	assert.True(t, w.AncientThreshold > hashgraph.RoundFirst)
	assert.True(t, w.AncientThreshold <= w.LatestConsensusRound)
}

func TestConsensusLoadSnapshot(t *testing.T) {
	b := gossip(t, 6, 4, 400)
	conf := engineConfig(t)
	store := snapshot.NewInmemStore()

	c, col := newEngine(t, conf, b, store)
	for _, e := range b.Ordered {
		require.NoError(t, c.AddEvent(e))
	}
	require.True(t, len(col.rounds) >= 5)

	snap, err := store.GetSnapshot(5)
	require.NoError(t, err)

	restarted, _ := newEngine(t, engineConfig(t), b, nil)
	require.NoError(t, restarted.LoadSnapshot(snap))

	expected, err := snapshot.CreateEventWindow(snap, hashgraph.GenerationThreshold, conf.RoundsNonAncient)
	require.NoError(t, err)
	assert.Equal(t, expected, restarted.EventWindow())
	assert.Equal(t, int64(6), restarted.Rounds().FameDecidedBelow())
	assert.Equal(t, snap.NextConsensusOrder, restarted.NextConsensusOrder())
	assert.Equal(t, snap, restarted.LastSnapshot())

	// events below the ancient threshold are refused
	assert.Equal(t, ErrAncient, restarted.AddEvent(b.Ordered[0]))

	// a genesis snapshot resets everything
	require.NoError(t, restarted.LoadSnapshot(snapshot.GenesisSnapshot(hashgraph.GenerationThreshold)))
	assert.False(t, restarted.Rounds().AnyRoundDecided())
	assert.Equal(t, snapshot.GenesisEventWindow(hashgraph.GenerationThreshold), restarted.EventWindow())
	assert.Nil(t, restarted.LastSnapshot())
	assert.NoError(t, restarted.AddEvent(b.Ordered[0]))

	// a snapshot without judges is only a reset at the first round
	judgeless := &snapshot.ConsensusSnapshot{
		Round:                5,
		MinimumJudgeInfoList: snap.MinimumJudgeInfoList,
		NextConsensusOrder:   snap.NextConsensusOrder,
		ConsensusTimestamp:   snap.ConsensusTimestamp,
	}
	require.NoError(t, restarted.LoadSnapshot(judgeless))
	assert.Equal(t, int64(5), restarted.Rounds().LastRoundDecided())
	assert.Equal(t, expected, restarted.EventWindow())

	// an inconsistent snapshot is refused
	bad := &snapshot.ConsensusSnapshot{
		Round:                9,
		JudgeHashes:          [][]byte{{1}},
		MinimumJudgeInfoList: []hashgraph.MinimumJudgeInfo{hashgraph.NewMinimumJudgeInfo(4, 1)},
	}
	assert.Error(t, restarted.LoadSnapshot(bad))
	assert.Error(t, restarted.LoadSnapshot(&snapshot.ConsensusSnapshot{Round: 9, JudgeHashes: [][]byte{{1}}}))
}

func TestConsensusSyntheticSnapshot(t *testing.T) {
	b := gossip(t, 7, 4, 200)
	conf := engineConfig(t)

	judge := b.Ordered[len(b.Ordered)/2]
	snap := snapshot.GenerateSyntheticSnapshot(50, 999, judge.Timestamp(), conf, hashgraph.GenerationThreshold, judge)

	c, col := newEngine(t, conf, b, nil)
	require.NoError(t, c.LoadSnapshot(snap))
	assert.Equal(t, int64(51), c.Rounds().ElectionRound())

	// events older than the judge are ancient, the others are inserted in
	// rounds above the snapshot
	added := 0
	for _, e := range b.Ordered {
		err := c.AddEvent(e)
		if e.Generation() < judge.Generation() {
			assert.Equal(t, ErrAncient, err)
			continue
		}
		require.NoError(t, err)
		added++
	}
	assert.True(t, added > 0)
	assert.True(t, c.Graph().Len() <= added)

	require.NotEmpty(t, col.rounds)
	assert.Equal(t, int64(51), col.rounds[0].RoundReceived)
	assert.Equal(t, int64(1000), col.rounds[0].Snapshot.NextConsensusOrder-int64(len(col.rounds[0].Events)))
}

func TestConsensusInvalidConfig(t *testing.T) {
	b := gossip(t, 8, 3, 0)
	conf := engineConfig(t)
	conf.AncientMode = "age"
	_, err := NewConsensus(conf, b.PeerSet(), nil, nil)
	assert.Error(t, err)
}
