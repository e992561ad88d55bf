package hashgraph

import (
	"crypto/ecdsa"
	"fmt"
	"math/rand"
	"time"

	"github.com/mosaicnetworks/hashround/src/crypto"
	"github.com/mosaicnetworks/hashround/src/peers"
)

// DAGNode is a simulated event creator.
type DAGNode struct {
	Key      *ecdsa.PrivateKey
	PubBytes []byte
	Peer     *peers.Peer
	Events   []*Event
}

// ID returns the creator ID of the node.
func (n *DAGNode) ID() uint32 {
	return n.Peer.ID()
}

func (n *DAGNode) last() *Event {
	if len(n.Events) == 0 {
		return nil
	}
	return n.Events[len(n.Events)-1]
}

// Play describes one event: created by node To, named Name, with the event
// named OtherParent ("" for none) as other-parent. The self-parent is always
// the creator's previous event.
type Play struct {
	To          int
	Name        string
	OtherParent string
}

// DAGBuilder creates well-formed events for a set of simulated creators. It
// is used to build test graphs and simulations.
type DAGBuilder struct {
	Nodes   []*DAGNode
	Ordered []*Event

	// BirthRound is stamped on every new event
	BirthRound int64

	byName map[string]*Event
	clock  time.Time
	step   time.Duration
}

// NewDAGBuilder creates a builder with one creator per weight.
func NewDAGBuilder(weights []uint64, start time.Time) (*DAGBuilder, error) {
	b := &DAGBuilder{
		BirthRound: RoundFirst,
		byName:     make(map[string]*Event),
		clock:      start,
		step:       time.Millisecond,
	}
	for i, w := range weights {
		key, err := crypto.GenerateECDSAKey()
		if err != nil {
			return nil, err
		}
		b.Nodes = append(b.Nodes, &DAGNode{
			Key:      key,
			PubBytes: crypto.FromECDSAPub(&key.PublicKey),
			Peer:     peers.NewPeer(crypto.PublicKeyHex(&key.PublicKey), fmt.Sprintf("node%d", i), w),
		})
	}
	return b, nil
}

// NewEqualDAGBuilder creates a builder with n creators of weight 1.
func NewEqualDAGBuilder(n int, start time.Time) (*DAGBuilder, error) {
	weights := make([]uint64, n)
	for i := range weights {
		weights[i] = 1
	}
	return NewDAGBuilder(weights, start)
}

// PeerSet returns the roster of all the builder's creators.
func (b *DAGBuilder) PeerSet() *peers.PeerSet {
	pirs := []*peers.Peer{}
	for _, n := range b.Nodes {
		pirs = append(pirs, n.Peer)
	}
	return peers.NewPeerSet(pirs)
}

// Event returns a named event.
func (b *DAGBuilder) Event(name string) *Event {
	return b.byName[name]
}

// Add creates the next event of node to. It returns an error if the other
// parent is unknown.
func (b *DAGBuilder) Add(to int, name string, otherParent string) (*Event, error) {
	var op *Event
	if otherParent != "" {
		var ok bool
		if op, ok = b.byName[otherParent]; !ok {
			return nil, fmt.Errorf("unknown other-parent %s", otherParent)
		}
	}
	return b.add(to, name, op), nil
}

// Play adds a list of events.
func (b *DAGBuilder) Play(plays []Play) error {
	for _, p := range plays {
		if _, err := b.Add(p.To, p.Name, p.OtherParent); err != nil {
			return err
		}
	}
	return nil
}

// Gossip adds count events where a random creator syncs with another random
// creator and records the other creator's last event as other-parent. Every
// creator first gets a parentless event if it has none.
func (b *DAGBuilder) Gossip(rng *rand.Rand, count int) {
	for i, n := range b.Nodes {
		if len(n.Events) == 0 {
			b.add(i, "", nil)
		}
	}
	if len(b.Nodes) < 2 {
		return
	}
	for i := 0; i < count; i++ {
		to := rng.Intn(len(b.Nodes))
		from := rng.Intn(len(b.Nodes) - 1)
		if from >= to {
			from++
		}
		b.Sync(to, from)
	}
}

// Sync creates the next event of node to, with the last event of node from
// as other-parent.
func (b *DAGBuilder) Sync(to, from int) *Event {
	return b.add(to, "", b.Nodes[from].last())
}

func (b *DAGBuilder) add(to int, name string, otherParent *Event) *Event {
	node := b.Nodes[to]
	sp := node.last()

	parents := []string{"", ""}
	index := int64(0)
	generation := FirstGeneration
	if sp != nil {
		parents[0] = sp.Hex()
		index = sp.Index() + 1
		generation = sp.Generation() + 1
	}
	if otherParent != nil {
		parents[1] = otherParent.Hex()
		if otherParent.Generation()+1 > generation {
			generation = otherParent.Generation() + 1
		}
	}

	b.clock = b.clock.Add(b.step)
	e := NewEvent(
		[][]byte{[]byte(fmt.Sprintf("%d-%d", to, index))},
		parents,
		node.PubBytes,
		index,
		generation,
		b.BirthRound,
		b.clock,
	)

	node.Events = append(node.Events, e)
	b.Ordered = append(b.Ordered, e)
	if name != "" {
		b.byName[name] = e
	}
	return e
}

// Shuffled returns the builder's events in a random order in which parents
// always come before their children.
func (b *DAGBuilder) Shuffled(rng *rand.Rand) []*Event {
	inserted := map[string]bool{"": true}
	pending := make([]*Event, len(b.Ordered))
	copy(pending, b.Ordered)

	res := []*Event{}
	for len(pending) > 0 {
		ready := []int{}
		for i, e := range pending {
			if inserted[e.SelfParent()] && inserted[e.OtherParent()] {
				ready = append(ready, i)
			}
		}
		i := ready[rng.Intn(len(ready))]
		e := pending[i]
		res = append(res, e)
		inserted[e.Hex()] = true
		pending = append(pending[:i], pending[i+1:]...)
	}
	return res
}
