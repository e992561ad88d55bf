package hashgraph

import (
	"fmt"
	"sort"

	"github.com/mosaicnetworks/hashround/src/common"
	"github.com/mosaicnetworks/hashround/src/peers"
	"github.com/sirupsen/logrus"
)

// Key is the cache key of two-event predicates.
type Key struct {
	x, y string
}

// Graph is the index of the events known to a node. It assigns nGen, rounds
// and witness flags at insertion and answers ancestry queries.
type Graph struct {
	peerSet *peers.PeerSet

	events    map[string]*EventMetadata  //[hex] => metadata
	heads     map[uint32]*EventMetadata  //[creator ID] => last event
	witnesses map[int64][]*EventMetadata //[round] => witnesses in nGen order

	nextNGen  int64
	baseRound int64
	maxRound  int64

	// parents that are not in the graph are tolerated once the graph starts
	// from a snapshot, because they predate it
	tolerateMissing bool
	// other-parents that are not in the graph are tolerated once events have
	// been evicted, since the graph does not remember evicted hashes
	evicted bool
	// events rejected as ancient [hex] => *Event. Their children are inserted
	// with the ancient parent missing.
	ancient *common.LRU

	seeCache         *common.LRU
	stronglySeeCache *common.LRU

	logger *logrus.Entry
}

// NewGraph creates an empty Graph whose events are weighed with peerSet.
func NewGraph(peerSet *peers.PeerSet, cacheSize int, logger *logrus.Entry) *Graph {
	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	g := &Graph{
		peerSet:          peerSet,
		ancient:          common.NewLRU(cacheSize, nil),
		seeCache:         common.NewLRU(cacheSize, nil),
		stronglySeeCache: common.NewLRU(cacheSize, nil),
		logger:           logger,
	}
	g.Reset(RoundFirst)

	return g
}

// Reset empties the Graph. Events without parents in the graph will be placed
// in baseRound. A base round above RoundFirst means the graph resumes from a
// snapshot, and parents missing from the graph are then accepted.
func (g *Graph) Reset(baseRound int64) {
	g.events = make(map[string]*EventMetadata)
	g.heads = make(map[uint32]*EventMetadata)
	g.witnesses = make(map[int64][]*EventMetadata)
	g.nextNGen = FirstNGen
	g.baseRound = baseRound
	g.maxRound = RoundUndefined
	g.tolerateMissing = baseRound > RoundFirst
	g.evicted = false
	g.ancient.Purge()
	g.seeCache.Purge()
	g.stronglySeeCache.Purge()
}

// PeerSet returns the roster used for strongly-see computations.
func (g *Graph) PeerSet() *peers.PeerSet {
	return g.peerSet
}

// Len returns the number of events held.
func (g *Graph) Len() int {
	return len(g.events)
}

// NextNGen is the nGen the next inserted event will get.
func (g *Graph) NextNGen() int64 {
	return g.nextNGen
}

// MaxRound is the highest round created in the graph.
func (g *Graph) MaxRound() int64 {
	return g.maxRound
}

// Get returns the metadata of an event by hex.
func (g *Graph) Get(hex string) (*EventMetadata, bool) {
	m, ok := g.events[hex]
	return m, ok
}

// Witnesses returns the witnesses of a round in nGen order.
func (g *Graph) Witnesses(round int64) []*EventMetadata {
	return g.witnesses[round]
}

// WitnessesFrom returns the witnesses of every round >= round, in nGen order.
func (g *Graph) WitnessesFrom(round int64) []*EventMetadata {
	res := []*EventMetadata{}
	for r, ws := range g.witnesses {
		if r >= round {
			res = append(res, ws...)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].NGen() < res[j].NGen() })
	return res
}

// MarkAncient remembers an event that was rejected as ancient. Its children
// are then inserted as if the event was missing.
func (g *Graph) MarkAncient(event *Event) {
	g.ancient.Add(event.Hex(), event)
}

// ancientSelfParent returns true if the self-parent of event was rejected as
// ancient, and is the creator's event right after head (nil for none).
func (g *Graph) ancientSelfParent(event *Event, head *EventMetadata) bool {
	v, ok := g.ancient.Get(event.SelfParent())
	if !ok {
		return false
	}
	sp := v.(*Event)
	if sp.CreatorID() != event.CreatorID() || sp.Index()+1 != event.Index() {
		return false
	}
	return head == nil || head.Event().Index() < sp.Index()
}

// Insert adds an event to the graph, after checking its parents and
// generation, and computes its nGen, ancestry coordinates, round and witness
// flag.
func (g *Graph) Insert(event *Event) (*EventMetadata, error) {
	if _, ok := g.events[event.Hex()]; ok {
		return nil, ErrEventExists
	}
	if len(event.Body.Parents) != 2 {
		return nil, ErrInvalidParents
	}

	selfParent, prevSelf, err := g.checkSelfParent(event)
	if err != nil {
		return nil, err
	}

	otherParent, prevOther, err := g.checkOtherParent(event)
	if err != nil {
		return nil, err
	}

	if err := g.checkGeneration(event, prevSelf, prevOther); err != nil {
		return nil, err
	}

	m := NewEventMetadata(event, selfParent, otherParent)
	m.SetNGen(g.nextNGen)
	g.nextNGen++

	g.initEventCoordinates(m, prevSelf, prevOther)
	g.updateAncestorFirstDescendant(m)

	round := g.round(prevSelf, prevOther, m)
	m.SetRoundCreated(round)
	m.SetWitness(prevSelf == nil || prevSelf.RoundCreated() < round)

	g.events[event.Hex()] = m
	g.heads[event.CreatorID()] = m
	if m.IsWitness() {
		g.witnesses[round] = append(g.witnesses[round], m)
	}
	if round > g.maxRound {
		g.maxRound = round
	}

	g.logger.WithFields(logrus.Fields{
		"event":   event.Hex(),
		"creator": event.CreatorID(),
		"index":   event.Index(),
		"n_gen":   m.NGen(),
		"round":   round,
		"witness": m.IsWitness(),
	}).Debug("Insert event")

	return m, nil
}

// checkSelfParent returns the self-parent of an event, and the event to compute
// its round and ancestry from. They differ when the self-parent was evicted
// or rejected as ancient: the link is dropped but the creator's last event
// known to the graph is still used for calculations.
func (g *Graph) checkSelfParent(event *Event) (*EventMetadata, *EventMetadata, error) {
	sp := event.SelfParent()
	head, hasHead := g.heads[event.CreatorID()]

	if sp == "" {
		if hasHead {
			return nil, nil, fmt.Errorf("%w: creator %d already has events", ErrSelfParent, event.CreatorID())
		}
		return nil, nil, nil
	}

	if hasHead {
		if head.Hex() != sp {
			if g.ancientSelfParent(event, head) {
				return nil, head, nil
			}
			return nil, nil, fmt.Errorf("%w: expected %s, got %s", ErrSelfParent, head.Hex(), sp)
		}
		if head.Event().Index()+1 != event.Index() {
			return nil, nil, fmt.Errorf("%w: index %d does not follow %d", ErrSelfParent, event.Index(), head.Event().Index())
		}
		if m, ok := g.events[sp]; ok {
			return m, m, nil
		}
		return nil, head, nil
	}

	if g.tolerateMissing || g.ancientSelfParent(event, nil) {
		return nil, nil, nil
	}
	return nil, nil, fmt.Errorf("%w: self-parent %s", ErrUnknownParent, sp)
}

// checkOtherParent works like checkSelfParent. An evicted other-parent is only
// remembered if it is still the last event of its creator.
func (g *Graph) checkOtherParent(event *Event) (*EventMetadata, *EventMetadata, error) {
	op := event.OtherParent()
	if op == "" {
		return nil, nil, nil
	}
	if m, ok := g.events[op]; ok {
		return m, m, nil
	}
	for _, head := range g.heads {
		if head.Hex() == op {
			return nil, head, nil
		}
	}
	if _, ok := g.ancient.Get(op); ok || g.tolerateMissing || g.evicted {
		return nil, nil, nil
	}
	return nil, nil, fmt.Errorf("%w: other-parent %s", ErrUnknownParent, op)
}

func (g *Graph) checkGeneration(event *Event, selfParent, otherParent *EventMetadata) error {
	// generations of parents outside the graph are unknown
	if (event.SelfParent() != "" && selfParent == nil) ||
		(event.OtherParent() != "" && otherParent == nil) {
		return nil
	}
	// the self-parent was rejected as ancient after selfParent
	if selfParent != nil && selfParent.Hex() != event.SelfParent() {
		return nil
	}

	expected := FirstGeneration
	for _, p := range []*EventMetadata{selfParent, otherParent} {
		if p != nil && p.Event().Generation()+1 > expected {
			expected = p.Event().Generation() + 1
		}
	}
	if event.Generation() != expected {
		return fmt.Errorf("%w: expected %d, got %d", ErrGeneration, expected, event.Generation())
	}
	return nil
}

// initialize maps of last ancestors and first descendants
func (g *Graph) initEventCoordinates(m, selfParent, otherParent *EventMetadata) {
	m.firstDescendants = make(CoordinatesMap)

	switch {
	case selfParent != nil && otherParent != nil:
		m.lastAncestors = selfParent.lastAncestors.Copy()
		for p, ola := range otherParent.lastAncestors {
			sla, ok := m.lastAncestors[p]
			if !ok || sla.Index < ola.Index {
				m.lastAncestors[p] = ola
			}
		}
	case selfParent != nil:
		m.lastAncestors = selfParent.lastAncestors.Copy()
	case otherParent != nil:
		m.lastAncestors = otherParent.lastAncestors.Copy()
	default:
		m.lastAncestors = make(CoordinatesMap)
	}

	coords := EventCoordinates{
		Hash:  m.Hex(),
		Index: m.Event().Index(),
	}
	m.firstDescendants[m.CreatorID()] = coords
	m.lastAncestors[m.CreatorID()] = coords
}

// update first descendant of each last ancestor to point to event
func (g *Graph) updateAncestorFirstDescendant(m *EventMetadata) {
	creator := m.CreatorID()
	coords := m.firstDescendants[creator]
	for _, c := range m.lastAncestors {
		a, ok := g.events[c.Hash]
		for ok && a != nil {
			if _, set := a.firstDescendants[creator]; set {
				break
			}
			a.firstDescendants[creator] = coords
			a = a.selfParent
		}
	}
}

// See returns true if y is an ancestor of x. Forks are rejected at insertion,
// so seeing is the same as being an ancestor.
func (g *Graph) See(x, y *EventMetadata) bool {
	if x == y {
		return true
	}
	k := Key{x.Hex(), y.Hex()}
	if c, ok := g.seeCache.Get(k); ok {
		return c.(bool)
	}
	entry, ok := x.lastAncestors[y.CreatorID()]
	res := ok && entry.Index >= y.Event().Index()
	g.seeCache.Add(k, res)
	return res
}

// StronglySee returns true if x sees y through events whose creators hold a
// supermajority of the roster's weight.
func (g *Graph) StronglySee(x, y *EventMetadata) bool {
	k := Key{x.Hex(), y.Hex()}
	if c, ok := g.stronglySeeCache.Get(k); ok {
		return c.(bool)
	}

	counter := g.peerSet.NewStakeCounter()
	for p, yfd := range y.firstDescendants {
		xla, ok := x.lastAncestors[p]
		if ok && xla.Index >= yfd.Index {
			counter.Count(p)
		}
	}

	res := counter.HasQuorum()
	g.stronglySeeCache.Add(k, res)
	return res
}

// FirstDescendant returns the first event created by creator that has x as
// an ancestor, if the graph holds it.
func (g *Graph) FirstDescendant(x *EventMetadata, creator uint32) (*EventMetadata, bool) {
	c, ok := x.firstDescendants[creator]
	if !ok {
		return nil, false
	}
	return g.Get(c.Hash)
}

func (g *Graph) round(selfParent, otherParent, m *EventMetadata) int64 {
	parentRound := RoundUndefined
	for _, p := range []*EventMetadata{selfParent, otherParent} {
		if p != nil && p.RoundCreated() > parentRound {
			parentRound = p.RoundCreated()
		}
	}

	if parentRound == RoundUndefined {
		return g.baseRound
	}

	//an event whose parents are too old to matter starts again at the base
	if parentRound < g.baseRound {
		parentRound = g.baseRound
	}

	counter := g.peerSet.NewStakeCounter()
	for _, w := range g.witnesses[parentRound] {
		if g.StronglySee(m, w) {
			counter.Count(w.CreatorID())
		}
	}
	if counter.HasQuorum() {
		return parentRound + 1
	}
	return parentRound
}

// Evict removes the events matched by expired, and returns them. Their DeGen
// is cleared and their children lose the link to them. The last event of each
// creator is still used to insert the creator's next event, even if evicted.
func (g *Graph) Evict(expired func(*EventMetadata) bool) []*EventMetadata {
	evicted := []*EventMetadata{}
	for hex, m := range g.events {
		if expired(m) {
			delete(g.events, hex)
			ClearDeGen(m)
			m.selfParent, m.otherParent = nil, nil
			evicted = append(evicted, m)
		}
	}
	if len(evicted) == 0 {
		return evicted
	}
	g.evicted = true

	for _, m := range g.events {
		if m.selfParent != nil {
			if _, ok := g.events[m.selfParent.Hex()]; !ok {
				m.selfParent = nil
			}
		}
		if m.otherParent != nil {
			if _, ok := g.events[m.otherParent.Hex()]; !ok {
				m.otherParent = nil
			}
		}
	}

	for r, ws := range g.witnesses {
		kept := ws[:0]
		for _, w := range ws {
			if _, ok := g.events[w.Hex()]; ok {
				kept = append(kept, w)
			}
		}
		if len(kept) == 0 {
			delete(g.witnesses, r)
		} else {
			g.witnesses[r] = kept
		}
	}

	sort.Slice(evicted, func(i, j int) bool { return evicted[i].NGen() < evicted[j].NGen() })

	g.logger.WithField("evicted", len(evicted)).Debug("Evict events")

	return evicted
}
