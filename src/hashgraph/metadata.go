package hashgraph

import (
	"time"

	"github.com/mosaicnetworks/hashround/src/common"
)

// EventCoordinates combines the index and hash of an Event
type EventCoordinates struct {
	Hash  string
	Index int64
}

// CoordinatesMap is used to efficiently calculate the see and strongly-see
// predicates. It is keyed by creator ID.
type CoordinatesMap map[uint32]EventCoordinates

// Copy creates a clone of a CoordinatesMap
func (c CoordinatesMap) Copy() CoordinatesMap {
	res := make(CoordinatesMap, len(c))
	for k, v := range c {
		res[k] = v
	}
	return res
}

// EventMetadata is the consensus core's record of an Event. The Event itself
// is never modified; every value computed by consensus is stored here.
type EventMetadata struct {
	event       *Event
	selfParent  *EventMetadata
	otherParent *EventMetadata

	nGen         int64
	roundCreated int64
	witness      bool
	famous       common.Trilean

	cGen  int64
	deGen int64

	roundReceived      int64
	consensusTimestamp time.Time
	recTimes           []time.Time
	consensusOrder     int64

	lastAncestors    CoordinatesMap
	firstDescendants CoordinatesMap
}

// NewEventMetadata creates the record of an event whose parents' records are
// selfParent and otherParent. Either parent may be nil.
func NewEventMetadata(event *Event, selfParent, otherParent *EventMetadata) *EventMetadata {
	return &EventMetadata{
		event:          event,
		selfParent:     selfParent,
		otherParent:    otherParent,
		nGen:           NGenUndefined,
		roundCreated:   RoundUndefined,
		roundReceived:  RoundUndefined,
		consensusOrder: -1,
	}
}

// Event returns the underlying immutable Event.
func (m *EventMetadata) Event() *Event {
	return m.event
}

// Hex is the hex of the event hash
func (m *EventMetadata) Hex() string {
	return m.event.Hex()
}

// Hash ...
func (m *EventMetadata) Hash() []byte {
	return m.event.Hash()
}

// CreatorID ...
func (m *EventMetadata) CreatorID() uint32 {
	return m.event.CreatorID()
}

// SelfParent returns the self-parent's record, or nil if the self-parent is
// absent or no longer held by the graph.
func (m *EventMetadata) SelfParent() *EventMetadata {
	return m.selfParent
}

// OtherParent returns the other-parent's record, or nil.
func (m *EventMetadata) OtherParent() *EventMetadata {
	return m.otherParent
}

// NGen ...
func (m *EventMetadata) NGen() int64 {
	return m.nGen
}

// SetNGen ...
func (m *EventMetadata) SetNGen(nGen int64) {
	m.nGen = nGen
}

// RoundCreated ...
func (m *EventMetadata) RoundCreated() int64 {
	return m.roundCreated
}

// SetRoundCreated ...
func (m *EventMetadata) SetRoundCreated(round int64) {
	m.roundCreated = round
}

// IsWitness ...
func (m *EventMetadata) IsWitness() bool {
	return m.witness
}

// SetWitness ...
func (m *EventMetadata) SetWitness(witness bool) {
	m.witness = witness
}

// Famous is Undefined until fame is decided.
func (m *EventMetadata) Famous() common.Trilean {
	return m.famous
}

// IsFamous is true only once the event is decided famous.
func (m *EventMetadata) IsFamous() bool {
	return m.famous == common.True
}

// FameDecided ...
func (m *EventMetadata) FameDecided() bool {
	return m.famous.Defined()
}

// SetFamous decides the fame of the event.
func (m *EventMetadata) SetFamous(famous bool) {
	m.famous = common.FromBool(famous)
}

// CGen ...
func (m *EventMetadata) CGen() int64 {
	return m.cGen
}

// SetCGen ...
func (m *EventMetadata) SetCGen(cGen int64) {
	m.cGen = cGen
}

// DeGen ...
func (m *EventMetadata) DeGen() int64 {
	return m.deGen
}

// SetDeGen ...
func (m *EventMetadata) SetDeGen(deGen int64) {
	m.deGen = deGen
}

// RoundReceived ...
func (m *EventMetadata) RoundReceived() int64 {
	return m.roundReceived
}

// SetRoundReceived ...
func (m *EventMetadata) SetRoundReceived(round int64) {
	m.roundReceived = round
}

// ConsensusTimestamp ...
func (m *EventMetadata) ConsensusTimestamp() time.Time {
	return m.consensusTimestamp
}

// SetConsensusTimestamp ...
func (m *EventMetadata) SetConsensusTimestamp(t time.Time) {
	m.consensusTimestamp = t
}

// RecTimes are the times at which the judges' creators first received the
// event, in ascending order.
func (m *EventMetadata) RecTimes() []time.Time {
	return m.recTimes
}

// SetRecTimes ...
func (m *EventMetadata) SetRecTimes(recTimes []time.Time) {
	m.recTimes = recTimes
}

// ConsensusOrder is -1 until the event reaches consensus.
func (m *EventMetadata) ConsensusOrder() int64 {
	return m.consensusOrder
}

// SetConsensusOrder ...
func (m *EventMetadata) SetConsensusOrder(order int64) {
	m.consensusOrder = order
}

// IsConsensus is true once the event has a round received.
func (m *EventMetadata) IsConsensus() bool {
	return m.roundReceived != RoundUndefined
}
