package hashgraph

import (
	"bytes"
	"time"

	"github.com/mosaicnetworks/hashround/src/common"
	"github.com/mosaicnetworks/hashround/src/crypto"
	"github.com/ugorji/go/codec"
)

/*******************************************************************************
EventBody
*******************************************************************************/

// EventBody contains the payload of an Event as well as the information that
// ties it to other Events.
type EventBody struct {
	Transactions [][]byte //the payload
	Parents      []string //hashes of the event's parents, self-parent first, "" for none
	Creator      []byte   //creator's public key
	Index        int64    //index in the sequence of events created by Creator
	Generation   int64    //1 + max generation of the parents
	BirthRound   int64    //round the creator considered current when creating the event
	Timestamp    int64    //creator's wall clock, unix nanoseconds
}

func jsonHandle() *codec.JsonHandle {
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	return jh
}

// Marshal returns the canonical JSON encoding of an EventBody
func (e *EventBody) Marshal() ([]byte, error) {
	b := new(bytes.Buffer)
	enc := codec.NewEncoder(b, jsonHandle())
	if err := enc.Encode(e); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Unmarshal converts a JSON encoded EventBody to an EventBody
func (e *EventBody) Unmarshal(data []byte) error {
	b := bytes.NewBuffer(data)
	dec := codec.NewDecoder(b, jsonHandle())
	return dec.Decode(e)
}

// Hash returns the SHA384 hash of the canonical JSON encoding of the body.
func (e *EventBody) Hash() ([]byte, error) {
	hashBytes, err := e.Marshal()
	if err != nil {
		return nil, err
	}
	return crypto.SHA384(hashBytes), nil
}

/*******************************************************************************
Event
*******************************************************************************/

// Event is the immutable unit of the hashgraph. The consensus data computed
// about it is kept separately in EventMetadata.
type Event struct {
	Body EventBody

	creatorID uint32
	creator   string
	hash      []byte
	hex       string
}

// NewEvent instantiates a new Event. parents is [selfParent, otherParent],
// with empty strings for missing parents.
func NewEvent(transactions [][]byte,
	parents []string,
	creator []byte,
	index int64,
	generation int64,
	birthRound int64,
	timestamp time.Time) *Event {

	body := EventBody{
		Transactions: transactions,
		Parents:      parents,
		Creator:      creator,
		Index:        index,
		Generation:   generation,
		BirthRound:   birthRound,
		Timestamp:    timestamp.UnixNano(),
	}
	return &Event{
		Body: body,
	}
}

// Creator returns the string representation of the creator's public key.
func (e *Event) Creator() string {
	if e.creator == "" {
		e.creator = common.EncodeToString(e.Body.Creator)
	}
	return e.creator
}

// CreatorID returns the numeric ID of the creator, as used in the roster.
func (e *Event) CreatorID() uint32 {
	if e.creatorID == 0 {
		e.creatorID = common.Hash32(e.Body.Creator)
	}
	return e.creatorID
}

// SelfParent returns the hex of the Event's self-parent, or ""
func (e *Event) SelfParent() string {
	if len(e.Body.Parents) < 1 {
		return ""
	}
	return e.Body.Parents[0]
}

// OtherParent returns the hex of the Event's other-parent, or ""
func (e *Event) OtherParent() string {
	if len(e.Body.Parents) < 2 {
		return ""
	}
	return e.Body.Parents[1]
}

// Transactions returns the Event's transactions
func (e *Event) Transactions() [][]byte {
	return e.Body.Transactions
}

// Index returns the Event's index
func (e *Event) Index() int64 {
	return e.Body.Index
}

// Generation ...
func (e *Event) Generation() int64 {
	return e.Body.Generation
}

// BirthRound ...
func (e *Event) BirthRound() int64 {
	return e.Body.BirthRound
}

// Timestamp returns the creator's timestamp in UTC
func (e *Event) Timestamp() time.Time {
	return time.Unix(0, e.Body.Timestamp).UTC()
}

// Hash returns the SHA384 hash of the Event's body. Encoding the body cannot
// fail for the field types it holds, so the error is dropped.
func (e *Event) Hash() []byte {
	if len(e.hash) == 0 {
		hash, _ := e.Body.Hash()
		e.hash = hash
	}
	return e.hash
}

// Hex returns a hex string representation of the Event's hash
func (e *Event) Hex() string {
	if e.hex == "" {
		e.hex = common.EncodeToString(e.Hash())
	}
	return e.hex
}

// Marshal encodes the body of the Event.
func (e *Event) Marshal() ([]byte, error) {
	return e.Body.Marshal()
}

// Unmarshal decodes an Event body and resets the cached values.
func (e *Event) Unmarshal(data []byte) error {
	*e = Event{}
	return e.Body.Unmarshal(data)
}
