package peers

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ugorji/go/codec"
)

const jsonPeerSetPath = "peers.json"

// JSONPeerSet reads and writes a roster as [base]/peers.json.
type JSONPeerSet struct {
	l    sync.Mutex
	path string
}

// NewJSONPeerSet ...
func NewJSONPeerSet(base string) *JSONPeerSet {
	return &JSONPeerSet{
		path: filepath.Join(base, jsonPeerSetPath),
	}
}

func peersHandle() *codec.JsonHandle {
	jh := new(codec.JsonHandle)
	jh.Indent = 2
	return jh
}

// PeerSet reads the file. An empty file yields a nil PeerSet. Public keys are
// upper-cased and missing weights default to DefaultWeight.
func (j *JSONPeerSet) PeerSet() (*PeerSet, error) {
	j.l.Lock()
	defer j.l.Unlock()

	buf, err := ioutil.ReadFile(j.path)
	if err != nil {
		return nil, err
	}

	if len(buf) == 0 {
		return nil, nil
	}

	var roster []*Peer
	if err := codec.NewDecoderBytes(buf, peersHandle()).Decode(&roster); err != nil {
		return nil, err
	}

	for _, p := range roster {
		p.PubKeyHex = "0X" + strings.TrimPrefix(strings.ToUpper(p.PubKeyHex), "0X")
		if p.Weight == 0 {
			p.Weight = DefaultWeight
		}
	}

	return NewPeerSet(roster), nil
}

// Write replaces the file with the given roster.
func (j *JSONPeerSet) Write(roster []*Peer) error {
	j.l.Lock()
	defer j.l.Unlock()

	var buf []byte
	if err := codec.NewEncoderBytes(&buf, peersHandle()).Encode(roster); err != nil {
		return err
	}

	return ioutil.WriteFile(j.path, buf, 0644)
}
