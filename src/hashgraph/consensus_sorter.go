package hashgraph

import (
	"fmt"
	"sort"
	"time"

	"github.com/mosaicnetworks/hashround/src/crypto"
)

// ConsensusSorter orders the events received in one round. The order is, by
// precedence: consensus timestamp, extended median of the received times,
// cGen, and finally the event hash XORed with the round's whitening.
type ConsensusSorter struct {
	a         []*EventMetadata
	whitening []byte
}

// NewConsensusSorter ...
func NewConsensusSorter(events []*EventMetadata, whitening []byte) ConsensusSorter {
	return ConsensusSorter{
		a:         events,
		whitening: whitening,
	}
}

func (b ConsensusSorter) Len() int           { return len(b.a) }
func (b ConsensusSorter) Swap(i, j int)      { b.a[i], b.a[j] = b.a[j], b.a[i] }
func (b ConsensusSorter) Less(i, j int) bool { return b.Compare(b.a[i], b.a[j]) < 0 }

// Compare returns -1, 0 or 1. Distinct events only compare equal if their
// hashes are equal.
func (b ConsensusSorter) Compare(x, y *EventMetadata) int {
	if c := compareTime(x.ConsensusTimestamp(), y.ConsensusTimestamp()); c != 0 {
		return c
	}

	if c := compareExtendedMedian(x.RecTimes(), y.RecTimes()); c != 0 {
		return c
	}

	if x.CGen() != y.CGen() {
		if x.CGen() < y.CGen() {
			return -1
		}
		return 1
	}

	return compareWhitened(x.Hash(), y.Hash(), b.whitening)
}

// Sort sorts events in place in consensus order. AssignCGen must have been
// called on the same events beforehand.
func Sort(events []*EventMetadata, whitening []byte) {
	sort.Sort(NewConsensusSorter(events, whitening))
}

// CheckTotal returns an error if two adjacent events of a sorted slice compare
// equal, which would make the order depend on the sorting algorithm.
func CheckTotal(events []*EventMetadata, whitening []byte) error {
	s := NewConsensusSorter(events, whitening)
	for i := 1; i < len(events); i++ {
		if s.Compare(events[i-1], events[i]) == 0 {
			return fmt.Errorf("events %s and %s have identical sort keys",
				events[i-1].Hex(), events[i].Hex())
		}
	}
	return nil
}

// Whitening returns the XOR of the given hashes.
func Whitening(hashes [][]byte) []byte {
	var res []byte
	for _, h := range hashes {
		res = crypto.XOR(res, h)
	}
	return res
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

// compareExtendedMedian compares the middle elements of two sorted lists
// (upper middle for even lengths), then moves outward alternately below and
// above the middle, until a difference is found or one of the lists runs out.
func compareExtendedMedian(a, b []time.Time) int {
	m1 := len(a) / 2
	m2 := len(b) / 2
	for d := 0; ; {
		if m1+d < 0 || m1+d >= len(a) || m2+d < 0 || m2+d >= len(b) {
			return 0
		}
		if c := compareTime(a[m1+d], b[m2+d]); c != 0 {
			return c
		}
		// 0, -1, 1, -2, 2, ...
		if d < 0 {
			d = -d
		} else {
			d = -d - 1
		}
	}
}

func compareWhitened(a, b, whitening []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		x, y := a[i], b[i]
		if len(whitening) > 0 {
			w := whitening[i%len(whitening)]
			x ^= w
			y ^= w
		}
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
