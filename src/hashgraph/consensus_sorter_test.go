package hashgraph

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortable(t *testing.T, n int) []*EventMetadata {
	res := []*EventMetadata{}
	for i := 0; i < n; i++ {
		e := NewEvent([][]byte{[]byte(fmt.Sprintf("tx%d", i))}, []string{"", ""}, []byte("creator"), int64(i), 0, RoundFirst, genesis)
		m := NewEventMetadata(e, nil, nil)
		m.SetNGen(int64(i + 1))
		res = append(res, m)
	}
	return res
}

func at(ms ...int) []time.Time {
	res := []time.Time{}
	for _, m := range ms {
		res = append(res, genesis.Add(time.Duration(m)*time.Millisecond))
	}
	return res
}

func TestSortPrecedence(t *testing.T) {
	events := sortable(t, 4)
	a, b, c, d := events[0], events[1], events[2], events[3]

	// d has the earliest timestamp
	for _, m := range events {
		m.SetConsensusTimestamp(genesis.Add(time.Second))
	}
	d.SetConsensusTimestamp(genesis)

	// same median, c wins below the median
	a.SetRecTimes(at(1, 5, 9))
	b.SetRecTimes(at(2, 5, 9))
	c.SetRecTimes(at(0, 5, 9))

	list := []*EventMetadata{a, b, c, d}
	Sort(list, nil)

	assert.Equal(t, []string{d.Hex(), c.Hex(), a.Hex(), b.Hex()},
		[]string{list[0].Hex(), list[1].Hex(), list[2].Hex(), list[3].Hex()})

	// identical times: cGen decides
	a.SetRecTimes(at(1, 5, 9))
	b.SetRecTimes(at(1, 5, 9))
	a.SetCGen(2)
	b.SetCGen(1)
	list = []*EventMetadata{a, b}
	Sort(list, nil)
	assert.Equal(t, b.Hex(), list[0].Hex())
}

func TestExtendedMedian(t *testing.T) {
	// middle elements are compared first
	assert.Equal(t, 0, compareExtendedMedian(at(1, 2, 3), at(1, 2, 3)))
	assert.Equal(t, -1, compareExtendedMedian(at(1, 2, 3), at(1, 3, 3)))
	// then the element below the middle
	assert.Equal(t, 1, compareExtendedMedian(at(1, 2, 3), at(0, 2, 3)))
	// then the element above
	assert.Equal(t, -1, compareExtendedMedian(at(1, 2, 3), at(1, 2, 4)))
	// upper middle for even lengths
	assert.Equal(t, 1, compareExtendedMedian(at(2, 4), at(1, 4)))
	assert.Equal(t, -1, compareExtendedMedian(at(2, 4), at(2, 5)))
	// stop as soon as one list runs out
	assert.Equal(t, 0, compareExtendedMedian(at(1, 2, 3, 4, 5), at(3)))
	assert.Equal(t, 0, compareExtendedMedian(nil, at(1)))
}

func TestWhitenedHash(t *testing.T) {
	x := []byte{0x01, 0xFF}
	y := []byte{0x02, 0x00}

	assert.Equal(t, -1, compareWhitened(x, y, nil))
	// flipping the low bits of the first byte swaps the order
	assert.Equal(t, 1, compareWhitened(x, y, []byte{0x03}))
	assert.Equal(t, 0, compareWhitened(x, x, []byte{0x42}))
	assert.Equal(t, -1, compareWhitened(x, append(x, 0), nil))

	w := Whitening([][]byte{{0x0F, 0x01}, {0xF0, 0x01}})
	assert.Equal(t, []byte{0xFF, 0x00}, w)
}

func TestSortTotalAndIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	events := sortable(t, 50)
	for _, m := range events {
		// few distinct values so that every rule is needed
		m.SetConsensusTimestamp(genesis.Add(time.Duration(rng.Intn(3)) * time.Millisecond))
		m.SetRecTimes(at(rng.Intn(2), 5, 5+rng.Intn(2)))
		m.SetCGen(int64(rng.Intn(2)))
	}
	whitening := Whitening([][]byte{events[0].Hash(), events[1].Hash()})

	Sort(events, whitening)
	require.NoError(t, CheckTotal(events, whitening))

	s := NewConsensusSorter(events, whitening)
	for i := 1; i < len(events); i++ {
		assert.Equal(t, -1, s.Compare(events[i-1], events[i]))
	}

	before := []string{}
	for _, m := range events {
		before = append(before, m.Hex())
	}
	Sort(events, whitening)
	for i, m := range events {
		assert.Equal(t, before[i], m.Hex())
	}

	// the order does not depend on the input order
	shuffled := make([]*EventMetadata, len(events))
	copy(shuffled, events)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	Sort(shuffled, whitening)
	for i, m := range shuffled {
		assert.Equal(t, before[i], m.Hex())
	}

	dup := []*EventMetadata{events[0], events[0]}
	assert.Error(t, CheckTotal(dup, whitening))
}
