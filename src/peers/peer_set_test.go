package peers

import (
	"fmt"
	"io/ioutil"
	"os"
	"testing"

	"github.com/mosaicnetworks/hashround/src/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPeers(t *testing.T, weights ...uint64) []*Peer {
	res := []*Peer{}
	for i, w := range weights {
		key, err := crypto.GenerateECDSAKey()
		require.NoError(t, err)
		res = append(res, NewPeer(crypto.PublicKeyHex(&key.PublicKey), fmt.Sprintf("peer%d", i), w))
	}
	return res
}

func TestPeerSetSuperMajority(t *testing.T) {
	for _, c := range []struct {
		weights []uint64
		total   uint64
		sm      uint64
	}{
		{[]uint64{1, 1, 1}, 3, 3},
		{[]uint64{1, 1, 1, 1}, 4, 3},
		{[]uint64{10, 5, 5, 1}, 21, 15},
		{[]uint64{0, 0}, 2, 2},
	} {
		ps := NewPeerSet(testPeers(t, c.weights...))
		assert.Equal(t, c.total, ps.TotalWeight(), "weights %v", c.weights)
		assert.Equal(t, c.sm, ps.SuperMajority(), "weights %v", c.weights)
	}
}

func TestPeerSetContains(t *testing.T) {
	pirs := testPeers(t, 1, 2, 3)
	ps := NewPeerSet(pirs[:2])

	assert.True(t, ps.Contains(pirs[0].ID()))
	assert.True(t, ps.Contains(pirs[1].ID()))
	assert.False(t, ps.Contains(pirs[2].ID()))
	assert.Equal(t, uint64(2), ps.Weight(pirs[1].ID()))
	assert.Equal(t, uint64(0), ps.Weight(pirs[2].ID()))

	ids := ps.IDs()
	require.Len(t, ids, 2)
	assert.True(t, ids[0] < ids[1])
}

func TestStakeCounter(t *testing.T) {
	pirs := testPeers(t, 3, 1, 1, 1)
	outsider := testPeers(t, 10)[0]
	ps := NewPeerSet(pirs)

	c := ps.NewStakeCounter()
	assert.True(t, c.Count(pirs[0].ID()))
	assert.False(t, c.Count(pirs[0].ID()), "double count")
	assert.False(t, c.Count(outsider.ID()), "non-member")
	assert.False(t, c.HasQuorum())

	c.Count(pirs[1].ID())
	assert.Equal(t, uint64(4), c.Sum())
	assert.False(t, c.HasQuorum())

	c.Count(pirs[2].ID())
	assert.True(t, c.HasQuorum())
}

func TestJSONPeerSet(t *testing.T) {
	dir, err := ioutil.TempDir("", "hashround")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	store := NewJSONPeerSet(dir)

	// Try a read, should get nothing
	peerSet, err := store.PeerSet()
	assert.Error(t, err)
	assert.Nil(t, peerSet)

	pirs := testPeers(t, 1, 2, 3)
	require.NoError(t, store.Write(pirs))

	peerSet, err = store.PeerSet()
	require.NoError(t, err)
	require.Equal(t, 3, peerSet.Len())
	assert.Equal(t, uint64(6), peerSet.TotalWeight())

	for _, p := range pirs {
		assert.True(t, peerSet.Contains(p.ID()))
	}
	assert.Equal(t, NewPeerSet(pirs).Hex(), peerSet.Hex())
}
