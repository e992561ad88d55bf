package hashgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func metadataWith(deGen, round int64) *EventMetadata {
	m := NewEventMetadata(NewEvent(nil, []string{"", ""}, []byte("x"), 0, 0, RoundFirst, genesis), nil, nil)
	m.SetDeGen(deGen)
	m.SetRoundCreated(round)
	return m
}

func TestDeGen(t *testing.T) {
	orphan := metadataWith(LocalGenerationUndefined, RoundFirst)
	CalculateDeGen(orphan)
	assert.Equal(t, int64(1), orphan.DeGen())

	p1 := metadataWith(3, 4)
	p2 := metadataWith(5, 4)
	child := NewEventMetadata(orphan.Event(), p1, p2)
	CalculateDeGen(child)
	assert.Equal(t, int64(6), child.DeGen())

	// a parent in the negative infinity round does not count
	old := metadataWith(9, RoundNegativeInfinity)
	child = NewEventMetadata(orphan.Event(), p1, old)
	CalculateDeGen(child)
	assert.Equal(t, int64(4), child.DeGen())

	child = NewEventMetadata(orphan.Event(), old, nil)
	CalculateDeGen(child)
	assert.Equal(t, FirstLocalGeneration, child.DeGen())

	ClearDeGen(child)
	assert.Equal(t, LocalGenerationUndefined, child.DeGen())
}
