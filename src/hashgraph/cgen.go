package hashgraph

import "sort"

// AssignCGen numbers the events that reached consensus in the same round.
// Events are processed in nGen order. Each gets one more than the highest cGen
// of its parents, where parents outside the round count as
// LocalGenerationUndefined because their cGen is cleared.
//
// The events slice itself is not reordered.
func AssignCGen(events []*EventMetadata) {
	byNGen := make([]*EventMetadata, len(events))
	copy(byNGen, events)
	sort.SliceStable(byNGen, func(i, j int) bool {
		return byNGen[i].NGen() < byNGen[j].NGen()
	})

	for _, e := range byNGen {
		maxParentCGen := parentCGen(e.SelfParent())
		if c := parentCGen(e.OtherParent()); c > maxParentCGen {
			maxParentCGen = c
		}
		e.SetCGen(maxParentCGen + 1)
	}
}

func parentCGen(parent *EventMetadata) int64 {
	if parent == nil {
		return LocalGenerationUndefined
	}
	return parent.CGen()
}

// ClearCGen resets the cGen of every event. It must run as soon as the round
// is sorted.
func ClearCGen(events []*EventMetadata) {
	for _, e := range events {
		e.SetCGen(LocalGenerationUndefined)
	}
}
