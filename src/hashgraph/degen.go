package hashgraph

// CalculateDeGen sets the DeGen of an event to one more than the highest DeGen
// of its parents. Parents that are missing, or whose round is
// RoundNegativeInfinity, count as LocalGenerationUndefined.
func CalculateDeGen(event *EventMetadata) {
	maxParentDeGen := parentDeGen(event.SelfParent())
	if d := parentDeGen(event.OtherParent()); d > maxParentDeGen {
		maxParentDeGen = d
	}
	event.SetDeGen(maxParentDeGen + 1)
}

func parentDeGen(parent *EventMetadata) int64 {
	if parent == nil || parent.RoundCreated() == RoundNegativeInfinity {
		return LocalGenerationUndefined
	}
	return parent.DeGen()
}

// ClearDeGen unsets the DeGen of an event that will never be used again.
func ClearDeGen(event *EventMetadata) {
	event.SetDeGen(LocalGenerationUndefined)
}
