package hashgraph

const (
	// RoundUndefined is the round of something that has no round yet.
	RoundUndefined int64 = -1
	// RoundNegativeInfinity is assigned to events that are too old to take part
	// in the consensus of any undecided round.
	RoundNegativeInfinity int64 = 0
	// RoundFirst is the first round of the hashgraph.
	RoundFirst int64 = 1

	// GenerationUndefined ...
	GenerationUndefined int64 = -1
	// FirstGeneration is the generation of an event without parents.
	FirstGeneration int64 = 0

	// NGenUndefined is the nGen of an event that was not inserted in a Graph.
	NGenUndefined int64 = -1
	// FirstNGen is the nGen of the first event inserted in a Graph.
	FirstNGen int64 = 1

	// LocalGenerationUndefined is the unset value of DeGen and cGen.
	LocalGenerationUndefined int64 = 0
	// FirstLocalGeneration is the DeGen or cGen of an event without relevant
	// parents.
	FirstLocalGeneration int64 = 1

	// FirstConsensusNumber is the consensus order of the first event to reach
	// consensus.
	FirstConsensusNumber int64 = 0

	// ThresholdUndefined is returned for ancient thresholds before any round
	// is decided.
	ThresholdUndefined int64 = -1
)
