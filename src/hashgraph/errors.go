package hashgraph

import "errors"

var (
	// ErrEventExists is returned when inserting an event twice.
	ErrEventExists = errors.New("event already in graph")
	// ErrInvalidParents is returned when an event does not list exactly two
	// parent slots.
	ErrInvalidParents = errors.New("event must have exactly two parent slots")
	// ErrUnknownParent is returned when a parent is not in the graph.
	ErrUnknownParent = errors.New("unknown parent")
	// ErrSelfParent is returned when the self-parent is not the creator's
	// last event, or when its creator or index does not match.
	ErrSelfParent = errors.New("self-parent is not the creator's last event")
	// ErrGeneration is returned when the declared generation does not follow
	// from the parents.
	ErrGeneration = errors.New("generation does not match parents")
)
