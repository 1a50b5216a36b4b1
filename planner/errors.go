package planner

import "errors"

var (
	// ErrInvalidConfiguration is returned before any growth when the session
	// parameters cannot produce a valid tree.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidTree is returned when node/parent arrays break the tree invariants.
	ErrInvalidTree = errors.New("invalid tree")

	// ErrGoalNotReached reports a finished session whose tree never connected to the goal.
	ErrGoalNotReached = errors.New("goal not reached")
)
