// Package planner implements a Rapidly-exploring Random Tree planner for a
// bounded 2D region with obstacles.
//
// A session grows a tree from the start state until a node connects to the
// goal or the node budget is spent. Each iteration samples a target (the goal
// itself every Nth iteration), finds the nearest tree node, steers at most
// epsilon toward the target and appends the new point if the caller's
// CollisionChecker accepts both the target and the steered point.
//
// Two entry points drive a session:
//
//   - Run: grow to completion and get a Result.
//   - Step: advance one iteration at a time, for animation or debugging tools.
//
// Observers receive a NodeAdded event per accepted node and one SessionDone
// event, so rendering and robot execution live outside this package.
package planner
