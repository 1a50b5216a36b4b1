package planner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
)

// CollisionChecker is the caller-supplied free-space predicate. The planner
// never inspects the obstacles behind it.
type CollisionChecker interface {
	IsFree(p Point) bool
}

// CollisionFunc adapts a function to CollisionChecker.
type CollisionFunc func(p Point) bool

func (f CollisionFunc) IsFree(p Point) bool { return f(p) }

// SegmentChecker is optionally implemented by a CollisionChecker that can
// test whole segments. Without it the goal segment is probed point by point.
type SegmentChecker interface {
	SegmentFree(a, b Point) bool
}

// FreeSpace is a CollisionChecker for a map without obstacles.
var FreeSpace CollisionChecker = CollisionFunc(func(Point) bool { return true })

// State is the orchestrator's position in the growth cycle.
type State int

const (
	StateSampling State = iota
	StateExtending
	StateAcceptOrReject
	StateGoalCheck
	StateDone
)

func (s State) String() string {
	switch s {
	case StateSampling:
		return "SAMPLING"
	case StateExtending:
		return "EXTENDING"
	case StateAcceptOrReject:
		return "ACCEPT_OR_REJECT"
	case StateGoalCheck:
		return "GOAL_CHECK"
	case StateDone:
		return "DONE"
	}
	return "UNKNOWN"
}

// Outcome describes what a single Step did.
type Outcome int

const (
	// OutcomeAccepted means a node was appended and the goal is not reached yet.
	OutcomeAccepted Outcome = iota
	// OutcomeTargetBlocked means the sampled target was in collision.
	OutcomeTargetBlocked
	// OutcomeStepBlocked means the steered point was in collision.
	OutcomeStepBlocked
	// OutcomeGoalReached means this step connected the tree to the goal.
	OutcomeGoalReached
	// OutcomeDone means the session had already finished; nothing happened.
	OutcomeDone
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeTargetBlocked:
		return "target_blocked"
	case OutcomeStepBlocked:
		return "step_blocked"
	case OutcomeGoalReached:
		return "goal_reached"
	case OutcomeDone:
		return "done"
	}
	return "unknown"
}

// StepReport exposes the per-iteration state of the growth loop.
type StepReport struct {
	Iteration int
	Target    Point
	Biased    bool
	// Nearest is the extended node, or -1 when the target was rejected.
	Nearest int
	// NewIndex is the appended node, or -1 when nothing was appended.
	NewIndex int
	Outcome  Outcome
	// State is the orchestrator state after the step.
	State State
}

// Result is the outcome of a session, valid at any point of its growth.
type Result struct {
	GoalReached bool    `json:"goalReached"`
	Tree        []Point `json:"tree"`
	Parent      []int   `json:"parent"`
	Path        []Point `json:"path"`
	GoalIndex   int     `json:"goalIndex"`
	Iterations  int     `json:"iterations"`
	Rejected    int     `json:"rejected"`
}

// Planner grows one RRT session. It is not safe for concurrent use; drive it
// from a single goroutine with Step or Run.
type Planner struct {
	cfg       Config
	checker   CollisionChecker
	segments  SegmentChecker
	logger    *slog.Logger
	observers []Observer

	previous     *Tree
	indexFactory func() NeighborIndex

	tree    *Tree
	index   NeighborIndex
	sampler *Sampler

	state       State
	started     bool
	goalReached bool
	goalIndex   int
	path        []Point
	iterations  int
	rejected    int
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) { p.logger = logger }
}

// WithObserver subscribes observers to node and session events.
func WithObserver(observers ...Observer) Option {
	return func(p *Planner) { p.observers = append(p.observers, observers...) }
}

// WithPreviousTree supplies the tree to continue from when
// Config.RetainPreviousTree is set. The planner copies it before growing.
func WithPreviousTree(t *Tree) Option {
	return func(p *Planner) { p.previous = t }
}

// WithNeighborIndex overrides the index selected by Config.NeighborIndex.
func WithNeighborIndex(factory func() NeighborIndex) Option {
	return func(p *Planner) { p.indexFactory = factory }
}

// New validates cfg and prepares a session. No growth happens until Step or Run.
func New(cfg Config, checker CollisionChecker, options ...Option) (*Planner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if checker == nil {
		return nil, fmt.Errorf("%w: collision checker is required", ErrInvalidConfiguration)
	}

	p := &Planner{
		cfg:       cfg,
		checker:   checker,
		goalIndex: -1,
	}
	for _, option := range options {
		option(p)
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if sc, ok := checker.(SegmentChecker); ok {
		p.segments = sc
	}

	p.tree = NewTree(cfg.Start)
	if cfg.RetainPreviousTree && p.previous != nil {
		if p.previous.Len() > cfg.MaxNodes {
			return nil, fmt.Errorf("%w: retained tree has %d nodes, budget is %d",
				ErrInvalidConfiguration, p.previous.Len(), cfg.MaxNodes)
		}
		if p.previous.Root() != cfg.Start {
			return nil, fmt.Errorf("%w: retained tree is rooted at %v, start is %v",
				ErrInvalidConfiguration, p.previous.Root(), cfg.Start)
		}
		p.tree = p.previous.Clone()
	}

	if p.indexFactory == nil {
		p.indexFactory = indexFactoryFor(cfg.NeighborIndex)
	}
	p.index = p.indexFactory()
	for i, node := range p.tree.nodes {
		p.index.Insert(i, node)
	}

	p.sampler = NewSampler(cfg.Bounds, cfg.Goal, cfg.BiasPercentage, cfg.RandomSeed)
	return p, nil
}

func indexFactoryFor(kind string) func() NeighborIndex {
	if kind == IndexRTree {
		return func() NeighborIndex { return NewRTreeIndex() }
	}
	return func() NeighborIndex { return NewLinearIndex() }
}

// Step runs one sample, extend, accept-or-reject, goal-check iteration.
// Calling Step after the session is done is a no-op reporting OutcomeDone.
func (p *Planner) Step() StepReport {
	if p.state == StateDone {
		return p.report(StepReport{Iteration: p.iterations, Nearest: -1, NewIndex: -1, Outcome: OutcomeDone})
	}
	if !p.started {
		p.started = true
		if report, done := p.begin(); done {
			return report
		}
	}

	report := StepReport{Iteration: p.iterations, Nearest: -1, NewIndex: -1}
	p.iterations++

	p.state = StateSampling
	target, biased := p.sampler.Next()
	report.Target, report.Biased = target, biased
	if !p.checker.IsFree(target) {
		report.Outcome = OutcomeTargetBlocked
		return p.reject(report)
	}

	p.state = StateExtending
	near := p.index.Nearest(target)
	newPoint := Steer(p.tree.Node(near), target, p.cfg.Epsilon)
	report.Nearest = near

	p.state = StateAcceptOrReject
	if !p.checker.IsFree(newPoint) {
		report.Outcome = OutcomeStepBlocked
		return p.reject(report)
	}
	report.NewIndex = p.accept(newPoint, near)
	report.Outcome = OutcomeAccepted

	p.state = StateGoalCheck
	switch {
	case p.tryGoal(report.NewIndex):
		report.Outcome = OutcomeGoalReached
		p.finish(true)
	case p.tree.Len() >= p.cfg.MaxNodes, p.attemptsExhausted():
		p.finish(false)
	default:
		p.state = StateSampling
	}
	return p.report(report)
}

// Run drives the session to DONE. Cancelling ctx stops growth between
// iterations; the partial result is returned along with ctx.Err().
func (p *Planner) Run(ctx context.Context) (Result, error) {
	for p.state != StateDone {
		if err := ctx.Err(); err != nil {
			p.logger.Info("planning session cancelled",
				"nodes", p.tree.Len(), "iterations", p.iterations)
			return p.Result(), err
		}
		p.Step()
	}
	return p.Result(), nil
}

// begin checks the seeded tree before the first iteration. A fresh tree holds
// only the root, so start == goal finishes here.
func (p *Planner) begin() (StepReport, bool) {
	p.logger.Info("planning session started",
		"start", p.cfg.Start.String(),
		"goal", p.cfg.Goal.String(),
		"max_nodes", p.cfg.MaxNodes,
		"epsilon", p.cfg.Epsilon,
		"bias_period", p.sampler.Period(),
		"seeded_nodes", p.tree.Len(),
	)

	report := StepReport{Iteration: p.iterations, Nearest: -1, NewIndex: -1, Outcome: OutcomeAccepted}
	for i := 0; i < p.tree.Len(); i++ {
		if p.tryGoal(i) {
			report.Outcome = OutcomeGoalReached
			if p.goalIndex != i {
				report.NewIndex = p.goalIndex
			}
			p.finish(true)
			return p.report(report), true
		}
	}
	if p.tree.Len() >= p.cfg.MaxNodes {
		p.finish(false)
		return p.report(report), true
	}
	return report, false
}

func (p *Planner) accept(point Point, parent int) int {
	idx := p.tree.add(point, parent)
	p.index.Insert(idx, point)
	p.notify(NodeAdded{Index: idx, Point: point, Parent: parent})
	return idx
}

func (p *Planner) reject(report StepReport) StepReport {
	p.rejected++
	if p.attemptsExhausted() {
		p.finish(false)
	} else {
		p.state = StateSampling
	}
	return p.report(report)
}

// tryGoal connects node i to the goal when it is within epsilon and the
// segment between them is free. A node equal to the goal is the goal node;
// otherwise the goal is appended as a child of i if the budget has room.
func (p *Planner) tryGoal(i int) bool {
	node := p.tree.Node(i)
	if node.Distance(p.cfg.Goal) > p.cfg.Epsilon {
		return false
	}
	if node == p.cfg.Goal {
		p.goalIndex = i
		return true
	}
	if p.tree.Len() >= p.cfg.MaxNodes || !p.segmentFree(node, p.cfg.Goal) {
		return false
	}
	p.goalIndex = p.accept(p.cfg.Goal, i)
	return true
}

// segmentFree uses the checker's segment test when available and otherwise
// probes points every epsilon/4 along the segment, goal included.
func (p *Planner) segmentFree(a, b Point) bool {
	if p.segments != nil {
		return p.segments.SegmentFree(a, b)
	}
	n := int(math.Ceil(a.Distance(b) / (p.cfg.Epsilon / 4)))
	for k := 1; k <= n; k++ {
		t := float64(k) / float64(n)
		probe := Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
		if !p.checker.IsFree(probe) {
			return false
		}
	}
	return true
}

func (p *Planner) attemptsExhausted() bool {
	return p.cfg.MaxAttempts > 0 && p.iterations >= p.cfg.MaxAttempts
}

func (p *Planner) finish(reached bool) {
	p.state = StateDone
	p.goalReached = reached
	if reached {
		// goalIndex is valid by construction, so extraction cannot fail
		p.path, _ = ExtractPath(p.tree, p.goalIndex)
	}
	p.logger.Info("planning session finished",
		"goal_reached", reached,
		"nodes", p.tree.Len(),
		"iterations", p.iterations,
		"rejected", p.rejected,
		"path_nodes", len(p.path),
	)
	p.notify(SessionDone{GoalReached: reached, Path: p.Path()})
}

func (p *Planner) report(r StepReport) StepReport {
	r.State = p.state
	return r
}

func (p *Planner) notify(e Event) {
	for _, o := range p.observers {
		o.Notify(e)
	}
}

// Config returns the session configuration.
func (p *Planner) Config() Config { return p.cfg }

// State returns the current orchestrator state.
func (p *Planner) State() State { return p.state }

// Done reports whether the session reached DONE.
func (p *Planner) Done() bool { return p.state == StateDone }

// GoalReached reports whether the tree connects start to goal.
func (p *Planner) GoalReached() bool { return p.goalReached }

// Tree returns the live tree. It has no exported mutators; the planner is its
// only writer.
func (p *Planner) Tree() *Tree { return p.tree }

// Path returns a copy of the start-to-goal path, empty until the goal is reached.
func (p *Planner) Path() []Point {
	out := make([]Point, len(p.path))
	copy(out, p.path)
	return out
}

// Iterations returns the number of iterations run, rejected ones included.
func (p *Planner) Iterations() int { return p.iterations }

// Rejected returns the number of iterations that did not grow the tree.
func (p *Planner) Rejected() int { return p.rejected }

// Result snapshots the session.
func (p *Planner) Result() Result {
	return Result{
		GoalReached: p.goalReached,
		Tree:        p.tree.Nodes(),
		Parent:      p.tree.Parents(),
		Path:        p.Path(),
		GoalIndex:   p.goalIndex,
		Iterations:  p.iterations,
		Rejected:    p.rejected,
	}
}
