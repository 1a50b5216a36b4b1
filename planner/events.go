package planner

// Event is delivered to observers as the tree grows.
type Event interface {
	eventName() string
}

// NodeAdded is emitted once per accepted node, including a final goal node.
type NodeAdded struct {
	Index  int   `json:"index"`
	Point  Point `json:"point"`
	Parent int   `json:"parent"`
}

// SessionDone is emitted once when the session reaches DONE.
type SessionDone struct {
	GoalReached bool    `json:"goalReached"`
	Path        []Point `json:"path"`
}

func (NodeAdded) eventName() string   { return "node_added" }
func (SessionDone) eventName() string { return "session_done" }

// EventName returns the wire name of an event: "node_added" or "session_done".
func EventName(e Event) string { return e.eventName() }

// Observer receives planner events synchronously on the planning goroutine.
type Observer interface {
	Notify(e Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(e Event)

func (f ObserverFunc) Notify(e Event) { f(e) }
