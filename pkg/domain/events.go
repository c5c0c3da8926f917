package domain

import (
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeCreated   EventType = "node_created"
	EventLevelPruned   EventType = "level_pruned"
	EventBuildComplete EventType = "build_complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NodeEvent is emitted once a node is fully populated, before its children are built.
type NodeEvent struct {
	EventBase
	Level  int `json:"level"`
	NodeID int `json:"node_id"`
}

// LevelEvent is emitted when a count resolves to zero and a branch stops growing.
type LevelEvent struct {
	EventBase
	Level    int `json:"level"`
	ParentID int `json:"parent_id"` // 0 for the root level
}

// BuildEvent summarizes a finished build.
type BuildEvent struct {
	EventBase
	NodeCount int           `json:"node_count"`
	Depth     int           `json:"depth"`
	Duration  time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for build observability.
// Hooks are called from the goroutine running the build, in pre-order. In
// parallel mode node and prune events are delivered after the branches are
// merged, so NodeID always matches the final numbering.
type LifecycleHooks struct {
	OnNodeCreated   func(*NodeEvent)
	OnLevelPruned   func(*LevelEvent)
	OnBuildComplete func(*BuildEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnNodeCreated:   chain(h.OnNodeCreated, other.OnNodeCreated),
		OnLevelPruned:   chain(h.OnLevelPruned, other.OnLevelPruned),
		OnBuildComplete: chain(h.OnBuildComplete, other.OnBuildComplete),
	}
}

func chain[E any](a, b func(E)) func(E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e E) {
		a(e)
		b(e)
	}
}
