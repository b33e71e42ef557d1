package app

import "sync/atomic"

// State is the lifecycle position of an App.
//
//	Unstarted -> Bound -> Serving -> Stopped
//
// An App never leaves Stopped.
type State int32

const (
	StateUnstarted State = iota
	StateBound
	StateServing
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateBound:
		return "bound"
	case StateServing:
		return "serving"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

type stateValue struct{ v atomic.Int32 }

func (s *stateValue) load() State { return State(s.v.Load()) }

func (s *stateValue) store(st State) { s.v.Store(int32(st)) }

// advance moves from one state to the next; it fails if another
// transition happened first.
func (s *stateValue) advance(from, to State) bool {
	return s.v.CompareAndSwap(int32(from), int32(to))
}
