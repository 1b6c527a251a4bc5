package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventStep   EventType = "step"
	EventExtend EventType = "extend"
	EventHalt   EventType = "halt"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Step      int       `json:"step"` // 1-based index of the transition that produced the event
}

// StepEvent reports one applied transition.
type StepEvent[S, Y comparable] struct {
	EventBase
	From  S        `json:"from"`
	Read  Y        `json:"read"`
	To    S        `json:"to"`
	Write Y        `json:"write"`
	Move  Movement `json:"move"`
	Head  int      `json:"head"` // head index before the move
}

// ExtendEvent reports a blank cell added to one end of the tape.
type ExtendEvent struct {
	EventBase
	Direction Movement `json:"direction"`
	Length    int      `json:"length"`
}

// HaltEvent reports that a transition entered a final state.
type HaltEvent[S comparable] struct {
	EventBase
	State S `json:"state"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any field may be nil.
type LifecycleHooks[S, Y comparable] struct {
	OnStep   func(*StepEvent[S, Y])
	OnExtend func(*ExtendEvent)
	OnHalt   func(*HaltEvent[S])
}

// MergeHooks returns hooks that call every non-nil callback of each input in order.
func MergeHooks[S, Y comparable](all ...LifecycleHooks[S, Y]) LifecycleHooks[S, Y] {
	var merged LifecycleHooks[S, Y]
	for _, h := range all {
		if h.OnStep != nil {
			prev, next := merged.OnStep, h.OnStep
			merged.OnStep = func(e *StepEvent[S, Y]) {
				if prev != nil {
					prev(e)
				}
				next(e)
			}
		}
		if h.OnExtend != nil {
			prev, next := merged.OnExtend, h.OnExtend
			merged.OnExtend = func(e *ExtendEvent) {
				if prev != nil {
					prev(e)
				}
				next(e)
			}
		}
		if h.OnHalt != nil {
			prev, next := merged.OnHalt, h.OnHalt
			merged.OnHalt = func(e *HaltEvent[S]) {
				if prev != nil {
					prev(e)
				}
				next(e)
			}
		}
	}
	return merged
}
