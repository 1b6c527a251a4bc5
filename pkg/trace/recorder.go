package trace

import "github.com/aretw0/turing/pkg/domain"

// Recorder captures machine events in memory.
type Recorder[S, Y comparable] struct {
	Steps      []domain.StepEvent[S, Y]
	Extensions []domain.ExtendEvent
	Halts      []domain.HaltEvent[S]
}

// NewRecorder creates an empty recorder.
func NewRecorder[S, Y comparable]() *Recorder[S, Y] {
	return &Recorder[S, Y]{}
}

// Hooks returns the callbacks that feed the recorder.
func (r *Recorder[S, Y]) Hooks() domain.LifecycleHooks[S, Y] {
	return domain.LifecycleHooks[S, Y]{
		OnStep:   func(e *domain.StepEvent[S, Y]) { r.Steps = append(r.Steps, *e) },
		OnExtend: func(e *domain.ExtendEvent) { r.Extensions = append(r.Extensions, *e) },
		OnHalt:   func(e *domain.HaltEvent[S]) { r.Halts = append(r.Halts, *e) },
	}
}

// Reset drops everything recorded so far.
func (r *Recorder[S, Y]) Reset() {
	r.Steps, r.Extensions, r.Halts = nil, nil, nil
}
